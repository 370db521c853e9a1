package provider

import (
	"context"
	"net/http"
	"net/url"

	"github.com/karrtopelka/drill-bot/media"
	"github.com/karrtopelka/drill-bot/network"
)

// Tikwm adapts the tikwm.com extraction backend. Its schema carries separate
// HD and watermarked video addresses, an image array for slideshows, and a
// structured music object exposing an array of play URLs.
type Tikwm struct {
	base   string
	client *http.Client
}

// NewTikwm returns the tikwm adapter bound to the production endpoint.
func NewTikwm() *Tikwm {
	return &Tikwm{base: "https://www.tikwm.com", client: network.Client}
}

func (t *Tikwm) Name() string { return "tikwm" }

// tikwmResponse mirrors the backend's JSON envelope.
type tikwmResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Title       string   `json:"title"`
		Cover       string   `json:"cover"`
		OriginCover string   `json:"origin_cover"`
		Duration    int      `json:"duration"`
		HDPlay      string   `json:"hdplay"`
		Play        string   `json:"play"`
		WMPlay      string   `json:"wmplay"`
		Images      []string `json:"images"`
		MusicInfo   struct {
			Title string   `json:"title"`
			Play  []string `json:"play"`
		} `json:"music_info"`
		Author struct {
			Nickname string `json:"nickname"`
		} `json:"author"`
	} `json:"data"`
}

func (t *Tikwm) Resolve(ctx context.Context, link string) (*media.Set, error) {
	endpoint := t.base + "/api/?hd=1&url=" + url.QueryEscape(link)

	var resp tikwmResponse
	if err := fetchJSON(ctx, t.client, t.Name(), endpoint, &resp); err != nil {
		return nil, err
	}

	if resp.Code != 0 {
		return nil, Failf(t.Name(), "backend error %d: %s", resp.Code, resp.Msg)
	}

	d := resp.Data
	set := &media.Set{
		OriginalLink: link,
		Title:        firstNonEmpty(d.Title, UnknownTitle),
		Author:       d.Author.Nickname,
		Thumbnail:    firstNonEmpty(d.Cover, d.OriginCover),
		Duration:     d.Duration,
	}

	// Clean variant first so provider order favors it downstream.
	if clean := firstNonEmpty(d.HDPlay, d.Play); clean != "" {
		set.Items = append(set.Items, media.Item{
			SourceURL: clean,
			Kind:      media.KindVideo,
			HasVideo:  true,
			HasAudio:  true,
			Quality:   "hd",
			Extension: "mp4",
		})
	}
	if d.WMPlay != "" {
		set.Items = append(set.Items, media.Item{
			SourceURL:   d.WMPlay,
			Kind:        media.KindVideo,
			HasVideo:    true,
			HasAudio:    true,
			Watermarked: true,
			Quality:     "watermark",
			Extension:   "mp4",
		})
	}

	for i, img := range d.Images {
		set.Items = append(set.Items, media.Item{
			SourceURL: img,
			Kind:      media.KindImage,
			Quality:   media.ImageQuality(i + 1),
			Extension: "jpg",
		})
	}

	// No ordering guarantee from the backend; the first play URL is assumed
	// to be the primary one.
	if len(d.MusicInfo.Play) > 0 && d.MusicInfo.Play[0] != "" {
		set.Items = append(set.Items, media.Item{
			SourceURL: d.MusicInfo.Play[0],
			Kind:      media.KindAudio,
			HasAudio:  true,
			Quality:   firstNonEmpty(d.MusicInfo.Title, "music"),
			Extension: "mp3",
		})
	}

	if len(set.Items) == 0 {
		return nil, Failf(t.Name(), "no media in response")
	}
	return set, nil
}
