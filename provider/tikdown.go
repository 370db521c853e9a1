package provider

import (
	"context"
	"net/http"
	"net/url"

	"github.com/karrtopelka/drill-bot/media"
	"github.com/karrtopelka/drill-bot/network"
)

// Tikdown adapts the tikdown extraction backend. Its schema names the HD and
// watermarked renditions distinctly (videoHd / videoWatermark), ships covers
// as an array, describes the post in a caption field, and carries a flat
// music URL string.
type Tikdown struct {
	base   string
	client *http.Client
}

// NewTikdown returns the tikdown adapter bound to the production endpoint.
func NewTikdown() *Tikdown {
	return &Tikdown{base: "https://tikdown.org", client: network.Client}
}

func (t *Tikdown) Name() string { return "tikdown" }

// tikdownResponse mirrors the backend's JSON envelope.
type tikdownResponse struct {
	Status string `json:"status"`
	Data   struct {
		Caption        string   `json:"caption"`
		Covers         []string `json:"covers"`
		Duration       int      `json:"duration"`
		VideoHd        string   `json:"videoHd"`
		VideoWatermark string   `json:"videoWatermark"`
		Images         []string `json:"images"`
		Music          string   `json:"music"`
		Author         string   `json:"author"`
	} `json:"data"`
}

func (t *Tikdown) Resolve(ctx context.Context, link string) (*media.Set, error) {
	endpoint := t.base + "/api/v1/download?url=" + url.QueryEscape(link)

	var resp tikdownResponse
	if err := fetchJSON(ctx, t.client, t.Name(), endpoint, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "ok" {
		return nil, Failf(t.Name(), "backend status %q", resp.Status)
	}

	d := resp.Data

	var thumbnail string
	if len(d.Covers) > 0 {
		thumbnail = d.Covers[0]
	}

	set := &media.Set{
		OriginalLink: link,
		// This backend has no title field; the caption doubles as one.
		Title:     firstNonEmpty(d.Caption, UnknownTitle),
		Author:    d.Author,
		Thumbnail: thumbnail,
		Duration:  d.Duration,
	}

	if d.VideoHd != "" {
		set.Items = append(set.Items, media.Item{
			SourceURL: d.VideoHd,
			Kind:      media.KindVideo,
			HasVideo:  true,
			HasAudio:  true,
			Quality:   "hd",
			Extension: "mp4",
		})
	}
	if d.VideoWatermark != "" {
		set.Items = append(set.Items, media.Item{
			SourceURL:   d.VideoWatermark,
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

	if d.Music != "" {
		set.Items = append(set.Items, media.Item{
			SourceURL: d.Music,
			Kind:      media.KindAudio,
			HasAudio:  true,
			Quality:   "music",
			Extension: "mp3",
		})
	}

	if len(set.Items) == 0 {
		return nil, Failf(t.Name(), "no media in response")
	}
	return set, nil
}
