package provider

import (
	"context"
	"net/http"
	"net/url"

	"github.com/karrtopelka/drill-bot/media"
	"github.com/karrtopelka/drill-bot/network"
)

// Tiklydown adapts the tiklydown extraction backend. Its schema carries a
// single "direct" (preferred, unwatermarked) address next to a possibly
// watermarked "video" address, an image array, and a flat music URL string.
type Tiklydown struct {
	base   string
	client *http.Client
}

// NewTiklydown returns the tiklydown adapter bound to the production endpoint.
func NewTiklydown() *Tiklydown {
	return &Tiklydown{base: "https://api.tiklydown.eu.org", client: network.Client}
}

func (t *Tiklydown) Name() string { return "tiklydown" }

// tiklydownResponse mirrors the backend's JSON payload.
type tiklydownResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Duration    int    `json:"duration"`
	Direct      string `json:"direct"`
	Video       string `json:"video"`
	Images      []struct {
		URL string `json:"url"`
	} `json:"images"`
	Music  string `json:"music"`
	Author struct {
		Name string `json:"name"`
	} `json:"author"`
}

func (t *Tiklydown) Resolve(ctx context.Context, link string) (*media.Set, error) {
	endpoint := t.base + "/api/download?url=" + url.QueryEscape(link)

	var resp tiklydownResponse
	if err := fetchJSON(ctx, t.client, t.Name(), endpoint, &resp); err != nil {
		return nil, err
	}

	set := &media.Set{
		OriginalLink: link,
		Title:        firstNonEmpty(resp.Title, resp.Description, UnknownTitle),
		Author:       resp.Author.Name,
		Thumbnail:    resp.Thumbnail,
		Duration:     resp.Duration,
	}

	if resp.Direct != "" {
		set.Items = append(set.Items, media.Item{
			SourceURL: resp.Direct,
			Kind:      media.KindVideo,
			HasVideo:  true,
			HasAudio:  true,
			Quality:   "direct",
			Extension: "mp4",
		})
	}
	// The "video" address may carry a watermark; emit it as a fallback
	// candidate so selection can still deliver something.
	if resp.Video != "" && resp.Video != resp.Direct {
		set.Items = append(set.Items, media.Item{
			SourceURL:   resp.Video,
			Kind:        media.KindVideo,
			HasVideo:    true,
			HasAudio:    true,
			Watermarked: true,
			Quality:     "watermark",
			Extension:   "mp4",
		})
	}

	for i, img := range resp.Images {
		if img.URL == "" {
			continue
		}
		set.Items = append(set.Items, media.Item{
			SourceURL: img.URL,
			Kind:      media.KindImage,
			Quality:   media.ImageQuality(i + 1),
			Extension: "jpg",
		})
	}

	if resp.Music != "" {
		set.Items = append(set.Items, media.Item{
			SourceURL: resp.Music,
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
