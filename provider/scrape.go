package provider

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/karrtopelka/drill-bot/media"
	"github.com/karrtopelka/drill-bot/network"
	"github.com/karrtopelka/drill-bot/util"
)

// Scrape is the best-effort last resort: it fetches the link's rendered page
// with the browser-fingerprint client and scans the embedded JSON for a
// playable address. It participates in the cascade as the lowest-priority
// adapter, not as a separate mechanism.
type Scrape struct {
	get func(ctx context.Context, url string, headers map[string]string) ([]byte, int, error)
}

// NewScrape returns the page-scraping adapter.
func NewScrape() *Scrape {
	return &Scrape{get: network.BrowserGet}
}

func (s *Scrape) Name() string { return "scrape" }

// playAddrPatterns match the video address keys TikTok embeds in the
// hydration JSON, in decreasing order of usefulness.
var playAddrPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"downloadAddr"\s*:\s*"(?P<url>[^"]+)"`),
	regexp.MustCompile(`"playAddr"\s*:\s*"(?P<url>[^"]+)"`),
}

func (s *Scrape) Resolve(ctx context.Context, link string) (*media.Set, error) {
	body, status, err := s.get(ctx, link, nil)
	if err != nil {
		return nil, Failf(s.Name(), "page fetch failed: %v", err)
	}
	if status != 200 {
		return nil, Failf(s.Name(), "page fetch status %d", status)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, Failf(s.Name(), "parse page: %v", err)
	}

	title := firstNonEmpty(
		doc.Find(`meta[property="og:title"]`).AttrOr("content", ""),
		strings.TrimSpace(doc.Find("title").First().Text()),
		UnknownTitle,
	)
	thumbnail := doc.Find(`meta[property="og:image"]`).AttrOr("content", "")

	videoURL := doc.Find(`meta[property="og:video"]`).AttrOr("content", "")
	if videoURL == "" {
		page := string(body)
		for _, pattern := range playAddrPatterns {
			if raw, ok := util.ReGroups(pattern, page)["url"]; ok {
				videoURL = unescapeEmbedded(raw)
				break
			}
		}
	}

	if videoURL == "" {
		return nil, Failf(s.Name(), "no playable url found in page")
	}

	return &media.Set{
		OriginalLink: link,
		Title:        title,
		Thumbnail:    thumbnail,
		Items: []media.Item{{
			SourceURL: videoURL,
			Kind:      media.KindVideo,
			HasVideo:  true,
			HasAudio:  true,
			// Page-embedded addresses are always the watermarked rendition.
			Watermarked: true,
			Quality:     "watermark",
			Extension:   "mp4",
		}},
	}, nil
}

// unescapeEmbedded undoes the JSON string escaping TikTok applies to URLs in
// hydration scripts.
func unescapeEmbedded(s string) string {
	s = strings.ReplaceAll(s, `\u0026`, "&")
	s = strings.ReplaceAll(s, `\/`, "/")
	return s
}
