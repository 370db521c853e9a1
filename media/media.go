// Package media defines the normalized domain model for resolved short-video links.
package media

import "fmt"

// Kind classifies a retrievable asset candidate.
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
	KindAudio Kind = "audio"
)

// Item represents one retrievable asset candidate produced during provider
// response normalization. Items are constructed once and never mutated.
type Item struct {
	// Opaque fetchable locator.
	SourceURL string `json:"url"`
	Kind      Kind   `json:"kind"`
	HasVideo  bool   `json:"has_video"`
	HasAudio  bool   `json:"has_audio"`
	// Watermarked is false when the provider does not tag the variant;
	// selection treats untagged items as clean and lets provider order decide.
	Watermarked bool `json:"watermarked"`
	// Free-form ranking hint (e.g. "hd", "watermark", "image-3").
	Quality string `json:"quality"`
	// Size in bytes, 0 when unreported (the common case).
	Size int64 `json:"size"`
	// Container hint (e.g. "mp4", "jpg", "mp3").
	Extension string `json:"extension"`
}

// String returns the quality label or URL for display.
func (i Item) String() string {
	if i.Quality != "" {
		return i.Quality
	}
	return i.SourceURL
}

// Set is the normalized bundle of extractable assets for one link.
// After orchestration exactly one of {non-empty Items, Err} holds:
// a "success" with zero items is itself an error condition.
type Set struct {
	OriginalLink string `json:"original_link"`
	Title        string `json:"title"`
	Author       string `json:"author,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	Duration     int    `json:"duration_seconds,omitempty"`
	Items        []Item `json:"items"`
	Err          string `json:"error,omitempty"`
}

// OK reports whether the set carries usable media.
func (s *Set) OK() bool {
	return s != nil && s.Err == "" && len(s.Items) > 0
}

// Failed constructs a terminal error set for a link.
func Failed(link, reason string) *Set {
	return &Set{OriginalLink: link, Err: reason}
}

// ImageQuality formats the ordering-preserving quality label for the n-th
// (1-based) slideshow image.
func ImageQuality(n int) string {
	return fmt.Sprintf("image-%d", n)
}
