package media

import (
	"errors"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ErrNoSuitableMedia indicates that resolution succeeded but no item
// satisfies the presentation policy.
var ErrNoSuitableMedia = errors.New("no suitable media")

// CaptionLimit is the chat platform's maximum caption length.
const CaptionLimit = 1024

// Classified buckets a set's items by how they can be presented.
type Classified struct {
	Videos []Item
	Images []Item
	Audios []Item
}

// Classify splits items into videos (both tracks), audios (audio-only) and
// images. Items with neither track are treated as images regardless of kind,
// covering schemas that don't tag kinds explicitly.
func Classify(items []Item) Classified {
	var c Classified
	for _, item := range items {
		switch {
		case item.HasVideo && item.HasAudio:
			c.Videos = append(c.Videos, item)
		case item.HasAudio:
			c.Audios = append(c.Audios, item)
		default:
			c.Images = append(c.Images, item)
		}
	}
	return c
}

// PickBest selects the preferred video candidate: any unwatermarked item
// beats every watermarked one, and among equally-preferred items provider
// order wins. Reported sizes are usually 0, so no bitrate comparison is
// attempted.
func PickBest(videos []Item) mo.Option[Item] {
	if len(videos) == 0 {
		return mo.None[Item]()
	}

	if clean, ok := lo.Find(videos, func(i Item) bool { return !i.Watermarked }); ok {
		return mo.Some(clean)
	}
	return mo.Some(videos[0])
}

// Plan describes what the transport is asked to send for one resolved link.
// When Album is non-empty the audio (if any) accompanies it as a separate
// send; otherwise exactly one of Video/Audio is set.
type Plan struct {
	Album []Item
	Video mo.Option[Item]
	Audio mo.Option[Item]
}

// BuildPlan applies the presentation policy to a resolved set: a slideshow
// (capped album plus its soundtrack) when images exist, else the best video,
// else a lone audio track. Returns ErrNoSuitableMedia when nothing fits.
func BuildPlan(set *Set, albumCap int) (*Plan, error) {
	c := Classify(set.Items)

	if len(c.Images) > 0 {
		album := c.Images
		if len(album) > albumCap {
			album = album[:albumCap]
		}
		plan := &Plan{Album: album}
		if len(c.Audios) > 0 {
			plan.Audio = mo.Some(c.Audios[0])
		}
		return plan, nil
	}

	if best := PickBest(c.Videos); best.IsPresent() {
		return &Plan{Video: best}, nil
	}

	if len(c.Audios) > 0 {
		return &Plan{Audio: mo.Some(c.Audios[0])}, nil
	}

	return nil, ErrNoSuitableMedia
}

// Caption builds the outgoing caption for a set, truncated to the platform
// limit with an ellipsis.
func Caption(set *Set) string {
	parts := []string{set.Title}
	if set.Author != "" {
		parts = append(parts, "— "+set.Author)
	}
	return truncate.StringWithTail(strings.Join(parts, "\n"), CaptionLimit, "…")
}
