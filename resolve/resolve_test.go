package resolve

import (
	"context"
	"testing"
	"time"

	"github.com/karrtopelka/drill-bot/media"
	"github.com/karrtopelka/drill-bot/provider"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeAdapter scripts one cascade participant.
type fakeAdapter struct {
	name  string
	set   *media.Set
	err   error
	panic bool
	calls int
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Resolve(ctx context.Context, link string) (*media.Set, error) {
	f.calls++
	if f.panic {
		panic("nil dereference in adapter")
	}
	return f.set, f.err
}

func success(name, videoURL string) *fakeAdapter {
	return &fakeAdapter{name: name, set: &media.Set{
		OriginalLink: "link",
		Title:        "t",
		Items: []media.Item{{
			SourceURL: videoURL,
			Kind:      media.KindVideo,
			HasVideo:  true,
			HasAudio:  true,
		}},
	}}
}

func failing(name, reason string) *fakeAdapter {
	return &fakeAdapter{name: name, err: provider.Failf(name, "%s", reason)}
}

func TestResolve(t *testing.T) {
	Convey("Resolver.Resolve", t, func() {
		ctx := context.Background()

		Convey("First success wins and later adapters are not invoked", func() {
			first := success("one", "https://v/1")
			second := success("two", "https://v/2")

			set := New([]provider.Adapter{first, second}, time.Second).Resolve(ctx, "link")
			So(set.OK(), ShouldBeTrue)
			So(set.Items[0].SourceURL, ShouldEqual, "https://v/1")
			So(second.calls, ShouldEqual, 0)
		})

		Convey("A success envelope with empty items does not win", func() {
			empty := &fakeAdapter{name: "empty", set: &media.Set{OriginalLink: "link", Title: "t"}}
			next := success("next", "https://v/next")

			set := New([]provider.Adapter{empty, next}, time.Second).Resolve(ctx, "link")
			So(set.OK(), ShouldBeTrue)
			So(set.Items[0].SourceURL, ShouldEqual, "https://v/next")
			So(next.calls, ShouldEqual, 1)
		})

		Convey("A panicking adapter never aborts the cascade", func() {
			crasher := &fakeAdapter{name: "crash", panic: true}
			next := success("next", "https://v/next")

			set := New([]provider.Adapter{crasher, next}, time.Second).Resolve(ctx, "link")
			So(set.OK(), ShouldBeTrue)
		})

		Convey("Exhaustion reports every provider's reason", func() {
			set := New([]provider.Adapter{
				failing("one", "unexpected status 502"),
				failing("two", "no media in response"),
				&fakeAdapter{name: "three", panic: true},
			}, time.Second).Resolve(ctx, "link")

			So(set.OK(), ShouldBeFalse)
			So(set.Err, ShouldNotBeEmpty)
			So(set.Err, ShouldContainSubstring, "one: unexpected status 502")
			So(set.Err, ShouldContainSubstring, "two: no media in response")
			So(set.Err, ShouldContainSubstring, "three: panic")
		})

		Convey("Resolving the same link twice yields semantically equal sets", func() {
			r := New([]provider.Adapter{
				failing("one", "down"),
				success("two", "https://v/stable"),
			}, time.Second)

			a := r.Resolve(ctx, "link")
			b := r.Resolve(ctx, "link")
			So(a.Title, ShouldEqual, b.Title)
			So(a.Items, ShouldResemble, b.Items)
		})
	})
}
