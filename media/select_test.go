package media

import (
	"fmt"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func video(url string, watermarked bool) Item {
	return Item{SourceURL: url, Kind: KindVideo, HasVideo: true, HasAudio: true, Watermarked: watermarked}
}

func image(n int) Item {
	return Item{SourceURL: fmt.Sprintf("https://cdn.example/%d.jpg", n), Kind: KindImage, Quality: ImageQuality(n)}
}

func audio(url string) Item {
	return Item{SourceURL: url, Kind: KindAudio, HasAudio: true, Quality: "music"}
}

func TestClassify(t *testing.T) {
	Convey("Classify", t, func() {
		c := Classify([]Item{
			video("https://v/1", false),
			image(1),
			audio("https://a/1"),
			// untagged item with no tracks falls back to image
			{SourceURL: "https://x/1", Kind: KindVideo},
		})

		So(c.Videos, ShouldHaveLength, 1)
		So(c.Audios, ShouldHaveLength, 1)
		So(c.Images, ShouldHaveLength, 2)
	})
}

func TestPickBest(t *testing.T) {
	Convey("PickBest", t, func() {
		Convey("Should prefer the unwatermarked item in either order", func() {
			clean := video("https://v/clean", false)
			marked := video("https://v/marked", true)

			So(PickBest([]Item{marked, clean}).MustGet().SourceURL, ShouldEqual, clean.SourceURL)
			So(PickBest([]Item{clean, marked}).MustGet().SourceURL, ShouldEqual, clean.SourceURL)
		})

		Convey("Should keep provider order among equally-preferred items", func() {
			first := video("https://v/first", false)
			second := video("https://v/second", false)
			So(PickBest([]Item{first, second}).MustGet().SourceURL, ShouldEqual, first.SourceURL)
		})

		Convey("Should fall back to a watermarked item when nothing else exists", func() {
			marked := video("https://v/marked", true)
			So(PickBest([]Item{marked}).MustGet().SourceURL, ShouldEqual, marked.SourceURL)
		})

		Convey("Should return none for an empty slice", func() {
			So(PickBest(nil).IsAbsent(), ShouldBeTrue)
		})
	})
}

func TestBuildPlan(t *testing.T) {
	Convey("BuildPlan", t, func() {
		Convey("Slideshow with 12 images and one audio", func() {
			var items []Item
			for i := 1; i <= 12; i++ {
				items = append(items, image(i))
			}
			items = append(items, audio("https://a/track"))

			plan, err := BuildPlan(&Set{OriginalLink: "x", Title: "t", Items: items}, 10)
			So(err, ShouldBeNil)

			Convey("Caps the album at 10", func() {
				So(plan.Album, ShouldHaveLength, 10)
			})

			Convey("Preserves original order", func() {
				for i, item := range plan.Album {
					So(item.Quality, ShouldEqual, ImageQuality(i+1))
				}
			})

			Convey("Still includes the audio as a separate send", func() {
				So(plan.Audio.IsPresent(), ShouldBeTrue)
				So(plan.Audio.MustGet().SourceURL, ShouldEqual, "https://a/track")
			})
		})

		Convey("Best video when no images exist", func() {
			plan, err := BuildPlan(&Set{Items: []Item{
				video("https://v/marked", true),
				video("https://v/clean", false),
			}}, 10)
			So(err, ShouldBeNil)
			So(plan.Album, ShouldBeEmpty)
			So(plan.Video.MustGet().SourceURL, ShouldEqual, "https://v/clean")
		})

		Convey("Lone audio as a last resort", func() {
			plan, err := BuildPlan(&Set{Items: []Item{audio("https://a/only")}}, 10)
			So(err, ShouldBeNil)
			So(plan.Audio.IsPresent(), ShouldBeTrue)
			So(plan.Video.IsAbsent(), ShouldBeTrue)
		})

		Convey("No suitable media", func() {
			_, err := BuildPlan(&Set{Items: nil}, 10)
			So(err, ShouldEqual, ErrNoSuitableMedia)
		})
	})
}

func TestCaption(t *testing.T) {
	Convey("Caption", t, func() {
		Convey("Includes title and author", func() {
			c := Caption(&Set{Title: "some clip", Author: "someone"})
			So(c, ShouldContainSubstring, "some clip")
			So(c, ShouldContainSubstring, "someone")
		})

		Convey("Truncates to the platform limit", func() {
			c := Caption(&Set{Title: strings.Repeat("a", 5000)})
			So(len([]rune(c)), ShouldBeLessThanOrEqualTo, CaptionLimit)
			So(c, ShouldEndWith, "…")
		})
	})
}
