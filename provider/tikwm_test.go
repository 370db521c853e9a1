package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/karrtopelka/drill-bot/media"
	. "github.com/smartystreets/goconvey/convey"
)

const tikwmSample = `{
	"code": 0,
	"msg": "success",
	"data": {
		"title": "dance clip",
		"cover": "https://cdn.tikwm/cover.jpg",
		"origin_cover": "https://cdn.tikwm/origin.jpg",
		"duration": 14,
		"hdplay": "https://cdn.tikwm/hd.mp4",
		"play": "https://cdn.tikwm/play.mp4",
		"wmplay": "https://cdn.tikwm/wm.mp4",
		"images": ["https://cdn.tikwm/1.jpg", "https://cdn.tikwm/2.jpg", "https://cdn.tikwm/3.jpg"],
		"music_info": {"title": "original sound", "play": ["https://cdn.tikwm/a.mp3", "https://cdn.tikwm/b.mp3"]},
		"author": {"nickname": "someone"}
	}
}`

func tikwmServer(payload string) (*httptest.Server, *Tikwm) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	return srv, &Tikwm{base: srv.URL, client: srv.Client()}
}

func TestTikwmResolve(t *testing.T) {
	Convey("Tikwm.Resolve", t, func() {
		Convey("Normalizes a full response", func() {
			srv, adapter := tikwmServer(tikwmSample)
			defer srv.Close()

			set, err := adapter.Resolve(context.Background(), "https://vm.tiktok.com/x")
			So(err, ShouldBeNil)
			So(set.Title, ShouldEqual, "dance clip")
			So(set.Author, ShouldEqual, "someone")
			So(set.Thumbnail, ShouldEqual, "https://cdn.tikwm/cover.jpg")
			So(set.Duration, ShouldEqual, 14)

			c := media.Classify(set.Items)

			Convey("Emits the HD address first and the watermarked variant after it", func() {
				So(c.Videos, ShouldHaveLength, 2)
				So(c.Videos[0].SourceURL, ShouldEqual, "https://cdn.tikwm/hd.mp4")
				So(c.Videos[0].Watermarked, ShouldBeFalse)
				So(c.Videos[1].SourceURL, ShouldEqual, "https://cdn.tikwm/wm.mp4")
				So(c.Videos[1].Watermarked, ShouldBeTrue)
			})

			Convey("Preserves image order with 1-based labels", func() {
				So(c.Images, ShouldHaveLength, 3)
				for i, img := range c.Images {
					So(img.Quality, ShouldEqual, media.ImageQuality(i+1))
				}
				So(c.Images[2].SourceURL, ShouldEqual, "https://cdn.tikwm/3.jpg")
			})

			Convey("Takes the first play-URL array entry for audio", func() {
				So(c.Audios, ShouldHaveLength, 1)
				So(c.Audios[0].SourceURL, ShouldEqual, "https://cdn.tikwm/a.mp3")
			})
		})

		Convey("Falls back to the placeholder title", func() {
			srv, adapter := tikwmServer(`{"code":0,"data":{"play":"https://cdn.tikwm/p.mp4"}}`)
			defer srv.Close()

			set, err := adapter.Resolve(context.Background(), "https://vm.tiktok.com/x")
			So(err, ShouldBeNil)
			So(set.Title, ShouldEqual, UnknownTitle)
		})

		Convey("Treats a success envelope with zero media as a Failure", func() {
			srv, adapter := tikwmServer(`{"code":0,"msg":"success","data":{"title":"empty"}}`)
			defer srv.Close()

			_, err := adapter.Resolve(context.Background(), "https://vm.tiktok.com/x")
			So(err, ShouldHaveSameTypeAs, &Failure{})
			So(err.Error(), ShouldContainSubstring, "no media")
		})

		Convey("Reports a backend error code as a Failure", func() {
			srv, adapter := tikwmServer(`{"code":-1,"msg":"url invalid"}`)
			defer srv.Close()

			_, err := adapter.Resolve(context.Background(), "https://vm.tiktok.com/x")
			So(err, ShouldHaveSameTypeAs, &Failure{})
			So(err.Error(), ShouldContainSubstring, "url invalid")
		})

		Convey("Reports malformed payloads as a Failure, not a panic", func() {
			srv, adapter := tikwmServer(`<html>not json</html>`)
			defer srv.Close()

			_, err := adapter.Resolve(context.Background(), "https://vm.tiktok.com/x")
			So(err, ShouldHaveSameTypeAs, &Failure{})
		})
	})
}
