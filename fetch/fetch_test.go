package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const cdnURL = "https://v16m.tiktokcdn.com/video/123.mp4"

// brokenBrowser simulates an origin that rejects direct fetches.
func brokenBrowser(ctx context.Context, url string, headers map[string]string) ([]byte, int, error) {
	return nil, 403, nil
}

func TestFetchEscalation(t *testing.T) {
	Convey("Fetcher.Fetch", t, func() {
		Convey("Falls through to the specialized proxy on attempt 2", func(c C) {
			generic := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer generic.Close()

			special := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				c.So(r.URL.Query().Get("u"), ShouldEqual, cdnURL)
				_, _ = w.Write([]byte("video-bytes"))
			}))
			defer special.Close()

			f := New(3, 0, generic.URL+"/raw?url={URL}", []string{special.URL + "/p?u={URL}"}, []string{"tiktokcdn.com"})
			f.client = http.DefaultClient
			f.browser = brokenBrowser

			res, err := f.Fetch(context.Background(), cdnURL)
			So(err, ShouldBeNil)
			So(string(res.Data), ShouldEqual, "video-bytes")
			So(res.Strategy, ShouldEqual, StrategySpecialProxy)
		})

		Convey("Direct success never touches the proxies", func() {
			var proxyCalls int32
			generic := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&proxyCalls, 1)
			}))
			defer generic.Close()

			f := New(3, 0, generic.URL+"?url={URL}", nil, nil)
			f.client = http.DefaultClient
			f.browser = func(ctx context.Context, url string, headers map[string]string) ([]byte, int, error) {
				So(headers["Referer"], ShouldContainSubstring, "tiktok.com")
				return []byte("direct-bytes"), 200, nil
			}

			res, err := f.Fetch(context.Background(), cdnURL)
			So(err, ShouldBeNil)
			So(res.Strategy, ShouldEqual, StrategyDirect)
			So(atomic.LoadInt32(&proxyCalls), ShouldEqual, 0)
		})

		Convey("Exhaustion raises Failed carrying the last underlying error", func() {
			generic := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer generic.Close()

			special := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer special.Close()

			f := New(3, 0, generic.URL+"?url={URL}", []string{special.URL + "?u={URL}"}, []string{"tiktokcdn.com"})
			f.client = http.DefaultClient
			f.browser = brokenBrowser

			_, err := f.Fetch(context.Background(), cdnURL)
			So(err, ShouldNotBeNil)

			var failed *Failed
			So(errors.As(err, &failed), ShouldBeTrue)
			So(failed.Attempts, ShouldEqual, 3)
			// The message must reference the LAST error (503 from the
			// specialized proxy), not a stale earlier one.
			So(failed.Error(), ShouldContainSubstring, "503")
			So(failed.Error(), ShouldNotContainSubstring, "502")
		})

		Convey("Cancellation aborts the backoff instead of sleeping it out", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			f := New(3, 10*time.Second, "https://proxy.example/raw?url={URL}", nil, nil)
			f.client = http.DefaultClient
			f.browser = brokenBrowser

			start := time.Now()
			_, err := f.Fetch(ctx, cdnURL)
			So(time.Since(start), ShouldBeLessThan, time.Second)

			var failed *Failed
			So(errors.As(err, &failed), ShouldBeTrue)
			So(failed.Attempts, ShouldEqual, 1)
		})

		Convey("Non-CDN hosts stop escalating after the generic proxy", func() {
			generic := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer generic.Close()

			f := New(5, 0, generic.URL+"?url={URL}", []string{"https://unused/{URL}"}, []string{"tiktokcdn.com"})
			f.client = http.DefaultClient
			f.browser = brokenBrowser

			_, err := f.Fetch(context.Background(), "https://other.example.com/clip.mp4")
			var failed *Failed
			So(errors.As(err, &failed), ShouldBeTrue)
			So(failed.Attempts, ShouldEqual, 2)
		})
	})
}

func TestExpand(t *testing.T) {
	Convey("expand percent-encodes the target into the template", t, func() {
		got := expand("https://proxy.example/raw?url={URL}", "https://a.b/c?d=e&f=g")
		So(got, ShouldEqual, "https://proxy.example/raw?url=https%3A%2F%2Fa.b%2Fc%3Fd%3De%26f%3Dg")
	})
}
