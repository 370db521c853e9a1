package provider

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const scrapePage = `<!doctype html>
<html>
<head>
<title>fallback page</title>
<meta property="og:title" content="scraped clip"/>
<meta property="og:image" content="https://cdn.page/thumb.jpg"/>
</head>
<body>
<script id="state">{"video":{"playAddr":"https:\/\/cdn.page\/play.mp4?tk=1\u0026sig=2"}}</script>
</body>
</html>`

func scrapeWith(body string, status int, err error) *Scrape {
	return &Scrape{get: func(ctx context.Context, url string, headers map[string]string) ([]byte, int, error) {
		return []byte(body), status, err
	}}
}

func TestScrapeResolve(t *testing.T) {
	Convey("Scrape.Resolve", t, func() {
		Convey("Extracts the play address from the hydration JSON", func() {
			set, err := scrapeWith(scrapePage, 200, nil).Resolve(context.Background(), "https://vm.tiktok.com/s")
			So(err, ShouldBeNil)
			So(set.Title, ShouldEqual, "scraped clip")
			So(set.Thumbnail, ShouldEqual, "https://cdn.page/thumb.jpg")
			So(set.Items, ShouldHaveLength, 1)
			So(set.Items[0].SourceURL, ShouldEqual, "https://cdn.page/play.mp4?tk=1&sig=2")
			So(set.Items[0].Watermarked, ShouldBeTrue)
		})

		Convey("Unescapes every embedded ampersand in multi-parameter addresses", func() {
			page := `<html><body><script>{"playAddr":"https:\/\/cdn.page\/v\/play.mp4?tk=1\u0026expire=2\u0026sig=3"}</script></body></html>`
			set, err := scrapeWith(page, 200, nil).Resolve(context.Background(), "https://vm.tiktok.com/s")
			So(err, ShouldBeNil)
			So(set.Items[0].SourceURL, ShouldEqual, "https://cdn.page/v/play.mp4?tk=1&expire=2&sig=3")
			So(set.Items[0].SourceURL, ShouldNotContainSubstring, `\u0026`)
		})

		Convey("Prefers downloadAddr over playAddr", func() {
			page := `<html><body><script>{"downloadAddr":"https:\/\/cdn.page\/dl.mp4","playAddr":"https:\/\/cdn.page\/play.mp4"}</script></body></html>`
			set, err := scrapeWith(page, 200, nil).Resolve(context.Background(), "https://vm.tiktok.com/s")
			So(err, ShouldBeNil)
			So(set.Items[0].SourceURL, ShouldEqual, "https://cdn.page/dl.mp4")
		})

		Convey("Page without a playable URL is a Failure", func() {
			_, err := scrapeWith("<html><body>nothing here</body></html>", 200, nil).Resolve(context.Background(), "https://vm.tiktok.com/s")
			So(err, ShouldHaveSameTypeAs, &Failure{})
			So(err.Error(), ShouldContainSubstring, "no playable url")
		})

		Convey("Blocked page fetch is a Failure", func() {
			_, err := scrapeWith("", 403, nil).Resolve(context.Background(), "https://vm.tiktok.com/s")
			So(err, ShouldHaveSameTypeAs, &Failure{})
			So(err.Error(), ShouldContainSubstring, "403")
		})

		Convey("Transport error is a Failure", func() {
			_, err := scrapeWith("", 0, errors.New("connection reset")).Resolve(context.Background(), "https://vm.tiktok.com/s")
			So(err, ShouldHaveSameTypeAs, &Failure{})
			So(err.Error(), ShouldContainSubstring, "connection reset")
		})
	})
}
