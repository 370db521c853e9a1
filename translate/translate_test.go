package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/karrtopelka/drill-bot/filesystem"
	"github.com/karrtopelka/drill-bot/llm"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, _ llm.Request) (*llm.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Result{Text: f.reply}, nil
}

func TestText(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Given a working completion backend", t, func() {
		completer := &fakeCompleter{reply: "  Привіт світ  "}

		Convey("The translation is trimmed", func() {
			out, err := Text(context.Background(), completer, "Hello world", "Ukrainian")

			So(err, ShouldBeNil)
			So(out, ShouldEqual, "Привіт світ")
			So(completer.calls, ShouldEqual, 1)
		})

		Convey("Empty input never reaches the backend", func() {
			out, err := Text(context.Background(), completer, "   ", "Ukrainian")

			So(err, ShouldBeNil)
			So(out, ShouldEqual, "")
			So(completer.calls, ShouldEqual, 0)
		})
	})

	Convey("Given a failing backend", t, func() {
		completer := &fakeCompleter{err: errors.New("backend down")}

		Convey("The error propagates", func() {
			_, err := Text(context.Background(), completer, "Hello", "Ukrainian")
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Cache keys separate languages and texts", t, func() {
		So(cacheKey("Hello", "uk"), ShouldNotEqual, cacheKey("Hello", "de"))
		So(cacheKey("Hello", "uk"), ShouldNotEqual, cacheKey("Hi", "uk"))
		So(cacheKey("Hello", "uk"), ShouldEqual, cacheKey("Hello", "uk"))
	})
}
