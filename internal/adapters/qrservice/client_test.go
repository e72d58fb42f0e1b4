package qrservice_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/nestudio/internal/adapters/qrservice"
)

func TestClientFetch(t *testing.T) {
	Convey("Given a QR endpoint", t, func() {
		var gotQuery, mode atomic.Value
		mode.Store("ok")
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery.Store(r.URL.RawQuery)
			switch mode.Load().(string) {
			case "ok":
				w.Header().Set("Content-Type", "image/png")
				_, _ = w.Write([]byte("\x89PNG"))
			case "html":
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				_, _ = w.Write([]byte("<html>rate limited</html>"))
			case "5xx":
				w.WriteHeader(http.StatusServiceUnavailable)
			case "slow":
				time.Sleep(200 * time.Millisecond)
				w.Header().Set("Content-Type", "image/png")
				_, _ = w.Write([]byte("late"))
			case "big":
				w.Header().Set("Content-Type", "image/png")
				_, _ = w.Write(make([]byte, 64))
			}
		}))
		Reset(srv.Close)

		client := qrservice.New(srv.URL+"/v1/create-qr-code/",
			qrservice.WithTimeout(50*time.Millisecond),
			qrservice.WithMaxBytes(32),
		)
		ctx := context.Background()

		Convey("When the endpoint returns an image", func() {
			img, err := client.Fetch(ctx, "mailto:a@b.c", 108)

			Convey("Then the body and content type come back", func() {
				So(err, ShouldBeNil)
				So(img.ContentType, ShouldEqual, "image/png")
				So(string(img.Body), ShouldEqual, "\x89PNG")
				So(gotQuery.Load(), ShouldEqual, "data=mailto%3Aa%40b.c&size=108x108")
			})
		})

		Convey("When the data is empty", func() {
			_, err := client.Fetch(ctx, "", 96)
			So(errors.Is(err, qrservice.ErrEmptyData), ShouldBeTrue)
		})

		Convey("When the endpoint answers with HTML", func() {
			mode.Store("html")
			_, err := client.Fetch(ctx, "x", 96)
			So(errors.Is(err, qrservice.ErrNotImage), ShouldBeTrue)
		})

		Convey("When the endpoint fails", func() {
			mode.Store("5xx")
			_, err := client.Fetch(ctx, "x", 96)
			So(errors.Is(err, qrservice.ErrUnavailable), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "503")
		})

		Convey("When the endpoint is too slow", func() {
			mode.Store("slow")
			_, err := client.Fetch(ctx, "x", 96)
			So(errors.Is(err, qrservice.ErrUnavailable), ShouldBeTrue)
		})

		Convey("When the body is larger than allowed", func() {
			mode.Store("big")
			_, err := client.Fetch(ctx, "x", 96)
			So(errors.Is(err, qrservice.ErrTooLarge), ShouldBeTrue)
		})
	})

	Convey("Given an unreachable endpoint", t, func() {
		client := qrservice.New("http://127.0.0.1:1/qr", qrservice.WithTimeout(100*time.Millisecond))
		_, err := client.Fetch(context.Background(), "x", 96)
		So(errors.Is(err, qrservice.ErrUnavailable), ShouldBeTrue)
	})
}

func TestClientURL(t *testing.T) {
	Convey("Given endpoints with and without a query", t, func() {
		So(qrservice.New("https://q.example/").URL("/cases/case-1.pdf", 96), ShouldEqual,
			"https://q.example/?data=%2Fcases%2Fcase-1.pdf&size=96x96")
		So(qrservice.New("https://q.example/?ecc=L").URL("a b", 80), ShouldEqual,
			"https://q.example/?ecc=L&data=a+b&size=80x80")
	})
}
