package enhance_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/nestudio/internal/adapters/enhance"
	"github.com/okian/nestudio/pkg/logger"
)

func TestLoader(t *testing.T) {
	_ = logger.Init()

	Convey("Given embedded assets and a CDN", t, func() {
		fsys := fstest.MapFS{
			"static/gsap.min.js":           {Data: []byte("/* gsap */")},
			"static/ScrollSmoother.min.js": {Data: []byte("/* smoother */")},
		}
		cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodHead || r.URL.Path != "/gsap.min.js" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		Reset(cdn.Close)
		ctx := context.Background()

		Convey("When every script is embedded", func() {
			l := enhance.NewLoader(fsys, []string{"/static/gsap.min.js", "/static/ScrollSmoother.min.js"})
			So(l.Capability().State(), ShouldEqual, enhance.Unloaded)
			So(l.Capability().Scripts(), ShouldBeNil)

			state := l.Load(ctx)

			Convey("Then the capability is loaded with local URLs", func() {
				So(state, ShouldEqual, enhance.Loaded)
				So(l.Capability().Scripts(), ShouldResemble, []string{"/static/gsap.min.js", "/static/ScrollSmoother.min.js"})
				So(l.Capability().Err(), ShouldBeNil)
			})
		})

		Convey("When a script is only available remotely", func() {
			l := enhance.NewLoader(fstest.MapFS{}, []string{"/static/gsap.min.js"},
				enhance.WithFallbacks(map[string]string{"/static/gsap.min.js": cdn.URL + "/gsap.min.js"}))

			Convey("Then the fallback URL is used", func() {
				So(l.Load(ctx), ShouldEqual, enhance.Loaded)
				So(l.Capability().Scripts(), ShouldResemble, []string{cdn.URL + "/gsap.min.js"})
			})
		})

		Convey("When the plugin is missing everywhere", func() {
			l := enhance.NewLoader(fstest.MapFS{}, []string{"/static/gsap.min.js", "/static/ScrollSmoother.min.js"},
				enhance.WithFallbacks(map[string]string{"/static/gsap.min.js": cdn.URL + "/gsap.min.js"}))
			state := l.Load(ctx)

			Convey("Then the capability fails and exposes no scripts", func() {
				So(state, ShouldEqual, enhance.Failed)
				So(l.Capability().Scripts(), ShouldBeNil)
				So(errors.Is(l.Capability().Err(), enhance.ErrMissing), ShouldBeTrue)
			})

			Convey("Then loading again keeps the first result", func() {
				So(l.Load(ctx), ShouldEqual, enhance.Failed)
			})
		})

		Convey("When the fallback answers with an error status", func() {
			l := enhance.NewLoader(nil, []string{"/static/x.js"},
				enhance.WithFallbacks(map[string]string{"/static/x.js": cdn.URL + "/x.js"}))
			So(l.Load(ctx), ShouldEqual, enhance.Failed)
		})

		Convey("When nothing is configured", func() {
			l := enhance.NewLoader(fsys, nil)
			So(l.Load(ctx), ShouldEqual, enhance.Failed)
		})
	})
}
