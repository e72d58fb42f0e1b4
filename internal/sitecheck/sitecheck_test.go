package sitecheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/nestudio/internal/adapters/http/api"
	"github.com/okian/nestudio/internal/adapters/http/site"
	"github.com/okian/nestudio/internal/adapters/repository"
	service "github.com/okian/nestudio/internal/app"
	"github.com/okian/nestudio/internal/domain/filter"
	"github.com/okian/nestudio/internal/domain/model"
	"github.com/okian/nestudio/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.New()
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	h, err := site.New(svc)
	if err != nil {
		t.Fatalf("site: %v", err)
	}
	h.Register(context.Background(), mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRun(t *testing.T) {
	Convey("Given a running site", t, func() {
		srv := newSite(t)

		Convey("When the check runs", func() {
			stats, err := Run(context.Background(), &Config{BaseURL: srv.URL, Workers: 3, Timeout: 5 * time.Second})

			Convey("Then every generated case passes", func() {
				So(err, ShouldBeNil)
				So(stats.RunID, ShouldNotBeEmpty)
				So(stats.Projects, ShouldEqual, 4)
				So(stats.CasesGenerated, ShouldBeGreaterThan, stats.Tags)
				So(stats.CasesPassed, ShouldEqual, stats.CasesGenerated)
				So(stats.CasesFailed, ShouldEqual, 0)
				So(stats.LabelsChecked, ShouldEqual, 8)
			})
		})
	})

	Convey("Given a server that is down", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		Convey("When the check runs", func() {
			_, err := Run(context.Background(), &Config{BaseURL: srv.URL, Timeout: time.Second})

			Convey("Then it reports the site unhealthy", func() {
				So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
			})
		})
	})
}

func TestVerifyCase(t *testing.T) {
	Convey("Given a site that ignores tags", t, func() {
		full := repository.DemoProjects()
		mux := http.NewServeMux()
		api.NewServer(lyingDeps{records: full}, nil).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()
		client := newHTTPClient(srv.URL, time.Second)

		Convey("When a tag case is verified", func() {
			err := verifyCase(context.Background(), client, full, Case{Tags: []string{"Web"}})

			Convey("Then the mismatch is reported", func() {
				So(errors.Is(err, ErrMismatch), ShouldBeTrue)
			})
		})
	})
}

func TestGenerateCases(t *testing.T) {
	Convey("Given the demo catalogue", t, func() {
		full := repository.DemoProjects()
		tags := filter.AllTags(full)

		Convey("When cases are generated", func() {
			cases := generateCases(full, tags, 2)

			Convey("Then they start with the empty state and never repeat", func() {
				So(cases[0].State().IsEmpty(), ShouldBeTrue)
				seen := map[string]bool{}
				for _, c := range cases {
					k := c.State().Values().Encode()
					So(seen[k], ShouldBeFalse)
					seen[k] = true
				}
				n := len(tags)
				So(len(cases), ShouldBeGreaterThanOrEqualTo, 1+n+n*(n-1)/2)
			})
		})
	})
}

func TestHelpers(t *testing.T) {
	Convey("Given ordered id lists", t, func() {
		seq := []string{"c01", "c02", "c03", "c04"}
		So(isSubsequence([]string{"c01", "c03"}, seq), ShouldBeTrue)
		So(isSubsequence(nil, seq), ShouldBeTrue)
		So(isSubsequence([]string{"c03", "c01"}, seq), ShouldBeFalse)
		So(combinations([]string{"a", "b", "c"}, 2), ShouldResemble, [][]string{
			{"a"}, {"a", "b"}, {"a", "c"}, {"b"}, {"b", "c"}, {"c"},
		})
	})
}

// lyingDeps answers every list with the whole catalogue.
type lyingDeps struct {
	records []model.ProjectRecord
}

func (l lyingDeps) Projects(context.Context, model.FilterState) ([]model.ProjectCard, error) {
	out := make([]model.ProjectCard, len(l.records))
	for i, r := range l.records {
		out[i] = model.ProjectCard{Project: r}
	}
	return out, nil
}

func (l lyingDeps) Project(context.Context, string) (model.ProjectCard, error) {
	return model.ProjectCard{}, repository.ErrNotFound
}

func (l lyingDeps) Tags(context.Context) ([]string, error) { return filter.AllTags(l.records), nil }

func (l lyingDeps) About(context.Context) (model.About, error) { return model.About{}, nil }
