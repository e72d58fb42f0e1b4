package repository_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/nestudio/internal/adapters/repository"
	"github.com/okian/nestudio/internal/domain/filter"
	"github.com/okian/nestudio/internal/domain/model"
)

func TestStaticStore(t *testing.T) {
	Convey("Given the demo catalogue", t, func() {
		ctx := context.Background()
		store, err := repository.NewStaticStore()
		So(err, ShouldBeNil)

		Convey("When listing projects", func() {
			list, err := store.List(ctx)

			Convey("Then the four case studies come back in order", func() {
				So(err, ShouldBeNil)
				So(store.Count(ctx), ShouldEqual, 4)
				var ids []string
				for _, p := range list {
					ids = append(ids, p.ID)
				}
				So(ids, ShouldResemble, []string{"c01", "c02", "c03", "c04"})
			})

			Convey("Then mutating the copy leaves the store untouched", func() {
				list[0].Tags[0] = "Changed"
				*list[0].Client = "Changed"
				again, _ := store.List(ctx)
				So(again[0].Tags[0], ShouldEqual, "Design System")
				So(again[0].DisplayClient(), ShouldEqual, "UxUnite")
			})
		})

		Convey("When getting by id", func() {
			p, err := store.Get(ctx, "c03")
			So(err, ShouldBeNil)
			So(p.Title, ShouldEqual, "Firefly — Ecommerce Website")
			So(p.DisplayYear(), ShouldEqual, "2024")

			_, err = store.Get(ctx, "nope")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When filtering the design query", func() {
			list, _ := store.List(ctx)
			got := filter.Apply(list, "design", nil)

			Convey("Then UxUnite is included case-insensitively", func() {
				So(len(got), ShouldBeGreaterThan, 0)
				So(got[0].ID, ShouldEqual, "c01")
			})
		})

		Convey("When reading the profile", func() {
			p, err := store.Profile(ctx)
			So(err, ShouldBeNil)
			So(p.Mailto(), ShouldEqual, "mailto:nestor.kulik@gmail.com")
		})
	})

	Convey("Given custom records", t, func() {
		Convey("When two records share an id", func() {
			_, err := repository.NewStaticStore(repository.WithRecords([]model.ProjectRecord{
				{ID: "a", Title: "A", Link: "/a"},
				{ID: "a", Title: "B", Link: "/b"},
			}))
			So(errors.Is(err, repository.ErrDuplicateID), ShouldBeTrue)
		})

		Convey("When a record misses a required field", func() {
			_, err := repository.NewStaticStore(repository.WithRecords([]model.ProjectRecord{{ID: "a", Title: "A"}}))
			So(errors.Is(err, repository.ErrInvalid), ShouldBeTrue)
		})

		Convey("When the dataset is empty", func() {
			store, err := repository.NewStaticStore(
				repository.WithRecords(nil),
				repository.WithProfile(model.Profile{Name: "x"}),
			)
			So(err, ShouldBeNil)
			So(store.Count(context.Background()), ShouldEqual, 0)
			p, _ := store.Profile(context.Background())
			So(p.Name, ShouldEqual, "x")
		})
	})
}
