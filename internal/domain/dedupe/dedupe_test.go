package dedupe_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/nestudio/internal/domain/dedupe"
	"github.com/okian/nestudio/internal/domain/model"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()

		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording QR job keys", func() {
			d := dedupe.NewInMemoryDeduper()
			key := model.QRJob{Data: "/cases/case-1.pdf", Size: 96}.Key()

			Convey("And the key is new", func() {
				seen := d.SeenAndRecord(ctx, key)

				Convey("Then it should return false and record it", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the key was already seen", func() {
				d.SeenAndRecord(ctx, key)
				seen := d.SeenAndRecord(ctx, key)

				Convey("Then it should return true without growing", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the same data is requested at another size", func() {
				d.SeenAndRecord(ctx, key)
				seen := d.SeenAndRecord(ctx, model.QRJob{Data: "/cases/case-1.pdf", Size: 80}.Key())

				Convey("Then it counts as a different job", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 2)
				})
			})
		})

		Convey("When unrecording keys", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "a")
			d.SeenAndRecord(ctx, "b")

			Convey("And the key exists", func() {
				d.Unrecord(ctx, "a")

				Convey("Then it can be recorded again", func() {
					So(d.Size(), ShouldEqual, 1)
					So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
				})
			})

			Convey("And the key does not exist", func() {
				d.Unrecord(ctx, "zzz")

				Convey("Then the size is unchanged", func() {
					So(d.Size(), ShouldEqual, 2)
				})
			})
		})

		Convey("When using bounded mode at capacity", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
			for _, k := range []string{"k1", "k2", "k3", "k4"} {
				d.SeenAndRecord(ctx, k)
			}

			Convey("Then the oldest key is forgotten first", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "k4"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "k3"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "k1"), ShouldBeFalse)
			})
		})

		Convey("When eviction follows an unrecord", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(2))
			d.SeenAndRecord(ctx, "k1")
			d.SeenAndRecord(ctx, "k2")
			d.Unrecord(ctx, "k1")
			d.SeenAndRecord(ctx, "k3")
			d.SeenAndRecord(ctx, "k4")

			Convey("Then the list and the map stay in step", func() {
				So(d.Size(), ShouldEqual, 2)
				So(d.SeenAndRecord(ctx, "k4"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "k3"), ShouldBeTrue)
			})
		})

		Convey("When using unbounded mode", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
			for i := 0; i < 5000; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("job-%d", i))
			}

			Convey("Then nothing is evicted", func() {
				So(d.Size(), ShouldEqual, 5000)
				So(d.SeenAndRecord(ctx, "job-0"), ShouldBeTrue)
			})
		})
	})
}

func TestInMemoryDeduperConcurrency(t *testing.T) {
	Convey("Given a deduper with concurrent access", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

		Convey("When many goroutines race on the same keys", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			fresh := 0
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						if !d.SeenAndRecord(ctx, fmt.Sprintf("k-%d", i)) {
							mu.Lock()
							fresh++
							mu.Unlock()
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each key is new exactly once", func() {
				So(fresh, ShouldEqual, 100)
				So(d.Size(), ShouldEqual, 100)
			})
		})
	})
}

func TestInMemoryDeduperEdgeCases(t *testing.T) {
	Convey("Given edge-case keys", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()

		So(d.SeenAndRecord(ctx, ""), ShouldBeFalse)
		So(d.SeenAndRecord(ctx, ""), ShouldBeTrue)

		long := strings.Repeat("x", 10000)
		So(d.SeenAndRecord(ctx, long), ShouldBeFalse)
		So(d.SeenAndRecord(ctx, long), ShouldBeTrue)
	})
}
