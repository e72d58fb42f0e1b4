package preference_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/nestudio/internal/adapters/preference"
	"github.com/okian/nestudio/internal/domain/theme"
)

func newRedis(t *testing.T) (*preference.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return preference.NewRedisStore(client, preference.WithTTL(time.Hour)), mr
}

// behaves runs the same contract against any theme.Store.
func behaves(store theme.Store) {
	ctx := context.Background()

	Convey("Then an unknown visitor has no preference", func() {
		_, ok, err := store.Get(ctx, "nobody")
		So(err, ShouldBeNil)
		So(ok, ShouldBeFalse)
	})

	Convey("Then a stored theme reads back and can be overwritten", func() {
		So(store.Set(ctx, "v1", theme.Dark), ShouldBeNil)
		got, ok, err := store.Get(ctx, "v1")
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)
		So(got, ShouldEqual, theme.Dark)

		So(store.Set(ctx, "v1", theme.Light), ShouldBeNil)
		got, _, _ = store.Get(ctx, "v1")
		So(got, ShouldEqual, theme.Light)
	})

	Convey("Then visitors do not share preferences", func() {
		So(store.Set(ctx, "v1", theme.Dark), ShouldBeNil)
		_, ok, _ := store.Get(ctx, "v2")
		So(ok, ShouldBeFalse)
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory store", t, func() {
		store := preference.NewMemoryStore(0)
		behaves(store)

		Convey("Then Len counts visitors", func() {
			_ = store.Set(context.Background(), "a", theme.Dark)
			So(store.Len(), ShouldEqual, 1)
		})
	})

	Convey("Given a memory store capped at two visitors", t, func() {
		ctx := context.Background()
		store := preference.NewMemoryStore(2)
		So(store.Set(ctx, "a", theme.Dark), ShouldBeNil)
		So(store.Set(ctx, "b", theme.Dark), ShouldBeNil)

		Convey("When a recently read visitor survives a third write", func() {
			_, _, _ = store.Get(ctx, "a")
			So(store.Set(ctx, "c", theme.Light), ShouldBeNil)

			Convey("Then the least recently used visitor is evicted", func() {
				So(store.Len(), ShouldEqual, 2)
				_, ok, _ := store.Get(ctx, "b")
				So(ok, ShouldBeFalse)
				got, ok, _ := store.Get(ctx, "a")
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, theme.Dark)
			})
		})

		Convey("When many visitors are written", func() {
			for i := range 1000 {
				_ = store.Set(ctx, fmt.Sprintf("v%d", i), theme.Dark)
			}

			Convey("Then the store stays at the cap", func() {
				So(store.Len(), ShouldEqual, 2)
			})
		})
	})
}

func TestRedisStore(t *testing.T) {
	Convey("Given a redis store", t, func() {
		store, mr := newRedis(t)
		behaves(store)

		Convey("When a theme is written", func() {
			ctx := context.Background()
			So(store.Set(ctx, "v9", theme.Dark), ShouldBeNil)

			Convey("Then it lives under the visitor key with a TTL", func() {
				val, err := mr.Get("nestudio:pref:v9:theme")
				So(err, ShouldBeNil)
				So(val, ShouldEqual, "dark")
				So(mr.TTL("nestudio:pref:v9:theme"), ShouldEqual, time.Hour)
			})

			Convey("Then it expires with the TTL", func() {
				mr.FastForward(2 * time.Hour)
				_, ok, err := store.Get(ctx, "v9")
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the stored value is corrupt", func() {
			So(mr.Set("nestudio:pref:v3:theme", "sepia"), ShouldBeNil)
			_, ok, err := store.Get(context.Background(), "v3")

			Convey("Then it reads as absent", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When redis is down", func() {
			mr.Close()
			_, _, getErr := store.Get(context.Background(), "v1")
			setErr := store.Set(context.Background(), "v1", theme.Dark)

			Convey("Then both calls report errors", func() {
				So(getErr, ShouldNotBeNil)
				So(setErr, ShouldNotBeNil)
				So(store.Ping(context.Background()), ShouldNotBeNil)
			})
		})

		Reset(func() { _ = store.Close() })
	})
}
