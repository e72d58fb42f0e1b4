package config_test

import (
	"errors"
	"testing"

	"github.com/okian/nestudio/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.ThemeStore, convey.ShouldEqual, config.ThemeStoreMemory)
			convey.So(cfg.ReadWPM, convey.ShouldEqual, 220)
			convey.So(cfg.QRModules, convey.ShouldEqual, 21)
			convey.So(cfg.SpringStiffness, convey.ShouldEqual, 160)
			convey.So(cfg.SpringDamping, convey.ShouldEqual, 28)
			convey.So(cfg.SpringMass, convey.ShouldEqual, 0.28)
			convey.So(cfg.FieldCell, convey.ShouldEqual, 44)
			convey.So(cfg.ThemeMemoryEntries, convey.ShouldEqual, 10000)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then durations derive from the millisecond fields", func() {
			convey.So(cfg.QRTimeout().Milliseconds(), convey.ShouldEqual, 2500)
			convey.So(cfg.EnhanceTimeout().Milliseconds(), convey.ShouldEqual, 1500)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs that break one invariant each", t, func() {
		cases := map[string]func(c *config.Config){
			"empty addr":          func(c *config.Config) { c.Addr = "" },
			"unknown theme store": func(c *config.Config) { c.ThemeStore = "sqlite" },
			"redis without addr":  func(c *config.Config) { c.ThemeStore = config.ThemeStoreRedis; c.RedisAddr = "" },
			"zero wpm":            func(c *config.Config) { c.ReadWPM = 0 },
			"small qr grid":       func(c *config.Config) { c.QRModules = 7 },
			"qr without endpoint": func(c *config.Config) { c.QREndpoint = "" },
			"zero field cell":     func(c *config.Config) { c.FieldCell = 0 },
			"zero spring mass":    func(c *config.Config) { c.SpringMass = 0 },
			"uncapped memory":     func(c *config.Config) { c.ThemeMemoryEntries = 0 },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)

			convey.Convey("Then "+name+" is rejected with ErrInvalidConfig", func() {
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("Then a disabled QR endpoint may be empty", func() {
			cfg := config.New()
			cfg.QREnabled = false
			cfg.QREndpoint = ""
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
