package config_test

import (
	"testing"

	"github.com/neurofitplus/neurofit/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConfigDefaults(t *testing.T) {
	Convey("Given a default config", t, func() {
		cfg := config.New()

		Convey("Then every field should carry a usable default", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":8000")
			So(cfg.ModelPath, ShouldNotBeEmpty)
			So(cfg.ManifestPath, ShouldNotBeEmpty)
			So(cfg.SessionsFile, ShouldNotBeEmpty)
			So(cfg.AppendQueueSize, ShouldBeGreaterThan, 0)
			So(cfg.NumpyVersion, ShouldEqual, config.DefaultNumpyVersion)
			So(cfg.SklearnVersion, ShouldEqual, config.DefaultSklearnVersion)
		})
	})
}
