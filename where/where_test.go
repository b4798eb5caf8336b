package where

import (
	"path/filepath"
	"testing"

	"github.com/castsync/castsync/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Cache()", func() {
			path := Cache()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Renders() lives under the cache", func() {
			path := Renders()
			So(filepath.Dir(path), ShouldEqual, Cache())
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Probes() and Recent() are files in the cache", func() {
			So(filepath.Dir(Probes()), ShouldEqual, Cache())
			So(filepath.Dir(Recent()), ShouldEqual, Cache())
		})

		Convey("Config() honors the override variable", func() {
			t.Setenv(EnvConfigPath, "/tmp/castsync-custom")
			So(Config(), ShouldEqual, "/tmp/castsync-custom")
			So(lo.Must(filesystem.API().IsDir("/tmp/castsync-custom")), ShouldBeTrue)
		})
	})
}
