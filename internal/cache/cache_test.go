package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/castsync/castsync/filesystem"
	"github.com/castsync/castsync/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCache(t *testing.T) {
	Convey("Given a download cache", t, func() {
		viper.Set(key.NetworkCacheHours, 1)
		const url = "https://example.com/demo.cast"

		Convey("Keys are stable and distinct", func() {
			So(Key(url), ShouldEqual, Key(" "+url+" "))
			So(Key(url), ShouldNotEqual, Key(url+"?v=2"))
		})

		Convey("A written body is read back", func() {
			So(Write(url, []byte("body")), ShouldBeNil)
			data, ok := Read(url)
			So(ok, ShouldBeTrue)
			So(string(data), ShouldEqual, "body")
		})

		Convey("Expired entries are misses", func() {
			So(Write(url, []byte("old")), ShouldBeNil)
			old := time.Now().Add(-2 * time.Hour)
			So(filesystem.API().Chtimes(filepath.Join(dir(), Key(url)), old, old), ShouldBeNil)

			_, ok := Read(url)
			So(ok, ShouldBeFalse)
		})

		Convey("A zero TTL disables caching", func() {
			viper.Set(key.NetworkCacheHours, 0)
			So(Write(url+"#off", []byte("x")), ShouldBeNil)
			_, ok := Read(url + "#off")
			So(ok, ShouldBeFalse)
		})
	})
}
