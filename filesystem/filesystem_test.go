package filesystem

import (
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestSub(t *testing.T) {
	Convey("Given an in-memory backend", t, func() {
		SetMemMapFs()

		Convey("Sub should create the directory and root writes inside it", func() {
			sub, err := Sub("/renders/demo")
			So(err, ShouldBeNil)
			So(lo.Must(API().IsDir("/renders/demo")), ShouldBeTrue)

			So(sub.WriteFile("/frame-000001.txt", []byte("hello"), 0644), ShouldBeNil)

			data, err := API().ReadFile("/renders/demo/frame-000001.txt")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "hello")
		})
	})
}
