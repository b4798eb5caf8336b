package util

import (
	"testing"

	"github.com/castsync/castsync/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Should replace invalid chars", func() {
			So(SanitizeFilename("demo:cast?.cast"), ShouldEqual, "demo_cast_.cast")
		})
		Convey("Should collapse underscores", func() {
			So(SanitizeFilename("demo__cast.cast"), ShouldEqual, "demo_cast.cast")
		})
		Convey("Should trim separators", func() {
			So(SanitizeFilename("-demo-cast-"), ShouldEqual, "demo-cast")
		})
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "frame", "frames"), ShouldEqual, "1 frame")
		So(Quantify(2, "frame", "frames"), ShouldEqual, "2 frames")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("path/to/demo.cast"), ShouldEqual, "demo")
		So(FileStem("demo"), ShouldEqual, "demo")
	})
}

func TestMaxMinClamp(t *testing.T) {
	Convey("Max/Min/Clamp", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
		So(Clamp(7, 0, 5), ShouldEqual, 5)
		So(Clamp(-1, 0, 5), ShouldEqual, 0)
		So(Clamp(3, 0, 5), ShouldEqual, 3)
	})
}

func TestTimestamp(t *testing.T) {
	Convey("Timestamp", t, func() {
		So(Timestamp(0), ShouldEqual, "0:00.00")
		So(Timestamp(10.0/30), ShouldEqual, "0:00.33")
		So(Timestamp(75.5), ShouldEqual, "1:15.50")
		So(Timestamp(-3), ShouldEqual, "0:00.00")
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		fs := filesystem.API()
		So(fs.MkdirAll("/work/renders", 0755), ShouldBeNil)
		So(fs.WriteFile("/work/renders/a.txt", []byte("a"), 0644), ShouldBeNil)

		So(Delete("/work/renders/a.txt"), ShouldBeNil)
		So(lo.Must(fs.Exists("/work/renders/a.txt")), ShouldBeFalse)

		So(Delete("/work"), ShouldBeNil)
		So(lo.Must(fs.Exists("/work")), ShouldBeFalse)
	})
}
