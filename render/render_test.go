package render

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/castsync/castsync/filesystem"
	"github.com/castsync/castsync/framesync"
	"github.com/castsync/castsync/player"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

const recording = `{"version": 2, "width": 20, "height": 3}
[0.0, "o", "A"]
[0.4, "o", "B"]
[1.0, "o", "C"]
`

func firstLine(path string) string {
	data, err := filesystem.API().ReadFile(path)
	So(err, ShouldBeNil)
	return strings.Split(string(data), "\n")[0]
}

func TestRender(t *testing.T) {
	Convey("Given a recording on disk", t, func() {
		So(filesystem.API().MkdirAll("/recordings", 0755), ShouldBeNil)
		So(filesystem.API().WriteFile("/recordings/demo.cast", []byte(recording), 0644), ShouldBeNil)

		opts := Options{
			Config:  framesync.Config{Source: "/recordings/demo.cast", Columns: 20, Rows: 3},
			Factory: player.NewTerminalFactory(nil),
			FPS:     10,
			Dir:     "/renders/demo",
			Tuning:  []framesync.Option{framesync.WithPollInterval(time.Millisecond)},
		}

		Convey("Scrubbed frames show exactly the requested time", func() {
			order, err := ParseOrder("0,5,2", 0)
			So(err, ShouldBeNil)
			opts.Order = order

			report, err := Render(context.Background(), opts)
			So(err, ShouldBeNil)
			So(report.Ready, ShouldBeTrue)
			So(report.Frames, ShouldEqual, 3)
			So(report.Total, ShouldEqual, 10)
			So(report.Plays, ShouldEqual, 0)

			So(firstLine(filepath.Join(opts.Dir, FileName(0, FormatText))), ShouldEqual, "A")
			So(firstLine(filepath.Join(opts.Dir, FileName(5, FormatText))), ShouldEqual, "AB")
			So(firstLine(filepath.Join(opts.Dir, FileName(2, FormatText))), ShouldEqual, "A")
		})

		Convey("Sequential frames play after one aligning seek", func() {
			var progress []int
			opts.Progress = func(done, total int) { progress = append(progress, done) }

			report, err := Render(context.Background(), opts)
			So(err, ShouldBeNil)
			So(report.Frames, ShouldEqual, 10)
			So(report.Seeks, ShouldEqual, 2)
			So(report.Plays, ShouldEqual, 1)
			So(report.Pauses, ShouldEqual, 1)
			So(len(progress), ShouldEqual, 10)

			for frame := 0; frame < 10; frame++ {
				exists, err := filesystem.API().Exists(filepath.Join(opts.Dir, FileName(frame, FormatText)))
				So(err, ShouldBeNil)
				So(exists, ShouldBeTrue)
			}
		})

		Convey("ANSI frames keep escape sequences", func() {
			opts.Format = FormatANSI
			opts.Order, _ = ParseOrder("3", 0)

			_, err := Render(context.Background(), opts)
			So(err, ShouldBeNil)

			data, err := filesystem.API().ReadFile(filepath.Join(opts.Dir, "frame-000003.ans"))
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, "\x1b[")
		})

		Convey("A missing recording fails before mounting", func() {
			opts.Config.Source = "/recordings/missing.cast"
			_, err := Render(context.Background(), opts)
			So(err, ShouldNotBeNil)
		})

		Convey("Invalid options are rejected", func() {
			opts.FPS = 0
			_, err := Render(context.Background(), opts)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestOrder(t *testing.T) {
	Convey("ParseOrder", t, func() {
		order, err := ParseOrder("sequential", 0)
		So(err, ShouldBeNil)
		So(order.Frames(4), ShouldResemble, []int{0, 1, 2, 3})

		order, err = ParseOrder("Reverse", 0)
		So(err, ShouldBeNil)
		So(order.Frames(4), ShouldResemble, []int{3, 2, 1, 0})

		order, err = ParseOrder("0-3, 10, 6-4, 99", 0)
		So(err, ShouldBeNil)
		So(order.Frames(20), ShouldResemble, []int{0, 1, 2, 3, 10, 6, 5, 4})
		So(order.String(), ShouldEqual, "0-3,10,6-4,99")

		_, err = ParseOrder("zigzag", 0)
		So(err, ShouldNotBeNil)

		_, err = ParseOrder("1-x", 0)
		So(err, ShouldNotBeNil)
	})

	Convey("Scrub orders are reproducible", t, func() {
		a, _ := ParseOrder("scrub", 7)
		b, _ := ParseOrder("scrub", 7)

		frames := a.Frames(120)
		So(frames, ShouldResemble, b.Frames(120))
		So(len(frames), ShouldEqual, 120)
		for _, f := range frames {
			So(f, ShouldBeBetweenOrEqual, 0, 119)
		}
	})

	Convey("ParseFormat", t, func() {
		f, err := ParseFormat("ANSI")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, FormatANSI)

		_, err = ParseFormat("gif")
		So(err, ShouldNotBeNil)
	})

	Convey("Name", t, func() {
		So(Name("/home/user/demo.cast"), ShouldEqual, "demo")
		So(Name("https://asciinema.org/a/335480"), ShouldEqual, "335480")
	})
}
