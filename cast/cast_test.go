package cast

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/castsync/castsync/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

const v2Recording = `{"version": 2, "width": 100, "height": 30, "timestamp": 1700000000, "title": "demo"}
[0.5, "o", "hello "]
[1.25, "o", "world\r\n"]
[2.0, "m", "chapter"]
[3.5, "o", "$ "]
`

const v3Recording = `{"version": 3, "term": {"cols": 90, "rows": 20}}
# comment lines are allowed
[0.5, "o", "a"]
[0.25, "r", "100x40"]
[1.0, "o", "b"]
`

const v1Recording = `{
  "version": 1,
  "width": 60,
  "height": 10,
  "stdout": [[0.5, "a"], [1.5, "b"], [0.25, "c"]]
}`

func TestParse(t *testing.T) {
	Convey("Given a v2 recording", t, func() {
		rec, err := Parse(strings.NewReader(v2Recording))
		So(err, ShouldBeNil)

		Convey("The header is decoded", func() {
			So(rec.Header.Version, ShouldEqual, 2)
			So(rec.Header.Columns, ShouldEqual, 100)
			So(rec.Header.Rows, ShouldEqual, 30)
			So(rec.Header.Title, ShouldEqual, "demo")
		})

		Convey("Event times are absolute", func() {
			So(len(rec.Events), ShouldEqual, 4)
			So(rec.Events[1].Time, ShouldEqual, 1.25)
			So(rec.Events[1].Data, ShouldEqual, "world\r\n")
		})

		Convey("Duration is the time of the last event", func() {
			So(rec.Duration(), ShouldEqual, 3.5)
		})

		Convey("Markers are listed", func() {
			So(rec.Markers(), ShouldResemble, []Marker{{Time: 2.0, Label: "chapter"}})
		})
	})

	Convey("Given a v2 recording with an explicit duration", t, func() {
		rec, err := Parse(strings.NewReader(`{"version": 2, "width": 80, "height": 24, "duration": 9.75}
[1.0, "o", "x"]`))
		So(err, ShouldBeNil)
		So(rec.Duration(), ShouldEqual, 9.75)
	})

	Convey("Given a v3 recording", t, func() {
		rec, err := Parse(strings.NewReader(v3Recording))
		So(err, ShouldBeNil)

		Convey("The terminal size comes from the term object", func() {
			columns, rows := rec.Size()
			So(columns, ShouldEqual, 90)
			So(rows, ShouldEqual, 20)
		})

		Convey("Intervals accumulate into absolute times", func() {
			So(len(rec.Events), ShouldEqual, 3)
			So(rec.Events[1].Time, ShouldEqual, 0.75)
			So(rec.Events[2].Time, ShouldEqual, 1.75)
			So(rec.Duration(), ShouldEqual, 1.75)
		})
	})

	Convey("Given a v1 recording", t, func() {
		rec, err := Parse(strings.NewReader(v1Recording))
		So(err, ShouldBeNil)

		Convey("Delays accumulate into absolute times", func() {
			So(rec.Header.Version, ShouldEqual, 1)
			So(len(rec.Events), ShouldEqual, 3)
			So(rec.Events[2].Time, ShouldEqual, 2.25)
			So(rec.Duration(), ShouldEqual, 2.25)
		})
	})

	Convey("Given a header-only recording", t, func() {
		rec, err := Parse(strings.NewReader(`{"version": 2, "width": 80, "height": 24}`))
		So(err, ShouldBeNil)
		So(rec.Duration(), ShouldEqual, 0)
	})

	Convey("Given unsupported input", t, func() {
		Convey("Empty input is rejected", func() {
			_, err := Parse(strings.NewReader("   "))
			So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
		})

		Convey("Unknown versions are rejected", func() {
			_, err := Parse(strings.NewReader(`{"version": 7}`))
			So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
		})

		Convey("Malformed events report their line", func() {
			_, err := Parse(strings.NewReader("{\"version\": 2, \"width\": 80, \"height\": 24}\n[1.0, \"o\"]"))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "line 2")
		})
	})
}

func TestFrames(t *testing.T) {
	Convey("Frames", t, func() {
		So(Frames(10, 30), ShouldEqual, 300)
		So(Frames(10.01, 30), ShouldEqual, 301)
		So(Frames(0, 30), ShouldEqual, 1)
		So(Frames(0.01, 30), ShouldEqual, 1)
		So(Frames(5, 0), ShouldEqual, 1)
	})
}

func TestParseSize(t *testing.T) {
	Convey("ParseSize", t, func() {
		columns, rows, ok := ParseSize("100x40")
		So(ok, ShouldBeTrue)
		So(columns, ShouldEqual, 100)
		So(rows, ShouldEqual, 40)

		_, _, ok = ParseSize("garbage")
		So(ok, ShouldBeFalse)
	})
}

func TestResolveURL(t *testing.T) {
	Convey("ResolveURL", t, func() {
		So(ResolveURL("https://asciinema.org/a/335480"), ShouldEqual, "https://asciinema.org/a/335480.cast")
		So(ResolveURL("https://example.com/demo.cast"), ShouldEqual, "https://example.com/demo.cast")
		So(IsRemote("https://example.com/demo.cast"), ShouldBeTrue)
		So(IsRemote("/home/user/demo.cast"), ShouldBeFalse)
	})
}

func TestProbe(t *testing.T) {
	Convey("Given a recording on disk", t, func() {
		path := "/recordings/demo.cast"
		So(filesystem.API().MkdirAll("/recordings", 0755), ShouldBeNil)
		So(filesystem.API().WriteFile(path, []byte(v2Recording), 0644), ShouldBeNil)

		Convey("Probe describes it", func() {
			info, err := Probe(context.Background(), path)
			So(err, ShouldBeNil)
			So(info.Source, ShouldEqual, path)
			So(info.Columns, ShouldEqual, 100)
			So(info.Duration, ShouldEqual, 3.5)
			So(info.Events, ShouldEqual, 4)
			So(info.Frames(30), ShouldEqual, 105)

			Convey("A rewritten file is probed again", func() {
				So(filesystem.API().WriteFile(path, []byte(v3Recording), 0644), ShouldBeNil)

				info, err := Probe(context.Background(), path)
				So(err, ShouldBeNil)
				So(info.Version, ShouldEqual, 3)
				So(info.Duration, ShouldEqual, 1.75)
			})
		})

		Convey("Missing files fail", func() {
			_, err := Probe(context.Background(), "/recordings/missing.cast")
			So(err, ShouldNotBeNil)
		})
	})
}
