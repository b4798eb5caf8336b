package player

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/castsync/castsync/cast"
	. "github.com/smartystreets/goconvey/convey"
)

// recorder keeps every frame drawn onto it.
type recorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *recorder) Draw(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
}

func (r *recorder) last() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Frame{}
	}
	return r.frames[len(r.frames)-1]
}

func (r *recorder) line(n int) string {
	lines := strings.Split(r.last().Text, "\n")
	if n >= len(lines) {
		return ""
	}
	return lines[n]
}

func testRecording() *cast.Recording {
	return &cast.Recording{
		Header: cast.Header{Version: 2, Columns: 40, Rows: 5},
		Events: []cast.Event{
			{Time: 0.5, Code: cast.CodeOutput, Data: "hello"},
			{Time: 1.0, Code: cast.CodeOutput, Data: "\r\nworld"},
			{Time: 2.0, Code: cast.CodeOutput, Data: "\x1b[2J\x1b[Hclear"},
		},
	}
}

func gatedLoader(rec *cast.Recording) (LoadFunc, chan struct{}) {
	gate := make(chan struct{})
	return func(ctx context.Context, source string) (*cast.Recording, error) {
		select {
		case <-gate:
			return rec, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}, gate
}

func TestTerminal(t *testing.T) {
	ctx := context.Background()

	Convey("Given a terminal handle whose recording is still loading", t, func() {
		load, gate := gatedLoader(testRecording())
		surface := &recorder{}

		handle, err := NewTerminal("demo.cast", surface, Options{Columns: 40, Rows: 5, Preload: true}, load)
		So(err, ShouldBeNil)
		defer handle.Dispose()

		Convey("Duration is 0 and sync operations are refused", func() {
			d, err := handle.Duration(ctx)
			So(err, ShouldBeNil)
			So(d, ShouldEqual, 0)
			So(errors.Is(handle.Seek(ctx, 1), ErrNotReady), ShouldBeTrue)
			So(errors.Is(handle.Play(ctx), ErrNotReady), ShouldBeTrue)
		})

		Convey("When the recording arrives", func() {
			close(gate)
			<-handle.Loaded()

			Convey("Duration becomes known", func() {
				d, err := handle.Duration(ctx)
				So(err, ShouldBeNil)
				So(d, ShouldEqual, 2.0)
			})

			Convey("Seek shows the screen at that time", func() {
				So(handle.Seek(ctx, 1.0), ShouldBeNil)
				So(surface.line(0), ShouldEqual, "hello")
				So(surface.line(1), ShouldEqual, "world")
				So(surface.last().Time, ShouldEqual, 1.0)
				So(surface.last().Columns, ShouldEqual, 40)
			})

			Convey("Seeking backward rebuilds the screen", func() {
				So(handle.Seek(ctx, 1.5), ShouldBeNil)
				So(handle.Seek(ctx, 0.7), ShouldBeNil)
				So(surface.line(0), ShouldEqual, "hello")
				So(surface.line(1), ShouldEqual, "")
			})

			Convey("Seeking past the end clamps to the duration", func() {
				So(handle.Seek(ctx, 99), ShouldBeNil)
				So(surface.line(0), ShouldEqual, "clear")
				So(handle.Position(), ShouldEqual, 2.0)
			})

			Convey("ANSI frames carry theme colors", func() {
				So(handle.Seek(ctx, 0.5), ShouldBeNil)
				So(surface.last().ANSI, ShouldContainSubstring, "38;2;204;204;204")
				So(surface.last().ANSI, ShouldContainSubstring, "hello")
			})

			Convey("Play advances the screen until paused", func() {
				So(handle.Seek(ctx, 0.6), ShouldBeNil)
				So(handle.Play(ctx), ShouldBeNil)
				So(surface.last().Playing, ShouldBeTrue)

				deadline := time.Now().Add(3 * time.Second)
				for handle.Position() < 1.0 && time.Now().Before(deadline) {
					time.Sleep(10 * time.Millisecond)
				}
				So(handle.Position(), ShouldBeGreaterThanOrEqualTo, 1.0)

				So(handle.Pause(ctx), ShouldBeNil)
				paused := handle.Position()
				time.Sleep(100 * time.Millisecond)
				So(handle.Position(), ShouldEqual, paused)
				So(surface.last().Playing, ShouldBeFalse)
			})

			Convey("Dispose makes every operation fail", func() {
				So(handle.Dispose(), ShouldBeNil)
				So(handle.Dispose(), ShouldBeNil)
				So(errors.Is(handle.Seek(ctx, 1), ErrDisposed), ShouldBeTrue)
				_, err := handle.Duration(ctx)
				So(errors.Is(err, ErrDisposed), ShouldBeTrue)
			})
		})
	})

	Convey("Given a terminal handle showing controls", t, func() {
		load, gate := gatedLoader(testRecording())
		close(gate)
		surface := &recorder{}

		handle, err := NewTerminal("demo.cast", surface, Options{Columns: 40, Rows: 5, ShowControls: true, Preload: true}, load)
		So(err, ShouldBeNil)
		defer handle.Dispose()
		<-handle.Loaded()

		So(handle.Seek(ctx, 1.0), ShouldBeNil)
		frame := surface.last()
		So(frame.Rows, ShouldEqual, 6)
		So(frame.Text, ShouldContainSubstring, "00:01 / 00:02")
		So(frame.Text, ShouldContainSubstring, "[")
	})

	Convey("Given a failing loader", t, func() {
		failing := func(ctx context.Context, source string) (*cast.Recording, error) {
			return nil, errors.New("boom")
		}

		handle, err := NewTerminal("broken.cast", nil, Options{}, failing)
		So(err, ShouldBeNil)
		defer handle.Dispose()

		<-handle.Loaded()
		_, err = handle.Duration(ctx)
		So(err, ShouldNotBeNil)
		So(errors.Is(handle.Seek(ctx, 0), ErrNotReady), ShouldBeTrue)
	})

	Convey("Construction validates its options", t, func() {
		_, err := NewTerminal("", nil, Options{}, nil)
		So(err, ShouldNotBeNil)

		_, err = NewTerminal("demo.cast", nil, Options{Theme: "neon"}, nil)
		So(err, ShouldNotBeNil)
	})
}

func TestCreate(t *testing.T) {
	Convey("Create", t, func() {
		factory, err := Create("terminal")
		So(err, ShouldBeNil)
		So(factory, ShouldNotBeNil)

		_, err = Create("vlc")
		So(err, ShouldNotBeNil)
	})

	Convey("ParseFit", t, func() {
		fit, err := ParseFit("Width")
		So(err, ShouldBeNil)
		So(fit, ShouldEqual, FitWidth)

		fit, err = ParseFit("")
		So(err, ShouldBeNil)
		So(fit, ShouldEqual, FitBoth)

		_, err = ParseFit("stretch")
		So(err, ShouldNotBeNil)
	})

	Convey("Every theme is registered", t, func() {
		for _, name := range AvailableThemes() {
			theme, err := LookupTheme(name)
			So(err, ShouldBeNil)
			So(theme.Palette[0], ShouldStartWith, "#")
		}
	})
}
