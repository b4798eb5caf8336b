package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/castsync/castsync/filesystem"
	"github.com/castsync/castsync/framesync"
	"github.com/castsync/castsync/player"
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

type idleHandle struct{}

func (idleHandle) Seek(context.Context, float64) error        { return nil }
func (idleHandle) Play(context.Context) error                 { return nil }
func (idleHandle) Pause(context.Context) error                { return nil }
func (idleHandle) Duration(context.Context) (float64, error)  { return 2, nil }
func (idleHandle) Dispose() error                             { return nil }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFitFrame(t *testing.T) {
	Convey("Given a frame wider and taller than the area", t, func() {
		text := "first line is long\nsecond\nthird\nfourth"

		Convey("Fitting the width wraps lines", func() {
			out := fitFrame(text, player.FitWidth, 10, 10)
			So(strings.Split(out, "\n")[0], ShouldEqual, "first line")
			So(out, ShouldContainSubstring, "fourth")
		})

		Convey("Fitting the height keeps the bottom rows", func() {
			out := fitFrame(text, player.FitHeight, 40, 2)
			So(out, ShouldEqual, "third\nfourth")
		})

		Convey("No fit cuts to the top left", func() {
			out := fitFrame(text, player.FitNone, 5, 2)
			So(out, ShouldEqual, "first\nsecon")
		})

		Convey("Fitting both wraps and keeps the bottom", func() {
			out := fitFrame(text, player.FitBoth, 10, 1)
			So(out, ShouldEqual, "fourth")
		})

		Convey("No room means no frame", func() {
			So(fitFrame(text, player.FitBoth, 10, 0), ShouldBeEmpty)
		})
	})
}

func TestScrubber(t *testing.T) {
	Convey("Given a scrubber over a two second recording at 10 fps", t, func() {
		factory := func(string, player.Surface, player.Options) (player.Handle, error) {
			return idleHandle{}, nil
		}

		b := newBubble(context.Background(), &Options{
			Config:   framesync.Config{Source: "/casts/demo.cast", Fit: player.FitBoth},
			Factory:  factory,
			FPS:      10,
			Duration: 2,
			Tuning:   []framesync.Option{framesync.WithPollInterval(time.Millisecond)},
		})
		Reset(b.host.Close)
		b.resize(100, 40)

		So(b.View(), ShouldContainSubstring, "Loading")

		b.Update(b.probe()())
		So(b.state, ShouldEqual, scrubState)
		So(b.total, ShouldEqual, 20)
		So(b.host.Current(), ShouldNotBeNil)

		Convey("Keys move the frame counter within bounds", func() {
			b.Update(tea.KeyMsg{Type: tea.KeyRight})
			So(b.frame, ShouldEqual, 1)

			b.Update(runes("]"))
			So(b.frame, ShouldEqual, 11)

			b.Update(runes("L"))
			So(b.frame, ShouldEqual, 19)

			b.Update(runes("["))
			So(b.frame, ShouldEqual, 9)

			b.Update(runes("g"))
			So(b.frame, ShouldEqual, 0)

			b.Update(tea.KeyMsg{Type: tea.KeyLeft})
			So(b.frame, ShouldEqual, 0)

			b.Update(runes("G"))
			So(b.frame, ShouldEqual, 19)
			So(b.View(), ShouldContainSubstring, "frame 19 of 20")
		})

		Convey("Playing advances one frame per tick", func() {
			b.Update(runes(" "))
			So(b.playing, ShouldBeTrue)

			b.Update(advanceMsg{run: b.run})
			b.Update(advanceMsg{run: b.run})
			So(b.frame, ShouldEqual, 2)

			Convey("Ticks from an earlier run are ignored", func() {
				b.Update(runes(" "))
				So(b.playing, ShouldBeFalse)

				b.Update(advanceMsg{run: b.run - 1})
				So(b.frame, ShouldEqual, 2)
			})

			Convey("Playing stops at the last frame", func() {
				b.Update(runes("G"))
				b.Update(runes(" "))
				So(b.frame, ShouldEqual, 0)

				b.frame = 19
				b.Update(advanceMsg{run: b.run})
				So(b.playing, ShouldBeFalse)
				So(b.notice, ShouldEqual, "End of recording")
			})
		})

		Convey("Drawn frames are shown and the next one is awaited", func() {
			_, cmd := b.Update(frameMsg(player.Frame{Text: "$ echo hello", Time: 0.5}))
			So(cmd, ShouldNotBeNil)
			So(b.shown.Text, ShouldEqual, "$ echo hello")
			So(b.View(), ShouldContainSubstring, "$ echo hello")

			b.surface.Draw(player.Frame{Text: "older"})
			b.surface.Draw(player.Frame{Text: "newest"})
			b.Update(cmd())
			So(b.shown.Text, ShouldEqual, "newest")
		})

		Convey("Quit ends the program", func() {
			_, cmd := b.Update(runes("q"))
			So(cmd, ShouldNotBeNil)
			So(cmd(), ShouldHaveSameTypeAs, tea.QuitMsg{})
		})

		Convey("Errors are shown", func() {
			b.Update(context.DeadlineExceeded)
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "deadline exceeded")
		})
	})
}
