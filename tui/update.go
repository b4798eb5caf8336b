package tui

import (
	"fmt"
	"time"

	"github.com/castsync/castsync/cast"
	"github.com/castsync/castsync/log"
	"github.com/castsync/castsync/player"
	"github.com/castsync/castsync/recent"
	"github.com/castsync/castsync/util"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// advanceMsg moves a playing counter one frame. Messages from an older play run are ignored.
type advanceMsg struct {
	run int
}

// holdMsg repeats the tick for a frame the counter stopped on, the way a renderer
// re-evaluates a paused frame. The repeat is what pauses a player left running by a step.
type holdMsg struct {
	frame int
}

type clearNoticeMsg struct{}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
		return b, nil
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil
	case frameMsg:
		b.shown = player.Frame(msg)
		return b, b.surface.wait()
	case clearNoticeMsg:
		b.notice = ""
		return b, nil
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.forceQuit):
			return b, tea.Quit
		case bubblesKey.Matches(msg, b.keymap.quit) && b.state != loadingState:
			return b, tea.Quit
		}
	}

	switch b.state {
	case loadingState:
		return b.updateLoading(msg)
	case scrubState:
		return b.updateScrub(msg)
	default:
		return b, nil
	}
}

func (b *statefulBubble) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case probedMsg:
		b.info = cast.Info(msg)
		b.total = b.info.Frames(b.fps)
		b.setState(scrubState)

		b.host.Update(b.options.Config)
		b.host.Tick(0, b.fps)

		if err := recent.Remember(b.info.Source, b.info.Title, 1); err != nil {
			log.Warn(err)
		}
		return b, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	}

	return b, nil
}

func (b *statefulBubble) updateScrub(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case advanceMsg:
		if !b.playing || msg.run != b.run {
			return b, nil
		}

		if b.frame+1 >= b.total {
			b.playing = false
			b.run++
			return b, tea.Batch(b.hold(b.frame), b.notify("End of recording"))
		}

		b.frame++
		b.host.Tick(b.frame, b.fps)
		return b, b.advance()

	case holdMsg:
		if !b.playing && msg.frame == b.frame {
			b.host.Tick(b.frame, b.fps)
		}
		return b, nil

	case tea.KeyMsg:
		second := int(b.fps)

		switch {
		case bubblesKey.Matches(msg, b.keymap.playPause):
			return b, b.togglePlay()
		case bubblesKey.Matches(msg, b.keymap.stepForward):
			return b, b.moveTo(b.frame + 1)
		case bubblesKey.Matches(msg, b.keymap.stepBack):
			return b, b.moveTo(b.frame - 1)
		case bubblesKey.Matches(msg, b.keymap.jumpForward):
			return b, b.moveTo(b.frame + 10)
		case bubblesKey.Matches(msg, b.keymap.jumpBack):
			return b, b.moveTo(b.frame - 10)
		case bubblesKey.Matches(msg, b.keymap.secondForward):
			return b, b.moveTo(b.frame + second)
		case bubblesKey.Matches(msg, b.keymap.secondBack):
			return b, b.moveTo(b.frame - second)
		case bubblesKey.Matches(msg, b.keymap.home):
			return b, b.moveTo(0)
		case bubblesKey.Matches(msg, b.keymap.end):
			return b, b.moveTo(b.total - 1)
		case bubblesKey.Matches(msg, b.keymap.showHelp):
			b.helpC.ShowAll = !b.helpC.ShowAll
		}
	}

	return b, nil
}

func (b *statefulBubble) interval() time.Duration {
	return time.Duration(float64(time.Second) / b.fps)
}

func (b *statefulBubble) advance() tea.Cmd {
	run := b.run
	return tea.Tick(b.interval(), func(time.Time) tea.Msg {
		return advanceMsg{run: run}
	})
}

func (b *statefulBubble) hold(frame int) tea.Cmd {
	return tea.Tick(b.interval(), func(time.Time) tea.Msg {
		return holdMsg{frame: frame}
	})
}

func (b *statefulBubble) notify(notice string) tea.Cmd {
	b.notice = notice
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearNoticeMsg{}
	})
}

// moveTo stops the counter on frame and reports it.
func (b *statefulBubble) moveTo(frame int) tea.Cmd {
	b.playing = false
	b.run++
	b.frame = util.Clamp(frame, 0, max(b.total-1, 0))
	b.host.Tick(b.frame, b.fps)
	return b.hold(b.frame)
}

func (b *statefulBubble) togglePlay() tea.Cmd {
	if b.playing {
		b.playing = false
		b.run++
		return b.hold(b.frame)
	}

	var cmds []tea.Cmd
	if b.frame >= b.total-1 {
		cmds = append(cmds, b.moveTo(0), b.notify(fmt.Sprintf("Replaying %s", util.Quantify(b.total, "frame", "frames"))))
	}

	b.playing = true
	b.run++
	return tea.Batch(append(cmds, b.advance())...)
}
