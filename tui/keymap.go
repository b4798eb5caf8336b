package tui

import (
	"github.com/castsync/castsync/color"
	"github.com/castsync/castsync/style"
	"github.com/charmbracelet/bubbles/key"
)

// statefulKeymap defines the keyboard interactions available within various application states.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	playPause,
	stepForward, stepBack,
	jumpForward, jumpBack,
	secondForward, secondBack,
	home, end,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("play/pause")),
		),
		stepForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "next frame"),
		),
		stepBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "previous frame"),
		),
		jumpForward: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "+10 frames"),
		),
		jumpBack: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "-10 frames"),
		),
		secondForward: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("L", "+1s"),
		),
		secondBack: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("H", "-1s"),
		),
		home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first frame"),
		),
		end: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last frame"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case loadingState:
		return to2(h(k.forceQuit))
	case scrubState:
		return h(k.playPause, k.stepBack, k.stepForward, k.showHelp, k.quit),
			h(k.playPause, k.stepBack, k.stepForward, k.jumpBack, k.jumpForward, k.secondBack, k.secondForward, k.home, k.end, k.quit)
	case errorState:
		return to2(h(k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}
