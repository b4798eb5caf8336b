package tui

import (
	"github.com/castsync/castsync/player"
	tea "github.com/charmbracelet/bubbletea"
)

type frameMsg player.Frame

// surface hands the newest drawn frame to the program. Older undelivered frames are dropped
// so Draw never blocks the player.
type surface struct {
	frames chan player.Frame
}

func newSurface() *surface {
	return &surface{frames: make(chan player.Frame, 1)}
}

func (s *surface) Draw(f player.Frame) {
	for {
		select {
		case s.frames <- f:
			return
		default:
		}

		select {
		case <-s.frames:
		default:
		}
	}
}

func (s *surface) wait() tea.Cmd {
	return func() tea.Msg {
		return frameMsg(<-s.frames)
	}
}
