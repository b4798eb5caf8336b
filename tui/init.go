package tui

import (
	"github.com/castsync/castsync/cast"
	tea "github.com/charmbracelet/bubbletea"
)

type probedMsg cast.Info

// Init starts probing the recording and listening for frames.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, b.probe(), b.surface.wait())
}

func (b *statefulBubble) probe() tea.Cmd {
	source := b.options.Config.Source

	// Media the probe cannot read, such as video for mpv, comes with a known duration.
	if d := b.options.Duration; d > 0 {
		return func() tea.Msg {
			return probedMsg(cast.Info{Source: source, Duration: d})
		}
	}

	return func() tea.Msg {
		info, err := cast.Probe(b.ctx, source)
		if err != nil {
			return err
		}
		return probedMsg(info)
	}
}
