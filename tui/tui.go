package tui

import (
	"context"

	"github.com/castsync/castsync/framesync"
	"github.com/castsync/castsync/player"
	tea "github.com/charmbracelet/bubbletea"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Config  framesync.Config
	Factory player.Factory
	FPS     float64
	// Duration skips probing when the source is not an asciicast recording.
	Duration float64
	Tuning   []framesync.Option
}

// Run mounts a player for the configured source and runs the scrubber until the user quits.
func Run(ctx context.Context, options *Options) error {
	bubble := newBubble(ctx, options)
	defer bubble.host.Close()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
