package tui

import (
	"context"

	"github.com/castsync/castsync/cast"
	"github.com/castsync/castsync/framesync"
	"github.com/castsync/castsync/player"
	"github.com/castsync/castsync/util"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// statefulBubble is the scrubber model. The frame counter plays the renderer's part:
// every change to it is reported to the synchronizer as a tick.
type statefulBubble struct {
	state  state
	keymap *statefulKeymap

	ctx     context.Context
	host    *framesync.Host
	surface *surface
	options *Options

	info    cast.Info
	fps     float64
	total   int
	frame   int
	playing bool
	run     int // identifies the current play run
	shown   player.Frame

	spinnerC  spinner.Model
	progressC progress.Model
	helpC     help.Model

	notice    string
	lastError error

	width, height int
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// resize propagates terminal dimension changes to the child components.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y
	b.progressC.Width = b.width
	b.helpC.Width = b.width
}

func newBubble(ctx context.Context, options *Options) *statefulBubble {
	s := newSurface()

	fps := options.FPS
	if fps <= 0 {
		fps = 30
	}

	bubble := &statefulBubble{
		keymap:  newStatefulKeymap(),
		ctx:     ctx,
		surface: s,
		host:    framesync.NewHost(ctx, options.Factory, s, options.Tuning...),
		options: options,
		fps:     fps,
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.setState(loadingState)
	return bubble
}
