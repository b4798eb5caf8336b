package player

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/castsync/castsync/cast"
	"github.com/castsync/castsync/log"
	"github.com/hinshun/vt10x"
)

// LoadFunc reads the recording behind a source.
type LoadFunc func(ctx context.Context, source string) (*cast.Recording, error)

// playbackTick is the interval at which a playing terminal advances its screen.
const playbackTick = time.Second / 60

// Terminal replays an asciicast recording through a virtual terminal.
// Its duration stays 0 until the recording has been loaded in the background.
type Terminal struct {
	source string
	target Surface
	opts   Options
	theme  Theme
	load   LoadFunc

	ctx    context.Context
	cancel context.CancelFunc

	loadOnce sync.Once
	loaded   chan struct{}

	mu       sync.Mutex
	rec      *cast.Recording
	loadErr  error
	vt       vt10x.Terminal
	columns  int
	rows     int
	next     int     // index of the first event not yet applied to vt
	position float64 // seconds
	playing  bool
	stopPlay chan struct{}
	disposed bool
}

// NewTerminalFactory returns a factory for terminal handles reading recordings with load.
// A nil load uses cast.Load.
func NewTerminalFactory(load LoadFunc) Factory {
	if load == nil {
		load = cast.Load
	}

	return func(source string, target Surface, opts Options) (Handle, error) {
		return NewTerminal(source, target, opts, load)
	}
}

// NewTerminal creates a terminal handle. With Options.Preload the recording starts
// loading immediately, otherwise on the first Duration call.
func NewTerminal(source string, target Surface, opts Options, load LoadFunc) (*Terminal, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("terminal player: empty source")
	}

	// Zero geometry means the recording header decides.
	columns, rows := max(opts.Columns, 0), max(opts.Rows, 0)
	opts = opts.withDefaults()
	opts.Columns, opts.Rows = columns, rows

	theme, err := LookupTheme(opts.Theme)
	if err != nil {
		return nil, err
	}

	if target == nil {
		target = Discard
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &Terminal{
		source: source,
		target: target,
		opts:   opts,
		theme:  theme,
		load:   load,
		ctx:    ctx,
		cancel: cancel,
		loaded: make(chan struct{}),
	}

	if opts.Preload {
		t.startLoading()
	}

	return t, nil
}

func (t *Terminal) startLoading() {
	t.loadOnce.Do(func() {
		go func() {
			defer close(t.loaded)

			rec, err := t.load(t.ctx, t.source)

			t.mu.Lock()
			defer t.mu.Unlock()

			if t.disposed {
				return
			}

			if err != nil {
				t.loadErr = err
				log.Errorf("load %s: %v", t.source, err)
				return
			}

			t.rec = rec
			t.resetScreen()
			t.draw()
		}()
	})
}

// Loaded returns a channel closed once loading has finished, successfully or not.
func (t *Terminal) Loaded() <-chan struct{} {
	t.startLoading()
	return t.loaded
}

// resetScreen recreates the virtual terminal at the configured geometry.
// Explicit options win over the recording header.
func (t *Terminal) resetScreen() {
	columns, rows := t.rec.Size()
	if t.opts.Columns > 0 {
		columns = t.opts.Columns
	}
	if t.opts.Rows > 0 {
		rows = t.opts.Rows
	}

	t.columns, t.rows = columns, rows
	t.vt = vt10x.New(vt10x.WithSize(columns, rows))
	t.next = 0
}

// advance applies every event up to and including position seconds.
func (t *Terminal) advance(position float64) {
	if position < t.position || (t.next > 0 && t.rec.Events[t.next-1].Time > position) {
		t.resetScreen()
	}

	for t.next < len(t.rec.Events) && t.rec.Events[t.next].Time <= position {
		e := t.rec.Events[t.next]
		switch e.Code {
		case cast.CodeOutput:
			_, _ = t.vt.Write([]byte(e.Data))
		case cast.CodeResize:
			if t.opts.Columns == 0 && t.opts.Rows == 0 {
				if columns, rows, ok := cast.ParseSize(e.Data); ok {
					t.columns, t.rows = columns, rows
					t.vt.Resize(columns, rows)
				}
			}
		}
		t.next++
	}

	t.position = position
}

func (t *Terminal) checkUsable() error {
	if t.disposed {
		return ErrDisposed
	}
	if t.rec == nil {
		if t.loadErr != nil {
			return fmt.Errorf("%w: %v", ErrNotReady, t.loadErr)
		}
		return ErrNotReady
	}
	return nil
}

// Seek implements Handle.
func (t *Terminal) Seek(ctx context.Context, seconds float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkUsable(); err != nil {
		return err
	}

	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	seconds = math.Min(seconds, t.rec.Duration())

	t.advance(seconds)
	if t.playing {
		t.restartClock()
	}
	t.draw()
	return nil
}

// Play implements Handle.
func (t *Terminal) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkUsable(); err != nil {
		return err
	}

	if t.playing {
		return nil
	}

	t.playing = true
	t.restartClock()
	t.draw()
	return nil
}

// restartClock (re)starts the playback goroutine from the current position.
func (t *Terminal) restartClock() {
	if t.stopPlay != nil {
		close(t.stopPlay)
	}

	stop := make(chan struct{})
	t.stopPlay = stop
	go t.run(stop, t.position, time.Now())
}

func (t *Terminal) run(stop <-chan struct{}, origin float64, started time.Time) {
	ticker := time.NewTicker(playbackTick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.ctx.Done():
			return
		case now := <-ticker.C:
			t.mu.Lock()
			select {
			case <-stop:
				t.mu.Unlock()
				return
			default:
			}

			duration := t.rec.Duration()
			position := math.Min(origin+now.Sub(started).Seconds(), duration)
			t.advance(position)
			if position >= duration {
				t.playing = false
				t.stopPlay = nil
			}
			t.draw()
			finished := !t.playing
			t.mu.Unlock()

			if finished {
				return
			}
		}
	}
}

// Pause implements Handle.
func (t *Terminal) Pause(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkUsable(); err != nil {
		return err
	}

	if !t.playing {
		return nil
	}

	t.playing = false
	if t.stopPlay != nil {
		close(t.stopPlay)
		t.stopPlay = nil
	}
	t.draw()
	return nil
}

// Duration implements Handle. It returns 0 until the recording is loaded.
func (t *Terminal) Duration(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	t.startLoading()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.disposed {
		return 0, ErrDisposed
	}
	if t.loadErr != nil {
		return 0, t.loadErr
	}
	if t.rec == nil {
		return 0, nil
	}
	return t.rec.Duration(), nil
}

// Position returns the current playback position in seconds.
func (t *Terminal) Position() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

// Dispose implements Handle.
func (t *Terminal) Dispose() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.disposed {
		return nil
	}

	t.disposed = true
	t.playing = false
	if t.stopPlay != nil {
		close(t.stopPlay)
		t.stopPlay = nil
	}
	t.cancel()
	return nil
}

// draw renders the screen onto the target surface.
func (t *Terminal) draw() {
	frame := Frame{
		Time:    t.position,
		Columns: t.columns,
		Rows:    t.rows,
		Playing: t.playing,
		Text:    t.text(),
		ANSI:    t.ansi(),
	}

	if t.opts.ShowControls {
		bar := t.controls()
		frame.Text += "\n" + bar
		frame.ANSI += "\r\n" + bar
		frame.Rows++
	}

	t.target.Draw(frame)
}

// text returns the screen content with trailing blanks trimmed from each row.
func (t *Terminal) text() string {
	var b strings.Builder
	for row := 0; row < t.rows; row++ {
		var line strings.Builder
		for col := 0; col < t.columns; col++ {
			ch := t.vt.Cell(col, row).Char
			if ch == 0 {
				ch = ' '
			}
			line.WriteRune(ch)
		}

		b.WriteString(strings.TrimRight(line.String(), " "))
		if row < t.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ansi returns escape sequences recreating the screen in the handle's theme.
func (t *Terminal) ansi() string {
	var b strings.Builder

	b.WriteString("\x1b[0m\x1b[2J\x1b[H")

	lastFG, lastBG := vt10x.Color(math.MaxUint32), vt10x.Color(math.MaxUint32)
	for row := 0; row < t.rows; row++ {
		for col := 0; col < t.columns; col++ {
			cell := t.vt.Cell(col, row)

			if cell.FG != lastFG || cell.BG != lastBG {
				fmt.Fprintf(&b, "\x1b[0;%s;%sm", t.color(38, cell.FG), t.color(48, cell.BG))
				lastFG, lastBG = cell.FG, cell.BG
			}

			if cell.Char == 0 {
				b.WriteRune(' ')
			} else {
				b.WriteRune(cell.Char)
			}
		}
		if row < t.rows-1 {
			b.WriteString("\r\n")
		}
	}

	b.WriteString("\x1b[0m")
	return b.String()
}

// color maps a cell color to SGR parameters. Defaults and the first 16 colors come from the theme.
func (t *Terminal) color(layer int, c vt10x.Color) string {
	switch {
	case c == vt10x.DefaultFG:
		return sgr(layer, t.theme.Foreground)
	case c == vt10x.DefaultBG:
		return sgr(layer, t.theme.Background)
	case c < 16:
		return sgr(layer, t.theme.Palette[c])
	case c < 256:
		return fmt.Sprintf("%d;5;%d", layer, c)
	case layer == 38:
		return sgr(layer, t.theme.Foreground)
	default:
		return sgr(layer, t.theme.Background)
	}
}

// controls renders a one-line status bar: state, position, and a progress gauge.
func (t *Terminal) controls() string {
	state := "||"
	if t.playing {
		state = "> "
	}

	duration := t.rec.Duration()
	label := fmt.Sprintf("%s %s / %s ", state, clock(t.position), clock(duration))

	width := t.columns - len(label) - 2
	if width < 1 {
		return label
	}

	filled := 0
	if duration > 0 {
		filled = int(math.Round(float64(width) * t.position / duration))
	}
	return label + "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

func clock(seconds float64) string {
	s := int(seconds)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
