// Package render drives a synchronized player through a composition frame by frame
// and writes every visited frame to disk, the way a video renderer would capture it.
package render

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/castsync/castsync/cast"
	"github.com/castsync/castsync/filesystem"
	"github.com/castsync/castsync/framesync"
	"github.com/castsync/castsync/log"
	"github.com/castsync/castsync/player"
	"github.com/castsync/castsync/util"
	"github.com/castsync/castsync/where"
	"github.com/samber/mo"
	"github.com/spf13/afero"
)

// Format is how captured frames are written.
type Format string

const (
	FormatText Format = "txt"
	FormatANSI Format = "ans"
)

// ParseFormat accepts "txt", "text", "ans" or "ansi".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "txt", "text":
		return FormatText, nil
	case "ans", "ansi":
		return FormatANSI, nil
	default:
		return "", fmt.Errorf("unknown format %q, available: txt, ansi", s)
	}
}

// Options configure a single render.
type Options struct {
	Config  framesync.Config
	Factory player.Factory
	FPS     float64
	Order   Order
	Format  Format
	// Dir receives the frame files. Defaults to a directory named after the source under where.Renders().
	Dir string
	// Pace spaces continuous frames at the composition frame rate.
	Pace bool
	// Progress, if set, is called after every captured frame.
	Progress func(done, total int)
	Tuning   []framesync.Option
}

// Report summarizes a finished render.
type Report struct {
	Dir        string
	Frames     int
	Total      int
	Ready      bool
	Seeks      int
	Plays      int
	Pauses     int
	Superseded int
	Elapsed    time.Duration
}

// capture keeps the latest frame drawn by the player.
type capture struct {
	mu    sync.Mutex
	frame player.Frame
}

func (c *capture) Draw(f player.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frame = f
}

func (c *capture) last() player.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Name derives the output directory name for a source.
func Name(source string) string {
	name := util.SanitizeFilename(util.FileStem(cast.ResolveURL(source)))
	if name == "" {
		return "recording"
	}
	return name
}

// Render visits the frames picked by opts.Order and writes each one once the player shows it.
// Discontinuous frames are written only after the player has settled on them; continuous
// runs are captured while the player runs freely.
func Render(ctx context.Context, opts Options) (Report, error) {
	started := time.Now()

	if opts.Factory == nil {
		return Report{}, fmt.Errorf("render: no player factory")
	}
	if opts.FPS <= 0 {
		return Report{}, fmt.Errorf("render: fps must be positive, got %v", opts.FPS)
	}
	if opts.Order == nil {
		opts.Order = sequential{}
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if opts.Dir == "" {
		opts.Dir = filepath.Join(where.Renders(), Name(opts.Config.Source))
	}

	info, err := cast.Probe(ctx, opts.Config.Source)
	if err != nil {
		return Report{}, err
	}

	out, err := filesystem.Sub(opts.Dir)
	if err != nil {
		return Report{}, fmt.Errorf("render: output directory: %w", err)
	}

	total := info.Frames(opts.FPS)
	frames := opts.Order.Frames(total)
	logger := log.WithFields(map[string]any{
		"source": opts.Config.Source,
		"order":  opts.Order.String(),
		"frames": len(frames),
	})
	logger.Info("render started")

	surface := &capture{}
	synchronizer := framesync.Mount(ctx, opts.Factory, surface, opts.Config, opts.Tuning...)
	defer synchronizer.Unmount()

	interval := time.Duration(float64(time.Second) / opts.FPS)
	previous := mo.None[int]()
	wasContinuous := false

	for i, frame := range frames {
		tickedAt := time.Now()
		synchronizer.Tick(frame, opts.FPS)

		continuous := framesync.Classify(previous, frame) == framesync.Continuous
		previous = mo.Some(frame)

		// The first frame of a run still has a seek and a play to finish.
		if !continuous || !wasContinuous {
			if err := synchronizer.Settle(ctx); err != nil {
				return Report{}, err
			}
		} else if opts.Pace {
			select {
			case <-ctx.Done():
				return Report{}, ctx.Err()
			case <-time.After(time.Until(tickedAt.Add(interval))):
			}
		}
		wasContinuous = continuous

		if err := write(out, frame, opts.Format, surface.last()); err != nil {
			return Report{}, err
		}

		if opts.Progress != nil {
			opts.Progress(i+1, len(frames))
		}
	}

	stats := synchronizer.Stats()
	report := Report{
		Dir:        opts.Dir,
		Frames:     len(frames),
		Total:      total,
		Ready:      synchronizer.Ready(),
		Seeks:      stats.Seeks,
		Plays:      stats.Plays,
		Pauses:     stats.Pauses,
		Superseded: stats.Superseded,
		Elapsed:    time.Since(started),
	}

	if !report.Ready {
		logger.Warn("player never became ready, frames show its initial state")
	}
	logger.WithField("elapsed", report.Elapsed).Info("render finished")

	return report, nil
}

// FileName is the name a frame is written under.
func FileName(frame int, format Format) string {
	return fmt.Sprintf("frame-%06d.%s", frame, format)
}

func write(out afero.Afero, frame int, format Format, shown player.Frame) error {
	content := shown.Text
	if format == FormatANSI {
		content = shown.ANSI
	}

	if err := out.WriteFile(FileName(frame, format), []byte(content), 0644); err != nil {
		return fmt.Errorf("write frame %d: %w", frame, err)
	}
	return nil
}
