package framesync

import (
	"time"

	"github.com/castsync/castsync/key"
	"github.com/castsync/castsync/player"
	"github.com/spf13/viper"
)

// Config is everything a player handle is constructed from.
// Two equal configs describe the same mount; any difference needs a new handle.
type Config struct {
	Source       string
	Columns      int
	Rows         int
	Theme        string
	Fit          player.Fit
	ShowControls bool
}

// ConfigFromViper builds a config for source from the player.* settings.
func ConfigFromViper(source string) Config {
	return Config{
		Source:       source,
		Columns:      viper.GetInt(key.PlayerColumns),
		Rows:         viper.GetInt(key.PlayerRows),
		Theme:        viper.GetString(key.PlayerTheme),
		Fit:          player.Fit(viper.GetString(key.PlayerFit)),
		ShowControls: viper.GetBool(key.PlayerShowControls),
	}
}

func (c Config) options() player.Options {
	return player.Options{
		Columns:      c.Columns,
		Rows:         c.Rows,
		Theme:        c.Theme,
		Fit:          c.Fit,
		ShowControls: c.ShowControls,
		Preload:      true,
	}
}

// Tuning controls readiness polling and redundant seek suppression.
type Tuning struct {
	// PollInterval is the pause between readiness checks.
	PollInterval time.Duration
	// MaxPolls bounds readiness checks. Zero polls until unmount.
	MaxPolls int
	// ToleranceFrames is how close, in frames, a target must be to the last
	// confirmed seek for the seek to be skipped.
	ToleranceFrames float64
}

const (
	defaultPollInterval    = 50 * time.Millisecond
	defaultToleranceFrames = 0.5
)

// DefaultTuning returns the sync.* settings, falling back to built-in values.
func DefaultTuning() Tuning {
	t := Tuning{
		PollInterval:    time.Duration(viper.GetInt(key.SyncPollIntervalMs)) * time.Millisecond,
		MaxPolls:        viper.GetInt(key.SyncMaxPolls),
		ToleranceFrames: viper.GetFloat64(key.SyncToleranceFrames),
	}

	if t.PollInterval <= 0 {
		t.PollInterval = defaultPollInterval
	}
	if t.MaxPolls < 0 {
		t.MaxPolls = 0
	}
	// 0 is a valid tolerance: every discontinuous frame seeks.
	if !viper.IsSet(key.SyncToleranceFrames) || t.ToleranceFrames < 0 {
		t.ToleranceFrames = defaultToleranceFrames
	}
	return t
}

// tolerance converts the frame tolerance into seconds at fps.
func (t Tuning) tolerance(fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return t.ToleranceFrames / fps
}

// Option adjusts the tuning of a single synchronizer.
type Option func(*Tuning)

func WithPollInterval(d time.Duration) Option {
	return func(t *Tuning) {
		if d > 0 {
			t.PollInterval = d
		}
	}
}

func WithMaxPolls(n int) Option {
	return func(t *Tuning) {
		if n >= 0 {
			t.MaxPolls = n
		}
	}
}

// WithTolerance sets the seek suppression window in frames. 0 disables suppression.
func WithTolerance(frames float64) Option {
	return func(t *Tuning) {
		if frames >= 0 {
			t.ToleranceFrames = frames
		}
	}
}
