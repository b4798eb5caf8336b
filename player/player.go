// Package player defines the playback handles driven by the frame synchronizer.
// Two engines are provided: a built-in terminal emulator replaying asciicast
// recordings, and mpv controlled over its JSON-IPC socket.
package player

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/castsync/castsync/key"
	"github.com/spf13/viper"
)

var (
	// ErrUnsupported is returned by handles that do not implement an operation.
	// Callers treat it as a successful no-op.
	ErrUnsupported = errors.New("operation not supported by player")

	// ErrDisposed is returned by every operation on a disposed handle.
	ErrDisposed = errors.New("player disposed")

	// ErrNotReady is returned when an operation needs media that has not finished loading.
	ErrNotReady = errors.New("player not ready")
)

// Handle encapsulates the capabilities of one playback engine instance.
// All operations may block; callers bound them with the supplied context.
type Handle interface {
	// Seek moves playback to an absolute position in seconds and draws the resulting frame.
	Seek(ctx context.Context, seconds float64) error

	// Play resumes free-running playback from the current position.
	Play(ctx context.Context) error

	// Pause suspends playback, leaving the current frame visible.
	Pause(ctx context.Context) error

	// Duration reports the media length in seconds, or 0 while it is still unknown.
	Duration(ctx context.Context) (float64, error)

	// Dispose releases every resource held by the handle. It is safe to call more than once.
	Dispose() error
}

// Frame is a single visual state produced by a handle.
type Frame struct {
	Time    float64
	Columns int
	Rows    int
	// Text is the plain screen content, one line per row.
	Text string
	// ANSI reproduces the screen, including colors, as escape sequences.
	ANSI    string
	Playing bool
}

// Surface receives frames from a handle. Draw is called with the handle's lock held
// and must not call back into the handle.
type Surface interface {
	Draw(frame Frame)
}

// SurfaceFunc adapts a function to the Surface interface.
type SurfaceFunc func(Frame)

func (f SurfaceFunc) Draw(frame Frame) {
	f(frame)
}

// Discard is a surface that drops every frame.
var Discard Surface = SurfaceFunc(func(Frame) {})

// Factory creates a handle for source drawing onto target.
// The handle is returned immediately, possibly before its media is loaded.
type Factory func(source string, target Surface, options Options) (Handle, error)

// Engine names accepted by Create.
const (
	EngineTerminal = "terminal"
	EngineMPV      = "mpv"
)

// AvailableEngines lists the engine names accepted by Create.
func AvailableEngines() []string {
	return []string{EngineTerminal, EngineMPV}
}

// Create returns the factory for the named engine.
func Create(engine string) (Factory, error) {
	switch strings.ToLower(engine) {
	case EngineTerminal, "":
		return NewTerminalFactory(nil), nil
	case EngineMPV:
		binary := viper.GetString(key.PlayerMPVPath)
		return func(source string, target Surface, options Options) (Handle, error) {
			return NewMPV(binary, source, target, options)
		}, nil
	default:
		return nil, fmt.Errorf("unknown player engine %q, available: %s", engine, strings.Join(AvailableEngines(), ", "))
	}
}
