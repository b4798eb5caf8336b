package player

import (
	"fmt"
	"strings"

	"github.com/castsync/castsync/constant"
)

// Fit controls how a frame is scaled into the area it is shown in.
type Fit string

const (
	FitWidth  Fit = "width"
	FitHeight Fit = "height"
	FitBoth   Fit = "both"
	FitNone   Fit = "none"
)

// ParseFit validates a fit policy name.
func ParseFit(s string) (Fit, error) {
	switch f := Fit(strings.ToLower(strings.TrimSpace(s))); f {
	case FitWidth, FitHeight, FitBoth, FitNone:
		return f, nil
	case "":
		return FitBoth, nil
	default:
		return "", fmt.Errorf("unknown fit %q, available: width, height, both, none", s)
	}
}

// Options configure a handle at construction time. Changing any of them requires a new handle.
type Options struct {
	Columns      int
	Rows         int
	Theme        string
	Fit          Fit
	ShowControls bool
	// Preload starts loading media as soon as the handle is created.
	Preload bool
}

// DefaultOptions returns the options used when nothing else is configured.
func DefaultOptions() Options {
	return Options{
		Columns: constant.DefaultColumns,
		Rows:    constant.DefaultRows,
		Theme:   ThemeAsciinema,
		Fit:     FitBoth,
		Preload: true,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Columns <= 0 {
		o.Columns = d.Columns
	}
	if o.Rows <= 0 {
		o.Rows = d.Rows
	}
	if o.Theme == "" {
		o.Theme = d.Theme
	}
	if o.Fit == "" {
		o.Fit = d.Fit
	}
	return o
}
