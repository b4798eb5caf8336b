// Package tui provides the interactive scrubber: a frame counter the user drives by hand,
// synchronized onto a player exactly as a renderer would drive it.
package tui

type state int

const (
	loadingState state = iota
	scrubState
	errorState
)
