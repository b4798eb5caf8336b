package framesync

import "github.com/samber/mo"

// Mode is whether the player is trusted to free-run.
type Mode int

const (
	Paused Mode = iota
	Playing
)

func (m Mode) String() string {
	if m == Playing {
		return "playing"
	}
	return "paused"
}

// State is a snapshot of a synchronizer.
type State struct {
	Ready                 bool
	Mode                  Mode
	LastFrameIndex        mo.Option[int]
	LastConfirmedSeekTime mo.Option[float64]
	PendingSeekTarget     mo.Option[float64]
	SeekInFlight          bool
}

// Stats counts the player operations a synchronizer performed.
type Stats struct {
	Ticks      int
	Seeks      int
	Plays      int
	Pauses     int
	Superseded int
}
