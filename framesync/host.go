package framesync

import (
	"context"
	"sync"

	"github.com/castsync/castsync/player"
)

// Host keeps one synchronizer mounted for the latest configuration it was given.
// Changing any configuration field unmounts the current player and mounts a new one.
type Host struct {
	ctx     context.Context
	factory player.Factory
	target  player.Surface
	options []Option

	updating sync.Mutex // serializes Update and Close

	mu      sync.Mutex
	current *Synchronizer
}

func NewHost(ctx context.Context, factory player.Factory, target player.Surface, opts ...Option) *Host {
	return &Host{
		ctx:     ctx,
		factory: factory,
		target:  target,
		options: opts,
	}
}

// Update mounts a player for cfg unless the current one was built from an equal config.
// It reports whether a remount happened.
// Ticks keep reaching the old synchronizer while the new player is created, and never
// wait on the old one's dispose.
func (h *Host) Update(cfg Config) bool {
	h.updating.Lock()
	defer h.updating.Unlock()

	previous := h.Current()
	if previous != nil && previous.Config() == cfg {
		return false
	}

	next := Mount(h.ctx, h.factory, h.target, cfg, h.options...)

	h.mu.Lock()
	h.current = next
	h.mu.Unlock()

	if previous != nil {
		previous.Unmount()
	}
	return true
}

// Tick forwards a frame to the mounted synchronizer, if any.
func (h *Host) Tick(frame int, fps float64) {
	if s := h.Current(); s != nil {
		s.Tick(frame, fps)
	}
}

// Settle waits for the mounted synchronizer to settle.
func (h *Host) Settle(ctx context.Context) error {
	if s := h.Current(); s != nil {
		return s.Settle(ctx)
	}
	return nil
}

// Current returns the mounted synchronizer, or nil before the first Update.
func (h *Host) Current() *Synchronizer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Close unmounts the current synchronizer.
func (h *Host) Close() {
	h.updating.Lock()
	defer h.updating.Unlock()

	h.mu.Lock()
	previous := h.current
	h.current = nil
	h.mu.Unlock()

	if previous != nil {
		previous.Unmount()
	}
}
