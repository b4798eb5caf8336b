// Package framesync keeps a playback handle showing exactly the frame a renderer is about to capture.
//
// The renderer reports every frame it visits through Tick. While frames advance one by one
// the player is left to run on its own clock; any other movement pauses the player and
// forces an exact seek. Seeks are serialized and coalesced so that the player only ever
// lands on the most recently requested position.
package framesync

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/castsync/castsync/log"
	"github.com/castsync/castsync/player"
	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

// disposeGrace bounds how long Unmount waits for a running player call before disposing.
const disposeGrace = time.Second

// Synchronizer owns one mounted player handle and the sync state that drives it.
type Synchronizer struct {
	id     string
	config Config
	tuning Tuning
	logger *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc

	handle   player.Handle
	dispatch *dispatcher
	polling  chan struct{} // closed when awaitReady returns

	mu        sync.Mutex
	state     State
	seeks     *coalescer
	fps       float64
	epoch     uint64
	disposed  bool
	abandoned bool // readiness will never arrive
	stats     Stats
	changed   chan struct{}
}

// Mount creates a handle for cfg through factory and starts waiting for it to become ready.
// It never fails: a handle that cannot be created leaves the synchronizer permanently
// unready, and every later tick is ignored.
func Mount(ctx context.Context, factory player.Factory, target player.Surface, cfg Config, opts ...Option) *Synchronizer {
	tuning := DefaultTuning()
	for _, opt := range opts {
		opt(&tuning)
	}

	id := uuid.NewString()
	s := &Synchronizer{
		id:      id,
		config:  cfg,
		tuning:  tuning,
		logger:  log.WithSession(id).WithField("source", cfg.Source),
		changed: make(chan struct{}),
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.seeks = newCoalescer(s.issueSeek)
	s.dispatch = newDispatcher(s.broadcast)

	handle, err := factory(cfg.Source, target, cfg.options())
	if err != nil {
		s.logger.WithError(err).Error("create player")
		s.abandoned = true
		return s
	}

	s.handle = handle
	s.logger.Debug("player mounted")

	s.polling = make(chan struct{})
	go s.dispatch.run(s.ctx)
	go func() {
		defer close(s.polling)
		s.awaitReady()
	}()

	return s
}

// ID identifies this mount in log entries.
func (s *Synchronizer) ID() string {
	return s.id
}

// Config returns the configuration the handle was built from.
func (s *Synchronizer) Config() Config {
	return s.config
}

// Tick reports that the renderer is at frame, running at fps frames per second.
// It never blocks on the player; any player calls it decides on run in the background.
// Leaving PLAYING always re-seeks, whatever the tolerance, since the player clock has moved.
func (s *Synchronizer) Tick(frame int, fps float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}

	s.stats.Ticks++
	previous := s.state.LastFrameIndex
	s.state.LastFrameIndex = mo.Some(frame)
	if fps > 0 {
		s.fps = fps
	}

	if !s.state.Ready {
		return
	}

	if s.fps <= 0 {
		s.logger.WithField("fps", fps).Debug("tick without frame rate")
		return
	}

	target := float64(frame) / s.fps

	switch Classify(previous, frame) {
	case Continuous:
		if s.state.Mode == Playing {
			return
		}

		s.state.Mode = Playing
		s.epoch++
		epoch := s.epoch
		s.seeks.request(seekRequest{
			target: target,
			then:   func() { s.schedulePlay(epoch) },
		})

	case Discontinuous:
		// The player has been running on its own clock, so the last confirmed
		// position says nothing about where it is now.
		force := s.state.Mode == Playing

		if s.state.Mode == Playing {
			s.state.Mode = Paused
			s.epoch++
			s.schedulePause(nil)
		}

		if force || s.needsSeek(target) {
			s.seeks.request(seekRequest{target: target})
		}
	}
}

// needsSeek reports whether target is outside the tolerance window around the last confirmed seek.
func (s *Synchronizer) needsSeek(target float64) bool {
	confirmed, ok := s.state.LastConfirmedSeekTime.Get()
	if !ok {
		return true
	}
	return math.Abs(target-confirmed) > s.tuning.tolerance(s.fps)
}

// awaitReady polls the handle's duration until it is known, then aligns the player.
func (s *Synchronizer) awaitReady() {
	ticker := time.NewTicker(s.tuning.PollInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		if s.isDisposed() {
			return
		}

		duration, err := s.handle.Duration(s.ctx)
		switch {
		case errors.Is(err, player.ErrUnsupported):
			s.logger.Debug("player cannot report duration, assuming ready")
			s.align(0)
			return
		case err != nil:
			s.logger.WithError(err).WithField("attempt", attempt).Debug("duration not available")
		case duration > 0 && !math.IsNaN(duration) && !math.IsInf(duration, 0):
			s.align(duration)
			return
		}

		if s.tuning.MaxPolls > 0 && attempt >= s.tuning.MaxPolls {
			s.logger.WithField("attempts", attempt).Warn("player never became ready")
			s.mu.Lock()
			s.abandoned = true
			s.broadcastLocked()
			s.mu.Unlock()
			return
		}

		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// align seeks to the frame known right now, pauses, and only then marks the synchronizer ready.
// Frames reported while aligning are caught up with one more exact seek.
func (s *Synchronizer) align(duration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || s.state.Ready {
		return
	}

	frame := s.state.LastFrameIndex.OrElse(0)
	target := 0.0
	if s.fps > 0 {
		target = float64(frame) / s.fps
	}

	s.logger.WithFields(logrus.Fields{"duration": duration, "frame": frame}).Debug("player ready, aligning")

	s.seeks.request(seekRequest{
		target: target,
		then: func() {
			s.schedulePause(func() {
				s.state.Ready = true
				s.state.Mode = Paused
				s.logger.Info("player aligned")

				current, ok := s.state.LastFrameIndex.Get()
				if ok && current != frame && s.fps > 0 {
					s.seeks.request(seekRequest{target: float64(current) / s.fps})
				}
			})
		},
	})
}

// issueSeek hands a seek to the dispatcher. Called by the coalescer with s.mu held.
func (s *Synchronizer) issueSeek(req seekRequest) {
	s.dispatch.enqueue("seek", func(ctx context.Context) {
		err := s.handle.Seek(ctx, req.target)

		s.mu.Lock()
		defer s.mu.Unlock()

		if s.disposed {
			return
		}

		s.stats.Seeks++
		switch {
		case err == nil, errors.Is(err, player.ErrUnsupported):
			s.state.LastConfirmedSeekTime = mo.Some(req.target)
		default:
			s.logger.WithError(err).WithField("target", req.target).Warn("seek failed")
		}

		s.seeks.complete()
		if req.then != nil {
			req.then()
		}
	})
}

// schedulePlay starts playback unless the mode changed since the play was decided on.
func (s *Synchronizer) schedulePlay(epoch uint64) {
	s.dispatch.enqueue("play", func(ctx context.Context) {
		s.mu.Lock()
		current := !s.disposed && s.state.Mode == Playing && s.epoch == epoch
		s.mu.Unlock()

		if !current {
			return
		}

		err := s.handle.Play(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.disposed {
			return
		}
		s.stats.Plays++
		s.report("play", err)
	})
}

// schedulePause pauses the player and then runs after with s.mu held.
func (s *Synchronizer) schedulePause(after func()) {
	s.dispatch.enqueue("pause", func(ctx context.Context) {
		err := s.handle.Pause(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.disposed {
			return
		}
		s.stats.Pauses++
		s.report("pause", err)

		if after != nil {
			after()
		}
	})
}

func (s *Synchronizer) report(operation string, err error) {
	if err == nil || errors.Is(err, player.ErrUnsupported) {
		return
	}
	s.logger.WithError(err).Warnf("%s failed", operation)
}

func (s *Synchronizer) isDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

func (s *Synchronizer) broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcastLocked()
}

func (s *Synchronizer) broadcastLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

// settled reports whether no further player call is expected without a new tick.
func (s *Synchronizer) settled() bool {
	if s.disposed || s.abandoned {
		return true
	}
	return s.state.Ready && !s.seeks.busy() && !s.dispatch.pending()
}

// Settle blocks until the player is ready and every scheduled call has completed,
// or the synchronizer can make no further progress.
func (s *Synchronizer) Settle(ctx context.Context) error {
	for {
		s.mu.Lock()
		done := s.settled()
		wait := s.changed
		s.mu.Unlock()

		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wait:
		}
	}
}

// Ready reports whether the initial alignment has completed.
func (s *Synchronizer) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Ready
}

// State returns a snapshot of the sync state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state
	state.SeekInFlight = s.seeks.busy()
	state.PendingSeekTarget = s.seeks.pendingTarget()
	return state
}

// Stats returns how many player calls have been made so far.
func (s *Synchronizer) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.stats
	stats.Superseded = s.seeks.superseded
	return stats
}

// Unmount abandons all pending work and disposes the handle. Dispose errors are logged and dropped.
func (s *Synchronizer) Unmount() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	s.seeks.reset()
	s.broadcastLocked()
	s.mu.Unlock()

	s.cancel()

	if s.handle == nil {
		return
	}

	grace := time.NewTimer(disposeGrace)
	defer grace.Stop()

wait:
	for _, idle := range []<-chan struct{}{s.dispatch.done, s.polling} {
		select {
		case <-idle:
		case <-grace.C:
			s.logger.Warn("player call still running at unmount")
			break wait
		}
	}

	if err := s.handle.Dispose(); err != nil {
		s.logger.WithError(err).Warn("dispose player")
	}
	s.logger.Debug("player unmounted")
}
