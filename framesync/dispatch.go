package framesync

import (
	"context"
	"sync"
)

// op is one player call executed by the dispatcher.
type op struct {
	name string
	run  func(ctx context.Context)
}

// dispatcher runs player calls one at a time, in the order they were enqueued.
// Enqueue never blocks, so the caller can hold its own lock while scheduling.
type dispatcher struct {
	mu      sync.Mutex
	queue   []op
	running bool
	wake    chan struct{}
	done    chan struct{}

	// idle is called, without any dispatcher lock held, after each op returns.
	idle func()
}

func newDispatcher(idle func()) *dispatcher {
	return &dispatcher{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		idle: idle,
	}
}

func (d *dispatcher) enqueue(name string, run func(ctx context.Context)) {
	d.mu.Lock()
	d.queue = append(d.queue, op{name: name, run: run})
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// pending reports whether any op is queued or running.
func (d *dispatcher) pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running || len(d.queue) > 0
}

func (d *dispatcher) next() (op, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.queue) == 0 {
		return op{}, false
	}

	o := d.queue[0]
	d.queue[0] = op{}
	d.queue = d.queue[1:]
	d.running = true
	return o, true
}

func (d *dispatcher) finish() {
	d.mu.Lock()
	d.running = false
	d.mu.Unlock()

	if d.idle != nil {
		d.idle()
	}
}

// run executes queued ops until ctx is cancelled. Ops still queued at that point are dropped.
func (d *dispatcher) run(ctx context.Context) {
	defer close(d.done)

	for {
		for {
			if ctx.Err() != nil {
				d.drop()
				return
			}

			o, ok := d.next()
			if !ok {
				break
			}

			o.run(ctx)
			d.finish()
		}

		select {
		case <-ctx.Done():
			d.drop()
			return
		case <-d.wake:
		}
	}
}

func (d *dispatcher) drop() {
	d.mu.Lock()
	d.queue = nil
	d.running = false
	d.mu.Unlock()
}
