package framesync

import "github.com/samber/mo"

// seekRequest is a seek target plus the work to do once that seek has resolved.
type seekRequest struct {
	target float64
	then   func()
}

// coalescer keeps at most one seek in flight. Requests made while busy collapse
// into a single pending slot where the newest request wins.
//
// It holds no lock of its own; the synchronizer serializes every call.
type coalescer struct {
	issue func(seekRequest)

	inFlight   bool
	pending    mo.Option[seekRequest]
	superseded int
}

func newCoalescer(issue func(seekRequest)) *coalescer {
	return &coalescer{issue: issue}
}

// request starts req immediately when idle, otherwise parks it as the pending seek.
// A parked request replaces any earlier pending one together with its continuation.
func (c *coalescer) request(req seekRequest) {
	if !c.inFlight {
		c.inFlight = true
		c.issue(req)
		return
	}

	if c.pending.IsPresent() {
		c.superseded++
	}
	c.pending = mo.Some(req)
}

// complete marks the in-flight seek resolved and starts the pending one, if any.
func (c *coalescer) complete() {
	next, ok := c.pending.Get()
	c.pending = mo.None[seekRequest]()

	if !ok {
		c.inFlight = false
		return
	}

	c.issue(next)
}

func (c *coalescer) busy() bool {
	return c.inFlight
}

func (c *coalescer) pendingTarget() mo.Option[float64] {
	req, ok := c.pending.Get()
	if !ok {
		return mo.None[float64]()
	}
	return mo.Some(req.target)
}

// reset forgets every request. Seeks already handed to issue are not recalled.
func (c *coalescer) reset() {
	c.inFlight = false
	c.pending = mo.None[seekRequest]()
}
