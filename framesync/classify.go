package framesync

import "github.com/samber/mo"

// Verdict is the result of comparing a frame index with the one before it.
type Verdict int

const (
	// Discontinuous covers first observations, repeats, rewinds and jumps.
	Discontinuous Verdict = iota
	// Continuous means the frame is exactly one past the previous one.
	Continuous
)

func (v Verdict) String() string {
	if v == Continuous {
		return "continuous"
	}
	return "discontinuous"
}

// Classify reports whether current directly follows previous.
func Classify(previous mo.Option[int], current int) Verdict {
	if p, ok := previous.Get(); ok && current-p == 1 {
		return Continuous
	}
	return Discontinuous
}
