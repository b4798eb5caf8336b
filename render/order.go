package render

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Order decides which frames are visited, and in what sequence, for a composition of total frames.
type Order interface {
	Frames(total int) []int
	String() string
}

type sequential struct{}

func (sequential) Frames(total int) []int {
	return lo.Range(total)
}

func (sequential) String() string { return "sequential" }

type reverse struct{}

func (reverse) Frames(total int) []int {
	frames := lo.Range(total)
	slices.Reverse(frames)
	return frames
}

func (reverse) String() string { return "reverse" }

// scrub mixes short forward runs with random jumps, like a user dragging a timeline.
type scrub struct {
	seed uint64
}

// maxRun bounds the length of one forward run in a scrub.
const maxRun = 30

func (s scrub) Frames(total int) []int {
	if total <= 0 {
		return nil
	}

	r := rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
	frames := make([]int, 0, total)

	for len(frames) < total {
		start := r.IntN(total)
		run := 1 + r.IntN(min(maxRun, total))
		for f := start; f < total && f < start+run && len(frames) < total; f++ {
			frames = append(frames, f)
		}
	}

	return frames
}

func (s scrub) String() string { return fmt.Sprintf("scrub(seed=%d)", s.seed) }

// span is an inclusive frame range written as "a-b" or a single frame "a".
type span struct {
	from, to int
}

// explicit visits listed frames and ranges in the order given. Frames past the end are skipped.
type explicit struct {
	spans []span
}

func (e explicit) Frames(total int) []int {
	var frames []int
	for _, s := range e.spans {
		step := 1
		if s.to < s.from {
			step = -1
		}
		for f := s.from; ; f += step {
			if f < total {
				frames = append(frames, f)
			}
			if f == s.to {
				break
			}
		}
	}
	return frames
}

func (e explicit) String() string {
	parts := lo.Map(e.spans, func(s span, _ int) string {
		if s.from == s.to {
			return strconv.Itoa(s.from)
		}
		return fmt.Sprintf("%d-%d", s.from, s.to)
	})
	return strings.Join(parts, ",")
}

// ParseOrder accepts "sequential", "reverse", "scrub" or a list such as "0-29,10,11-20".
// seed only affects "scrub".
func ParseOrder(s string, seed uint64) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequential":
		return sequential{}, nil
	case "reverse":
		return reverse{}, nil
	case "scrub":
		return scrub{seed: seed}, nil
	}

	var spans []span
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		from, to, isRange := strings.Cut(part, "-")
		a, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil || a < 0 {
			return nil, fmt.Errorf("invalid frame %q in order %q", part, s)
		}

		b := a
		if isRange {
			b, err = strconv.Atoi(strings.TrimSpace(to))
			if err != nil || b < 0 {
				return nil, fmt.Errorf("invalid frame range %q in order %q", part, s)
			}
		}

		spans = append(spans, span{from: a, to: b})
	}

	if len(spans) == 0 {
		return nil, fmt.Errorf("unknown order %q, available: sequential, reverse, scrub, or a frame list like 0-29,10", s)
	}

	return explicit{spans: spans}, nil
}
