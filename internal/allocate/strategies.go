package allocate

import (
	"sort"
	"strings"

	"cuealign/internal/captions"
	"cuealign/internal/textutil"
)

// similarityStrategy pins a prefix run of the pool to a window when the
// run's concatenated text reads like the window's narration. Windows are
// visited in order and the pool cursor only moves forward, so captions
// are never reordered.
type similarityStrategy struct {
	threshold float64
}

func (s *similarityStrategy) name() string { return "similarity" }

func (s *similarityStrategy) apply(pool []captions.Entry, windows []*window) ([]captions.Entry, int) {
	assigned := 0
	for _, w := range windows {
		if len(pool) == 0 {
			break
		}
		run := s.longestRun(pool, w.text)
		if run == 0 {
			continue
		}
		w.assigned = append(w.assigned, pool[:run]...)
		pool = pool[run:]
		assigned += run
	}
	return pool, assigned
}

// longestRun returns the length of the longest pool prefix whose joined
// text clears the threshold against the narration text, or 0.
func (s *similarityStrategy) longestRun(pool []captions.Entry, narration string) int {
	best := 0
	var joined strings.Builder
	for i, c := range pool {
		if joined.Len() > 0 {
			joined.WriteByte(' ')
		}
		joined.WriteString(c.Text)
		if textutil.Similarity(joined.String(), narration) >= s.threshold {
			best = i + 1
		}
		// A run much longer than the narration can only score worse.
		if joined.Len() > 2*len(narration)+16 {
			break
		}
	}
	return best
}

// proportionStrategy apportions the whole remaining pool across the
// still-empty windows by duration, using the largest-remainder method.
// It only acts when the pool can cover every empty window; smaller pools
// fall through to the round-robin tier.
type proportionStrategy struct{}

func (s *proportionStrategy) name() string { return "proportion" }

func (s *proportionStrategy) apply(pool []captions.Entry, windows []*window) ([]captions.Entry, int) {
	empty := emptyWindows(windows)
	if len(pool) == 0 || len(pool) < len(empty) || len(empty) == 0 {
		return pool, 0
	}

	counts := apportion(len(pool), empty)
	assigned := 0
	for i, w := range empty {
		n := counts[i]
		w.assigned = append(w.assigned, pool[:n]...)
		pool = pool[n:]
		assigned += n
	}
	return pool, assigned
}

// apportion splits total units across windows proportionally to duration:
// floor every raw share, then hand leftover units to the largest
// fractional remainders, earliest window first on ties. Every window ends
// with at least one unit when total >= len(windows).
func apportion(total int, windows []*window) []int {
	var totalDur int64
	for _, w := range windows {
		totalDur += w.durationMS
	}

	counts := make([]int, len(windows))
	type rem struct {
		idx  int
		frac float64
	}
	rems := make([]rem, len(windows))
	used := 0
	for i, w := range windows {
		share := float64(total) / float64(len(windows))
		if totalDur > 0 {
			share = float64(total) * float64(w.durationMS) / float64(totalDur)
		}
		counts[i] = int(share)
		rems[i] = rem{idx: i, frac: share - float64(counts[i])}
		used += counts[i]
	}

	sort.SliceStable(rems, func(a, b int) bool {
		if rems[a].frac != rems[b].frac {
			return rems[a].frac > rems[b].frac
		}
		return rems[a].idx < rems[b].idx
	})
	for i := 0; used < total; i = (i + 1) % len(rems) {
		counts[rems[i].idx]++
		used++
	}

	// Largest-remainder can floor a short window to zero; borrow from the
	// fullest window so coverage holds whenever the pool is big enough.
	if total >= len(windows) {
		for i := range counts {
			for counts[i] == 0 {
				richest := 0
				for j := range counts {
					if counts[j] > counts[richest] {
						richest = j
					}
				}
				counts[richest]--
				counts[i]++
			}
		}
	}
	return counts
}

// roundRobinStrategy deals whatever is left one caption per empty window
// in sequence order. With fewer captions than windows the latest windows
// deterministically starve; the allocator records that as a warning.
type roundRobinStrategy struct{}

func (s *roundRobinStrategy) name() string { return "round-robin" }

func (s *roundRobinStrategy) apply(pool []captions.Entry, windows []*window) ([]captions.Entry, int) {
	assigned := 0
	for _, w := range windows {
		if len(pool) == 0 {
			break
		}
		if len(w.assigned) == 0 {
			w.assigned = append(w.assigned, pool[0])
			pool = pool[1:]
			assigned++
		}
	}
	// Anything still left cycles across all windows in sequence order.
	for len(pool) > 0 {
		for _, w := range windows {
			if len(pool) == 0 {
				break
			}
			w.assigned = append(w.assigned, pool[0])
			pool = pool[1:]
			assigned++
		}
	}
	return pool, assigned
}

func emptyWindows(windows []*window) []*window {
	var out []*window
	for _, w := range windows {
		if len(w.assigned) == 0 {
			out = append(out, w)
		}
	}
	return out
}
