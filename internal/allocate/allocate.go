// Package allocate distributes caption entries across timeline windows.
// Three strategies run in order: text-similarity matching pins captions to
// the window whose narration they transcribe, proportional apportionment
// spreads the rest by window duration, and a round-robin pass handles the
// case of fewer captions than windows. Source order is preserved
// throughout; every tie breaks on the earliest sequence index.
package allocate

import (
	"fmt"
	"log/slog"

	"cuealign/internal/captions"
	"cuealign/internal/faults"
	"cuealign/internal/logging"
	"cuealign/internal/script"
	"cuealign/internal/timeline"
)

// Result reports where every caption went.
type Result struct {
	// TierCounts holds how many captions each strategy placed, in
	// strategy order: similarity, proportion, round-robin.
	TierCounts [3]int
	// PerWindow holds the assigned caption count per timeline entry.
	PerWindow []int
	// Warnings lists non-fatal allocation findings, one per starved
	// window.
	Warnings []string
}

// Assigned returns the total caption count placed across all tiers.
func (r *Result) Assigned() int {
	return r.TierCounts[0] + r.TierCounts[1] + r.TierCounts[2]
}

// window is the allocator's working view of one timeline entry.
type window struct {
	idx        int // position in the timeline entry list
	text       string
	durationMS int64
	assigned   []captions.Entry
}

// strategy consumes captions from the pool and pins them to windows.
// Implementations must be deterministic and must never reorder the pool.
type strategy interface {
	name() string
	apply(pool []captions.Entry, windows []*window) (remaining []captions.Entry, assigned int)
}

// Allocator runs the strategy chain over one timeline.
type Allocator struct {
	strategies []strategy
	logger     *slog.Logger
}

// New constructs an Allocator. threshold is the minimum similarity for a
// caption run to be pinned by the matching tier.
func New(threshold float64, logger *slog.Logger) *Allocator {
	return &Allocator{
		strategies: []strategy{
			&similarityStrategy{threshold: threshold},
			&proportionStrategy{},
			&roundRobinStrategy{},
		},
		logger: logging.NewComponentLogger(logger, "allocator"),
	}
}

// Allocate distributes the caption pool across the timeline's entries and
// fills each entry's slots. Narration segments supply the text the
// matching tier compares against and must align 1:1 with the entries.
func (a *Allocator) Allocate(tl *timeline.Timeline, segments []script.Segment, pool []captions.Entry) (*Result, error) {
	if len(pool) == 0 {
		return nil, faults.Wrap(faults.ErrEmptyInput, "allocate", "", "caption pool is empty", nil)
	}
	if len(segments) != len(tl.Entries) {
		return nil, faults.Wrap(faults.ErrConfiguration, "allocate", "",
			fmt.Sprintf("%d narration segments for %d timeline entries", len(segments), len(tl.Entries)), nil)
	}

	windows := make([]*window, len(tl.Entries))
	for i, entry := range tl.Entries {
		windows[i] = &window{
			idx:        i,
			text:       segments[i].Text,
			durationMS: entry.EndMS - entry.StartMS,
		}
	}

	result := &Result{PerWindow: make([]int, len(windows))}
	remaining := pool
	for i, s := range a.strategies {
		var assigned int
		remaining, assigned = s.apply(remaining, windows)
		result.TierCounts[i] = assigned
	}
	if len(remaining) != 0 {
		// The round-robin tier drains any pool; leftovers mean a
		// strategy broke its contract.
		return nil, faults.Wrap(faults.ErrConfiguration, "allocate", "",
			fmt.Sprintf("%d captions left unassigned", len(remaining)), nil)
	}

	for _, w := range windows {
		result.PerWindow[w.idx] = len(w.assigned)
		if len(w.assigned) == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("window %d received no captions", w.idx+1))
		}
		fillSlots(&tl.Entries[w.idx], w.assigned)
	}

	a.logger.Info("captions allocated", logging.Args(
		logging.Int("captions", len(pool)),
		logging.Int("windows", len(windows)),
		logging.Int("matched", result.TierCounts[0]),
		logging.Int("apportioned", result.TierCounts[1]),
		logging.Int("round_robin", result.TierCounts[2]),
		logging.Int("starved", len(result.Warnings)),
	)...)
	return result, nil
}

// fillSlots splits the entry's span into equal sub-intervals, one per
// assigned caption. The integer remainder goes to the earliest slots so
// the sub-intervals tile the window exactly.
func fillSlots(entry *timeline.Entry, assigned []captions.Entry) {
	entry.Slots = nil
	if len(assigned) == 0 {
		return
	}
	total := entry.EndMS - entry.StartMS
	width := total / int64(len(assigned))
	rem := total % int64(len(assigned))

	cursor := entry.StartMS
	for i, c := range assigned {
		span := width
		if int64(i) < rem {
			span++
		}
		entry.Slots = append(entry.Slots, timeline.Slot{
			StartMS: cursor,
			EndMS:   cursor + span,
			Text:    c.Text,
			Source:  c.Index,
		})
		cursor += span
	}
}
