// Package timeline places resolved audio segments on a frame-accurate
// sequence. Clips are laid end to end from frame zero; scene boundaries
// push the cursor forward by the configured lead-in so a cut lands before
// the narration resumes.
package timeline

import (
	"fmt"
	"log/slog"

	"cuealign/internal/audioseg"
	"cuealign/internal/faults"
	"cuealign/internal/logging"
	"cuealign/internal/timecode"
)

// Slot is one caption window inside an entry, in absolute sequence
// milliseconds. Source is the input caption index the text came from.
type Slot struct {
	StartMS int64
	EndMS   int64
	Text    string
	Source  int
}

// Entry is one placed clip. Frame positions are derived from cumulative
// audio milliseconds plus silent frames, never from summing per-clip
// rounded durations. Slots stay empty until allocation fills them.
type Entry struct {
	Segment      audioseg.Segment
	StartFrame   int64
	EndFrame     int64
	StartMS      int64
	EndMS        int64
	SceneStart   bool
	LeadInFrames int64
	Slots        []Slot
}

// DurationFrames returns the placed clip length in frames.
func (e Entry) DurationFrames() int64 {
	return e.EndFrame - e.StartFrame
}

// Timeline is a finalized sequence of placed entries.
type Timeline struct {
	Rate        timecode.Rate
	Entries     []Entry
	TotalFrames int64
}

// Summary aggregates headline figures for logs and tables.
type Summary struct {
	Entries     int
	Scenes      int
	TotalFrames int64
	TotalSec    float64
	SilentSec   float64
}

// Summarize computes the timeline summary.
func (t *Timeline) Summarize() Summary {
	s := Summary{
		Entries:     len(t.Entries),
		TotalFrames: t.TotalFrames,
		TotalSec:    t.Rate.SecondsFromFrames(t.TotalFrames),
	}
	var audioMS int64
	for _, e := range t.Entries {
		if e.SceneStart {
			s.Scenes++
		}
		audioMS += e.Segment.DurationMS
	}
	s.SilentSec = s.TotalSec - float64(audioMS)/1000
	if s.SilentSec < 0 {
		s.SilentSec = 0
	}
	return s
}

type state int

const (
	statePristine state = iota
	stateAccumulating
	stateFinalized
)

// Options configures a Calculator.
type Options struct {
	SceneLeadInSec float64
	ClipGapFrames  int64
}

// Calculator accumulates segments into a timeline. Add after Finalize is
// a programming error and fails loudly.
type Calculator struct {
	rate         timecode.Rate
	leadInFrames int64
	clipGap      int64
	logger       *slog.Logger

	state      state
	audioMS    int64 // cumulative measured audio
	sillFrames int64 // cumulative silent frames (lead-ins, gaps)
	entries    []Entry
}

// NewCalculator constructs a Calculator for one run.
func NewCalculator(rate timecode.Rate, opts Options, logger *slog.Logger) *Calculator {
	return &Calculator{
		rate:         rate,
		leadInFrames: rate.FramesFromSeconds(opts.SceneLeadInSec),
		clipGap:      opts.ClipGapFrames,
		logger:       logging.NewComponentLogger(logger, "timeline"),
	}
}

// Add places the next segment. A scene start inserts the lead-in gap
// before the clip unless it is the first clip on the timeline.
func (c *Calculator) Add(segment audioseg.Segment, sceneStart bool) error {
	if c.state == stateFinalized {
		return faults.Wrap(faults.ErrConfiguration, "timeline", "add",
			fmt.Sprintf("segment %d added after finalize", segment.Index), nil)
	}

	var leadIn int64
	if sceneStart && c.state != statePristine {
		leadIn = c.leadInFrames
	}
	if c.state == stateAccumulating {
		c.sillFrames += c.clipGap
	}
	c.sillFrames += leadIn
	c.state = stateAccumulating

	start := c.rate.FramesFromMillis(c.audioMS) + c.sillFrames
	c.audioMS += segment.DurationMS
	end := c.rate.FramesFromMillis(c.audioMS) + c.sillFrames

	segment.SceneStart = sceneStart
	segment.LeadInFrames = leadIn
	c.entries = append(c.entries, Entry{
		Segment:      segment,
		StartFrame:   start,
		EndFrame:     end,
		StartMS:      c.rate.MillisFromFrames(start),
		EndMS:        c.rate.MillisFromFrames(end),
		SceneStart:   sceneStart,
		LeadInFrames: leadIn,
	})
	return nil
}

// Finalize seals the timeline and returns it. An empty timeline is fatal:
// downstream writers have nothing to emit.
func (c *Calculator) Finalize() (*Timeline, error) {
	if c.state == statePristine {
		return nil, faults.Wrap(faults.ErrEmptyInput, "timeline", "finalize", "no segments placed", nil)
	}
	c.state = stateFinalized

	t := &Timeline{
		Rate:        c.rate,
		Entries:     c.entries,
		TotalFrames: c.entries[len(c.entries)-1].EndFrame,
	}
	summary := t.Summarize()
	c.logger.Info("timeline finalized", logging.Args(
		logging.Int("entries", summary.Entries),
		logging.Int("scenes", summary.Scenes),
		logging.Int64("total_frames", summary.TotalFrames),
		logging.Float64("total_sec", summary.TotalSec),
	)...)
	return t, nil
}

// Build is the common path: place every segment using the scene flags and
// finalize. segments and sceneStarts must be the same length.
func Build(rate timecode.Rate, opts Options, segments []audioseg.Segment, sceneStarts []bool, logger *slog.Logger) (*Timeline, error) {
	if len(sceneStarts) != len(segments) {
		return nil, faults.Wrap(faults.ErrConfiguration, "timeline", "build",
			fmt.Sprintf("%d scene flags for %d segments", len(sceneStarts), len(segments)), nil)
	}
	calc := NewCalculator(rate, opts, logger)
	for i, segment := range segments {
		if err := calc.Add(segment, sceneStarts[i]); err != nil {
			return nil, err
		}
	}
	return calc.Finalize()
}
