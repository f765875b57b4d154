package timeline

import (
	"errors"
	"testing"

	"cuealign/internal/audioseg"
	"cuealign/internal/faults"
	"cuealign/internal/logging"
	"cuealign/internal/timecode"
)

func ntscRate(t *testing.T) timecode.Rate {
	t.Helper()
	rate, err := timecode.New(30, true, true)
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	return rate
}

func segs(durationsMS ...int64) []audioseg.Segment {
	out := make([]audioseg.Segment, len(durationsMS))
	for i, d := range durationsMS {
		out[i] = audioseg.Segment{Index: i + 1, DurationMS: d, SampleRate: 24000}
	}
	return out
}

func TestBuildPlacesClipsSequentially(t *testing.T) {
	rate := ntscRate(t)
	tl, err := Build(rate, Options{SceneLeadInSec: 3.0}, segs(4000, 3000, 3500),
		[]bool{true, false, true}, logging.NewNop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := []struct{ start, end, leadIn int64 }{
		{0, 120, 0},    // first clip never gets a lead-in
		{120, 210, 0},  // butt cut
		{300, 405, 90}, // 3.0s lead-in at 29.97 = 90 frames
	}
	for i, w := range want {
		e := tl.Entries[i]
		if e.StartFrame != w.start || e.EndFrame != w.end {
			t.Errorf("entry %d: frames [%d,%d), want [%d,%d)", i, e.StartFrame, e.EndFrame, w.start, w.end)
		}
		if e.LeadInFrames != w.leadIn {
			t.Errorf("entry %d: lead-in = %d, want %d", i, e.LeadInFrames, w.leadIn)
		}
	}
	if tl.TotalFrames != 405 {
		t.Errorf("total frames = %d, want 405", tl.TotalFrames)
	}
}

func TestBuildClipGap(t *testing.T) {
	rate := ntscRate(t)
	tl, err := Build(rate, Options{SceneLeadInSec: 3.0, ClipGapFrames: 2}, segs(4000, 3000, 3500),
		[]bool{true, false, true}, logging.NewNop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	wantStarts := []int64{0, 122, 304}
	for i, w := range wantStarts {
		if tl.Entries[i].StartFrame != w {
			t.Errorf("entry %d: start = %d, want %d", i, tl.Entries[i].StartFrame, w)
		}
	}
	if tl.TotalFrames != 409 {
		t.Errorf("total frames = %d, want 409", tl.TotalFrames)
	}
}

func TestBuildNoCumulativeDrift(t *testing.T) {
	rate := ntscRate(t)
	const n = 500
	durations := make([]int64, n)
	flags := make([]bool, n)
	var totalMS int64
	for i := range durations {
		durations[i] = 333
		totalMS += 333
	}
	tl, err := Build(rate, Options{}, segs(durations...), flags, logging.NewNop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got, want := tl.TotalFrames, rate.FramesFromMillis(totalMS); got != want {
		t.Errorf("total frames = %d, want %d (drift must stay under one frame)", got, want)
	}
}

func TestSceneMarkerShiftsSubsequentEntries(t *testing.T) {
	rate := ntscRate(t)
	durations := make([]int64, 10)
	for i := range durations {
		durations[i] = 2000
	}
	plain := make([]bool, 10)
	marked := make([]bool, 10)
	marked[4] = true

	base, err := Build(rate, Options{SceneLeadInSec: 3.0}, segs(durations...), plain, logging.NewNop())
	if err != nil {
		t.Fatalf("Build base: %v", err)
	}
	shifted, err := Build(rate, Options{SceneLeadInSec: 3.0}, segs(durations...), marked, logging.NewNop())
	if err != nil {
		t.Fatalf("Build marked: %v", err)
	}

	leadIn := rate.FramesFromSeconds(3.0)
	for i := range base.Entries {
		wantShift := int64(0)
		if i >= 4 {
			wantShift = leadIn
		}
		got := shifted.Entries[i].StartFrame - base.Entries[i].StartFrame
		if got != wantShift {
			t.Errorf("entry %d: start shifted by %d frames, want %d", i, got, wantShift)
		}
	}
}

func TestSummarize(t *testing.T) {
	rate := ntscRate(t)
	tl, err := Build(rate, Options{SceneLeadInSec: 3.0}, segs(4000, 3000, 3500),
		[]bool{true, false, true}, logging.NewNop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := tl.Summarize()
	if s.Entries != 3 || s.Scenes != 2 {
		t.Errorf("summary = %+v, want 3 entries and 2 scenes", s)
	}
	if s.SilentSec <= 0 {
		t.Errorf("silent time = %v, want > 0 with one lead-in placed", s.SilentSec)
	}
}

func TestAddAfterFinalize(t *testing.T) {
	calc := NewCalculator(ntscRate(t), Options{}, logging.NewNop())
	if err := calc.Add(audioseg.Segment{Index: 1, DurationMS: 1000}, false); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := calc.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if err := calc.Add(audioseg.Segment{Index: 2, DurationMS: 1000}, false); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration after finalize, got %v", err)
	}
}

func TestFinalizeEmpty(t *testing.T) {
	calc := NewCalculator(ntscRate(t), Options{}, logging.NewNop())
	if _, err := calc.Finalize(); !errors.Is(err, faults.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestBuildFlagCountMismatch(t *testing.T) {
	_, err := Build(ntscRate(t), Options{}, segs(1000, 1000), []bool{true}, logging.NewNop())
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
