package audioseg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"cuealign/internal/faults"
	"cuealign/internal/logging"
)

type fakeProbe struct {
	mu       sync.Mutex
	calls    []string
	byPath   map[string]Measurement
	failPath string
}

func (p *fakeProbe) Measure(_ context.Context, path string) (Measurement, error) {
	p.mu.Lock()
	p.calls = append(p.calls, path)
	p.mu.Unlock()
	if p.failPath != "" && strings.HasSuffix(path, p.failPath) {
		return Measurement{}, errors.New("corrupt header")
	}
	if m, ok := p.byPath[filepath.Base(path)]; ok {
		return m, nil
	}
	return Measurement{DurationMS: 5000, SampleRate: 24000}, nil
}

func writeClips(t *testing.T, dir, project string, count int) {
	t.Helper()
	for i := 1; i <= count; i++ {
		name := fmt.Sprintf("%s_%03d.mp3", project, i)
		if err := os.WriteFile(filepath.Join(dir, name), []byte("audio"), 0o644); err != nil {
			t.Fatalf("write clip: %v", err)
		}
	}
}

func testOptions(dir string) Options {
	return Options{
		Dir:         dir,
		Project:     "orion",
		FilePattern: "%s_%03d.mp3",
		Workers:     4,
		SampleRate:  24000,
	}
}

func TestResolveOrderedSegments(t *testing.T) {
	dir := t.TempDir()
	writeClips(t, dir, "orion", 3)

	probe := &fakeProbe{byPath: map[string]Measurement{
		"orion_001.mp3": {DurationMS: 4000, SampleRate: 44100},
		"orion_002.mp3": {DurationMS: 3000, SampleRate: 44100},
		"orion_003.mp3": {DurationMS: 3500, SampleRate: 44100},
	}}
	resolver := NewResolver(testOptions(dir), probe, logging.NewNop())

	segments, err := resolver.Resolve(context.Background(), 3)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	wantMS := []int64{4000, 3000, 3500}
	for i, seg := range segments {
		if seg.Index != i+1 {
			t.Errorf("segment %d: index = %d, want %d", i, seg.Index, i+1)
		}
		if seg.DurationMS != wantMS[i] {
			t.Errorf("segment %d: duration = %d, want %d", i, seg.DurationMS, wantMS[i])
		}
		if seg.SampleRate != 44100 {
			t.Errorf("segment %d: sample rate = %d, want 44100", i, seg.SampleRate)
		}
	}
}

func TestResolveMissingFileFailsFast(t *testing.T) {
	dir := t.TempDir()
	writeClips(t, dir, "orion", 2)
	// index 3 never rendered

	probe := &fakeProbe{}
	resolver := NewResolver(testOptions(dir), probe, logging.NewNop())

	_, err := resolver.Resolve(context.Background(), 4)
	if !errors.Is(err, faults.ErrMissingAudio) {
		t.Fatalf("expected ErrMissingAudio, got %v", err)
	}
	if !strings.Contains(err.Error(), "segment 3") {
		t.Errorf("error should name the first missing index: %v", err)
	}
	if len(probe.calls) != 0 {
		t.Errorf("no probes should run when a file is missing, got %d", len(probe.calls))
	}
}

func TestResolveProbeFailureAborts(t *testing.T) {
	dir := t.TempDir()
	writeClips(t, dir, "orion", 3)

	probe := &fakeProbe{failPath: "orion_002.mp3"}
	resolver := NewResolver(testOptions(dir), probe, logging.NewNop())

	_, err := resolver.Resolve(context.Background(), 3)
	if !errors.Is(err, faults.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if !strings.Contains(err.Error(), "orion_002.mp3") {
		t.Errorf("error should name the failing clip: %v", err)
	}
}

func TestResolveZeroDurationRejected(t *testing.T) {
	dir := t.TempDir()
	writeClips(t, dir, "orion", 1)

	probe := &fakeProbe{byPath: map[string]Measurement{
		"orion_001.mp3": {DurationMS: 0, SampleRate: 24000},
	}}
	resolver := NewResolver(testOptions(dir), probe, logging.NewNop())

	_, err := resolver.Resolve(context.Background(), 1)
	if !errors.Is(err, faults.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool for zero duration, got %v", err)
	}
}

func TestResolveFallbackSampleRate(t *testing.T) {
	dir := t.TempDir()
	writeClips(t, dir, "orion", 1)

	probe := &fakeProbe{byPath: map[string]Measurement{
		"orion_001.mp3": {DurationMS: 2000, SampleRate: 0},
	}}
	resolver := NewResolver(testOptions(dir), probe, logging.NewNop())

	segments, err := resolver.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if segments[0].SampleRate != 24000 {
		t.Errorf("sample rate = %d, want fallback 24000", segments[0].SampleRate)
	}
}

func TestResolveZeroCount(t *testing.T) {
	resolver := NewResolver(testOptions(t.TempDir()), &fakeProbe{}, logging.NewNop())
	_, err := resolver.Resolve(context.Background(), 0)
	if !errors.Is(err, faults.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}
