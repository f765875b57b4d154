// Package audioseg resolves rendered narration audio files to measured
// durations. One segment exists per narration index; a missing index is
// fatal because timeline arithmetic cannot tolerate gaps.
package audioseg

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"cuealign/internal/faults"
	"cuealign/internal/logging"
	"cuealign/internal/media/ffprobe"
)

// Segment is one rendered audio clip with a measured duration. SceneStart
// and LeadInFrames are filled by the timeline calculator.
type Segment struct {
	Index        int
	Path         string
	DurationMS   int64
	SampleRate   int
	SceneStart   bool
	LeadInFrames int64
}

// Filename returns the base name of the clip file.
func (s Segment) Filename() string {
	return filepath.Base(s.Path)
}

// Measurement is one probe result.
type Measurement struct {
	DurationMS int64
	SampleRate int
}

// Probe measures a rendered audio file. Implementations must return
// millisecond-precise durations read from the file, never estimates.
type Probe interface {
	Measure(ctx context.Context, path string) (Measurement, error)
}

// FFProbe measures files with the ffprobe binary.
type FFProbe struct {
	Binary string
}

// Measure implements Probe.
func (p FFProbe) Measure(ctx context.Context, path string) (Measurement, error) {
	result, err := ffprobe.Inspect(ctx, p.Binary, path)
	if err != nil {
		return Measurement{}, err
	}
	return Measurement{
		DurationMS: result.DurationMillis(),
		SampleRate: result.SampleRate(),
	}, nil
}

// Options configures a Resolver.
type Options struct {
	Dir         string // directory holding rendered clips
	Project     string // project name substituted into the pattern
	FilePattern string // printf pattern applied to (project, index)
	Workers     int    // concurrent probe limit
	SampleRate  int    // fallback when the probe reports none
}

// Resolver locates and measures the rendered clip for each narration index.
type Resolver struct {
	opts   Options
	probe  Probe
	logger *slog.Logger
}

// NewResolver constructs a Resolver around an injected probe capability.
func NewResolver(opts Options, probe Probe, logger *slog.Logger) *Resolver {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Resolver{opts: opts, probe: probe, logger: logging.NewComponentLogger(logger, "audio-resolver")}
}

// Resolve locates files for indices 1..count and probes them all. Probes
// fan out across a bounded worker group and join before returning, so the
// caller always receives the complete ordered list. The first missing
// index or failed probe aborts the whole resolution.
func (r *Resolver) Resolve(ctx context.Context, count int) ([]Segment, error) {
	if count <= 0 {
		return nil, faults.Wrap(faults.ErrEmptyInput, "resolve", "", "no narration segments to resolve", nil)
	}

	segments := make([]Segment, count)
	for i := 0; i < count; i++ {
		index := i + 1
		path := filepath.Join(r.opts.Dir, fmt.Sprintf(r.opts.FilePattern, r.opts.Project, index))
		if _, err := os.Stat(path); err != nil {
			return nil, faults.Wrap(faults.ErrMissingAudio, "resolve", "locate",
				fmt.Sprintf("segment %d: expected file %s", index, path), err)
		}
		segments[i] = Segment{Index: index, Path: path}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.opts.Workers)
	for i := range segments {
		i := i
		group.Go(func() error {
			seg := &segments[i]
			m, err := r.probe.Measure(groupCtx, seg.Path)
			if err != nil {
				return faults.Wrap(faults.ErrExternalTool, "resolve", "probe",
					fmt.Sprintf("segment %d (%s)", seg.Index, seg.Filename()), err)
			}
			if m.DurationMS <= 0 {
				return faults.Wrap(faults.ErrExternalTool, "resolve", "probe",
					fmt.Sprintf("segment %d (%s): zero duration", seg.Index, seg.Filename()), nil)
			}
			seg.DurationMS = m.DurationMS
			seg.SampleRate = m.SampleRate
			if seg.SampleRate <= 0 {
				seg.SampleRate = r.opts.SampleRate
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var totalMS int64
	for _, seg := range segments {
		totalMS += seg.DurationMS
	}
	r.logger.Info("audio segments resolved",
		logging.Args(logging.Int("segments", count), logging.Float64("total_sec", float64(totalMS)/1000))...)

	return segments, nil
}
