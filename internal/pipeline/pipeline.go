// Package pipeline orchestrates one alignment run: parse inputs, resolve
// audio, place the timeline, allocate captions, write outputs, validate.
// Fatal error classes abort before anything is written; allocation
// fallbacks and validation failures are recorded and the outputs stay on
// disk for inspection.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"cuealign/internal/allocate"
	"cuealign/internal/audioseg"
	"cuealign/internal/captions"
	"cuealign/internal/config"
	"cuealign/internal/faults"
	"cuealign/internal/fileutil"
	"cuealign/internal/logging"
	"cuealign/internal/outline"
	"cuealign/internal/script"
	"cuealign/internal/timeline"
	"cuealign/internal/validate"
	"cuealign/internal/writers"
)

// Outputs holds the paths of everything a run writes.
type Outputs struct {
	Captions string
	Record   string
	Exchange string
	Report   string
}

// Outcome is the result of one completed run.
type Outcome struct {
	Project    string
	Script     script.Script
	Timeline   *timeline.Timeline
	Allocation *allocate.Result
	Report     *validate.Report
	Outputs    Outputs
	// ParseWarnings carries non-fatal findings from the caption parser.
	ParseWarnings []string
}

// Pipeline runs the alignment phases for one project.
type Pipeline struct {
	cfg    *config.Config
	probe  audioseg.Probe
	logger *slog.Logger
}

// New constructs a Pipeline. probe is the injected duration-measurement
// capability; pass nil to use ffprobe from the configuration.
func New(cfg *config.Config, probe audioseg.Probe, logger *slog.Logger) *Pipeline {
	if probe == nil {
		probe = audioseg.FFProbe{Binary: cfg.Audio.FFprobeBinary}
	}
	return &Pipeline{cfg: cfg, probe: probe, logger: logging.NewComponentLogger(logger, "pipeline")}
}

// OutputPaths returns where a run for project writes its artifacts.
func (p *Pipeline) OutputPaths(project string) Outputs {
	dir := p.cfg.Paths.OutputDir
	return Outputs{
		Captions: filepath.Join(dir, project+".srt"),
		Record:   filepath.Join(dir, project+"_timeline.csv"),
		Exchange: filepath.Join(dir, project+"_timeline.xml"),
		Report:   filepath.Join(dir, project+"_report.json"),
	}
}

// Run executes the full pipeline for one project. Reruns overwrite the
// previous outputs; a file lock excludes concurrent runs on the same
// output directory.
func (p *Pipeline) Run(ctx context.Context, project string) (*Outcome, error) {
	if err := fileutil.EnsureDir(p.cfg.Paths.OutputDir); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(p.cfg.Paths.OutputDir, ".cuealign.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another run holds the lock for %s", p.cfg.Paths.OutputDir)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	scr, err := p.parseScript(project)
	if err != nil {
		return nil, err
	}
	p.logger.Info("narration parsed", logging.Args(
		logging.String("project", project),
		logging.String("kind", string(scr.Kind)),
		logging.Int("segments", len(scr.Segments)),
	)...)

	caps, err := captions.ParseFile(filepath.Join(p.cfg.Paths.InputsDir, project+".srt"))
	if err != nil {
		return nil, err
	}
	for _, warning := range caps.Warnings {
		p.logger.Warn("caption parse finding", logging.Args(logging.String("detail", warning))...)
	}
	p.logger.Info("captions parsed", logging.Args(
		logging.Int("captions", len(caps.Entries)),
		logging.Int("warnings", len(caps.Warnings)),
	)...)

	flags, err := p.sceneFlags(project, scr, caps.Entries)
	if err != nil {
		return nil, err
	}

	resolver := audioseg.NewResolver(audioseg.Options{
		Dir:         p.cfg.Paths.AudioDir,
		Project:     project,
		FilePattern: p.cfg.Audio.FilePattern,
		Workers:     p.cfg.Audio.ProbeWorkers,
		SampleRate:  p.cfg.Audio.SampleRate,
	}, p.probe, p.logger)
	segments, err := resolver.Resolve(ctx, len(scr.Segments))
	if err != nil {
		return nil, err
	}

	tl, err := timeline.Build(p.cfg.Rate(), timeline.Options{
		SceneLeadInSec: p.cfg.Timeline.SceneLeadInSec,
		ClipGapFrames:  int64(p.cfg.Timeline.ClipGapFrames),
	}, segments, flags, p.logger)
	if err != nil {
		return nil, err
	}

	allocator := allocate.New(p.cfg.Allocation.SimilarityThreshold, p.logger)
	allocation, err := allocator.Allocate(tl, scr.Segments, caps.Entries)
	if err != nil {
		return nil, err
	}

	outputs := p.OutputPaths(project)
	if err := writers.WriteCaptions(outputs.Captions, tl); err != nil {
		return nil, err
	}
	if err := writers.WriteRecord(outputs.Record, tl, scr.Segments); err != nil {
		return nil, err
	}
	if err := writers.WriteExchange(outputs.Exchange, tl, project, p.cfg.Output.EmbedCaptionTrack); err != nil {
		return nil, err
	}

	// Validation works on the written caption file, not in-memory state.
	written, err := captions.ParseFile(outputs.Captions)
	if err != nil {
		return nil, fmt.Errorf("reread written captions: %w", err)
	}
	validator := validate.New(validate.Options{
		EntryCountTolerance:       p.cfg.Validation.EntryCountTolerance,
		TextSimilarityMin:         p.cfg.Validation.TextSimilarityMin,
		AudioDurationToleranceSec: p.cfg.Validation.AudioDurationToleranceSec,
	}, p.logger)
	report := validator.Validate(tl, caps.Entries, written.Entries, allocation)

	reportJSON, err := report.JSON()
	if err != nil {
		return nil, err
	}
	if err := fileutil.WriteAtomic(outputs.Report, reportJSON, 0o644); err != nil {
		return nil, err
	}

	p.logger.Info("run complete", logging.Args(
		logging.String("project", project),
		logging.String("verdict", string(report.Verdict)),
	)...)
	return &Outcome{
		Project:       project,
		Script:        scr,
		Timeline:      tl,
		Allocation:    allocation,
		Report:        report,
		Outputs:       outputs,
		ParseWarnings: caps.Warnings,
	}, nil
}

// scriptCandidates lists the narration file names tried for a project,
// in priority order.
func scriptCandidates(project string) []string {
	return []string{project + ".yaml", project + ".yml", project + ".txt"}
}

func (p *Pipeline) parseScript(project string) (script.Script, error) {
	for _, name := range scriptCandidates(project) {
		path := filepath.Join(p.cfg.Paths.InputsDir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return script.ParseFile(path)
	}
	return script.Script{}, faults.Wrap(faults.ErrFormat, "parse", "script",
		fmt.Sprintf("no narration file for %q in %s (tried %v)",
			project, p.cfg.Paths.InputsDir, scriptCandidates(project)), nil)
}

// sceneFlags extracts scene markers from the outline document, falling
// back to caption-gap detection when configured and no outline exists.
func (p *Pipeline) sceneFlags(project string, scr script.Script, pool []captions.Entry) ([]bool, error) {
	outlinePath := filepath.Join(p.cfg.Paths.InputsDir, project+"_outline.md")
	markers, err := outline.ExtractFile(outlinePath, p.cfg.Timeline.MarkerBoundary)
	if err != nil {
		return nil, err
	}
	if len(markers) == 0 && p.cfg.Timeline.SceneGapDetectSec > 0 {
		markers = outline.DetectFromCaptionGaps(pool, len(scr.Segments), p.cfg.Timeline.SceneGapDetectSec)
		if len(markers) > 0 {
			p.logger.Info("scene markers detected from caption gaps",
				logging.Args(logging.Int("markers", len(markers)))...)
		}
	}
	p.logger.Info("scene markers extracted", logging.Args(logging.Int("markers", len(markers)))...)
	return outline.Flags(markers, len(scr.Segments)), nil
}
