// Package validate checks a finished run against its invariants and
// produces a machine-readable report. Validation failures never delete
// outputs; the verdict tells the operator whether to trust them.
package validate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"cuealign/internal/allocate"
	"cuealign/internal/captions"
	"cuealign/internal/logging"
	"cuealign/internal/textutil"
	"cuealign/internal/timeline"
)

// Verdict is the overall outcome of a validation pass.
type Verdict string

const (
	VerdictPass Verdict = "PASS"
	VerdictWarn Verdict = "WARN"
	VerdictFail Verdict = "FAIL"
)

type checkStatus string

const (
	statusPass checkStatus = "pass"
	statusFail checkStatus = "fail"
)

// Check is one named invariant with its outcome.
type Check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// Report is the serialized validation outcome.
type Report struct {
	Verdict  Verdict  `json:"verdict"`
	Checks   []Check  `json:"checks"`
	Warnings []string `json:"warnings,omitempty"`
}

// JSON renders the report for the machine-readable output file.
func (r *Report) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Failed reports whether any check failed.
func (r *Report) Failed() bool {
	return r.Verdict == VerdictFail
}

func (r *Report) add(name string, ok bool, detail string) {
	status := statusPass
	if !ok {
		status = statusFail
	}
	r.Checks = append(r.Checks, Check{Name: name, Status: string(status), Detail: detail})
}

func (r *Report) finalize() {
	r.Verdict = VerdictPass
	if len(r.Warnings) > 0 {
		r.Verdict = VerdictWarn
	}
	for _, c := range r.Checks {
		if c.Status == string(statusFail) {
			r.Verdict = VerdictFail
			return
		}
	}
}

// Options holds the validation tolerances.
type Options struct {
	EntryCountTolerance       float64
	TextSimilarityMin         float64
	AudioDurationToleranceSec float64
}

// Validator runs the invariant checks for one run.
type Validator struct {
	opts   Options
	logger *slog.Logger
}

// New constructs a Validator.
func New(opts Options, logger *slog.Logger) *Validator {
	return &Validator{opts: opts, logger: logging.NewComponentLogger(logger, "validator")}
}

// Validate checks the finished timeline against the source caption list.
// output is the caption list read back from the written file, so the
// check covers the serialized artifact, not just in-memory state.
// Allocation warnings carry into the report; they downgrade a PASS to
// WARN but never fail the run.
func (v *Validator) Validate(tl *timeline.Timeline, source, output []captions.Entry, alloc *allocate.Result) *Report {
	report := &Report{}
	if alloc != nil {
		report.Warnings = append(report.Warnings, alloc.Warnings...)
	}

	v.checkCounts(report, len(source), len(output))
	v.checkSimilarity(report, source, output)
	v.checkMonotonic(report, tl)
	v.checkResolved(report, tl)
	v.checkDurations(report, tl)

	report.finalize()
	v.logger.Info("validation complete", logging.Args(
		logging.String("verdict", string(report.Verdict)),
		logging.Int("checks", len(report.Checks)),
		logging.Int("warnings", len(report.Warnings)),
	)...)
	return report
}

// CompareCaptions validates an output caption list directly against its
// source, for runs where only the two subtitle files are at hand.
func (v *Validator) CompareCaptions(source, output []captions.Entry) *Report {
	report := &Report{}
	v.checkCounts(report, len(source), len(output))
	v.checkSimilarity(report, source, output)
	report.finalize()
	return report
}

func (v *Validator) checkCounts(report *Report, source, output int) {
	if source == 0 {
		report.add("entry_count", false, "source caption list is empty")
		return
	}
	delta := math.Abs(float64(output-source)) / float64(source)
	report.add("entry_count", delta <= v.opts.EntryCountTolerance,
		fmt.Sprintf("source=%d output=%d delta=%.1f%% tolerance=%.1f%%",
			source, output, delta*100, v.opts.EntryCountTolerance*100))
}

func (v *Validator) checkSimilarity(report *Report, source, output []captions.Entry) {
	similarity := textutil.Similarity(joinTexts(source), joinTexts(output))
	report.add("text_similarity", similarity >= v.opts.TextSimilarityMin,
		fmt.Sprintf("similarity=%.4f minimum=%.4f", similarity, v.opts.TextSimilarityMin))
}

func (v *Validator) checkMonotonic(report *Report, tl *timeline.Timeline) {
	for i, entry := range tl.Entries {
		if entry.StartFrame >= entry.EndFrame {
			report.add("window_monotonicity", false,
				fmt.Sprintf("entry %d has an empty or inverted window", i+1))
			return
		}
		if i > 0 && entry.StartFrame < tl.Entries[i-1].EndFrame {
			report.add("window_monotonicity", false,
				fmt.Sprintf("entry %d overlaps its predecessor", i+1))
			return
		}
	}
	report.add("window_monotonicity", true, "windows strictly increasing and non-overlapping")
}

func (v *Validator) checkResolved(report *Report, tl *timeline.Timeline) {
	for i, entry := range tl.Entries {
		if entry.Segment.Index != i+1 || entry.Segment.Path == "" {
			report.add("segments_resolved", false,
				fmt.Sprintf("entry %d missing a resolved audio file", i+1))
			return
		}
	}
	report.add("segments_resolved", true,
		fmt.Sprintf("all %d segment files resolved", len(tl.Entries)))
}

func (v *Validator) checkDurations(report *Report, tl *timeline.Timeline) {
	for i, entry := range tl.Entries {
		placed := tl.Rate.SecondsFromFrames(entry.DurationFrames())
		measured := float64(entry.Segment.DurationMS) / 1000
		if math.Abs(placed-measured) > v.opts.AudioDurationToleranceSec {
			report.add("window_durations", false,
				fmt.Sprintf("entry %d placed %.3fs vs measured %.3fs", i+1, placed, measured))
			return
		}
	}
	report.add("window_durations", true, "every window matches its measured audio duration")
}

func joinTexts(entries []captions.Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.Text)
	}
	return b.String()
}
