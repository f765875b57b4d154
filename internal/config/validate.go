package config

import (
	"fmt"
	"strings"

	"cuealign/internal/timecode"
)

// Validate checks every configuration value the pipeline depends on and
// returns the first problem found, named after the offending key.
func (c *Config) Validate() error {
	if _, err := timecode.New(c.Timeline.Timebase, c.Timeline.NTSC, c.Timeline.DropFrame); err != nil {
		return fmt.Errorf("timeline.timebase: %w", err)
	}
	if c.Timeline.SceneLeadInSec < 0 {
		return fmt.Errorf("timeline.scene_lead_in_sec must not be negative, got %v", c.Timeline.SceneLeadInSec)
	}
	if c.Timeline.ClipGapFrames < 0 {
		return fmt.Errorf("timeline.clip_gap_frames must not be negative, got %d", c.Timeline.ClipGapFrames)
	}
	if c.Timeline.SceneGapDetectSec < 0 {
		return fmt.Errorf("timeline.scene_gap_detect_sec must not be negative, got %v", c.Timeline.SceneGapDetectSec)
	}
	switch c.Timeline.MarkerBoundary {
	case BoundaryFollowing, BoundaryPreceding:
	default:
		return fmt.Errorf("timeline.marker_boundary must be %q or %q, got %q",
			BoundaryFollowing, BoundaryPreceding, c.Timeline.MarkerBoundary)
	}

	if c.Allocation.SimilarityThreshold < 0 || c.Allocation.SimilarityThreshold > 1 {
		return fmt.Errorf("allocation.similarity_threshold must be within [0, 1], got %v", c.Allocation.SimilarityThreshold)
	}

	if c.Validation.EntryCountTolerance < 0 || c.Validation.EntryCountTolerance > 1 {
		return fmt.Errorf("validation.entry_count_tolerance must be within [0, 1], got %v", c.Validation.EntryCountTolerance)
	}
	if c.Validation.TextSimilarityMin < 0 || c.Validation.TextSimilarityMin > 1 {
		return fmt.Errorf("validation.text_similarity_min must be within [0, 1], got %v", c.Validation.TextSimilarityMin)
	}
	if c.Validation.AudioDurationToleranceSec < 0 {
		return fmt.Errorf("validation.audio_duration_tolerance_sec must not be negative, got %v", c.Validation.AudioDurationToleranceSec)
	}

	if !strings.Contains(c.Audio.FilePattern, "%") {
		return fmt.Errorf("audio.file_pattern must contain printf verbs for project and index, got %q", c.Audio.FilePattern)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	return nil
}

// Rate builds the run's frame rate convention from the timeline section.
// Validate must have passed, so construction cannot fail here.
func (c *Config) Rate() timecode.Rate {
	rate, err := timecode.New(c.Timeline.Timebase, c.Timeline.NTSC, c.Timeline.DropFrame)
	if err != nil {
		panic(fmt.Sprintf("config: invalid rate after validation: %v", err))
	}
	return rate
}
