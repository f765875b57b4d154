package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration for a project run.
type Paths struct {
	InputsDir string `toml:"inputs_dir"`
	AudioDir  string `toml:"audio_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Timeline contains the frame rate convention and gap settings. The
// convention is fixed per run; every component converts through it.
type Timeline struct {
	Timebase       int     `toml:"timebase"`
	NTSC           bool    `toml:"ntsc"`
	DropFrame      bool    `toml:"drop_frame"`
	SceneLeadInSec float64 `toml:"scene_lead_in_sec"`
	ClipGapFrames  int     `toml:"clip_gap_frames"`
	// MarkerBoundary picks the segment a scene heading attaches to when it
	// sits exactly between two segments: "following" (default) or
	// "preceding".
	MarkerBoundary string `toml:"marker_boundary"`
	// SceneGapDetectSec enables marker detection from caption gaps when no
	// outline document is present. Zero disables detection.
	SceneGapDetectSec float64 `toml:"scene_gap_detect_sec"`
}

// Allocation contains caption allocation thresholds.
type Allocation struct {
	SimilarityThreshold float64 `toml:"similarity_threshold"`
}

// Validation contains post-run consistency check tolerances.
type Validation struct {
	EntryCountTolerance       float64 `toml:"entry_count_tolerance"`
	TextSimilarityMin         float64 `toml:"text_similarity_min"`
	AudioDurationToleranceSec float64 `toml:"audio_duration_tolerance_sec"`
}

// Audio contains duration probe and file naming settings.
type Audio struct {
	FFprobeBinary string `toml:"ffprobe_binary"`
	// FilePattern is a printf pattern applied to (project, index),
	// e.g. "%s_%03d.mp3".
	FilePattern  string `toml:"file_pattern"`
	ProbeWorkers int    `toml:"probe_workers"`
	// SampleRate is the fallback when the probe reports none.
	SampleRate int `toml:"sample_rate"`
}

// Output contains writer settings.
type Output struct {
	EmbedCaptionTrack bool `toml:"embed_caption_track"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates every knob the pipeline needs. One immutable value is
// constructed per run and passed into each component; nothing reads ambient
// global state.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Timeline   Timeline   `toml:"timeline"`
	Allocation Allocation `toml:"allocation"`
	Validation Validation `toml:"validation"`
	Audio      Audio      `toml:"audio"`
	Output     Output     `toml:"output"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cuealign/config.toml")
}

// Load reads and validates a configuration file, layering it over the
// repository defaults. An empty path falls back to the default location;
// a missing file at the default location yields pure defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved, required, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case required || !os.IsNotExist(err):
		return nil, fmt.Errorf("open config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Sample returns the embedded sample configuration document.
func Sample() string {
	return sampleConfig
}

func resolveConfigPath(path string) (resolved string, required bool, err error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		return expanded, true, nil
	}
	fallback, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	return fallback, false, nil
}
