// Package testsupport holds shared fixture helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"cuealign/internal/config"
	"cuealign/internal/fileutil"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per
// test. Input, audio, and output directories exist when it returns.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputsDir = filepath.Join(base, "inputs")
	cfg.Paths.AudioDir = filepath.Join(base, "audio")
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	for _, dir := range []string{cfg.Paths.InputsDir, cfg.Paths.AudioDir, cfg.Paths.OutputDir} {
		if err := fileutil.EnsureDir(dir); err != nil {
			t.Fatalf("create %s: %v", dir, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithSceneGapDetection enables caption-gap scene detection on the test
// config.
func WithSceneGapDetection(thresholdSec float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Timeline.SceneGapDetectSec = thresholdSec
	}
}

// WithEmbeddedCaptionTrack turns on caption markers in the edit-exchange
// output.
func WithEmbeddedCaptionTrack() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Output.EmbedCaptionTrack = true
	}
}
