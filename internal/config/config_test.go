package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if got := cfg.Rate().FPS(); got < 29.96 || got > 29.98 {
		t.Fatalf("default fps = %v, want ~29.97", got)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	doc := `
[timeline]
timebase = 24
ntsc = false
scene_lead_in_sec = 1.5

[allocation]
similarity_threshold = 0.75

[audio]
probe_workers = 2
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Timeline.Timebase != 24 || cfg.Timeline.NTSC {
		t.Fatalf("timeline not overridden: %+v", cfg.Timeline)
	}
	if cfg.Timeline.SceneLeadInSec != 1.5 {
		t.Fatalf("scene_lead_in_sec = %v", cfg.Timeline.SceneLeadInSec)
	}
	if cfg.Allocation.SimilarityThreshold != 0.75 {
		t.Fatalf("similarity_threshold = %v", cfg.Allocation.SimilarityThreshold)
	}
	if cfg.Audio.ProbeWorkers != 2 {
		t.Fatalf("probe_workers = %v", cfg.Audio.ProbeWorkers)
	}
	// Untouched sections keep defaults.
	if cfg.Validation.TextSimilarityMin != 0.95 {
		t.Fatalf("text_similarity_min = %v", cfg.Validation.TextSimilarityMin)
	}
}

func TestLoadRejectsMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"timebase", func(c *Config) { c.Timeline.Timebase = 0 }, "timeline.timebase"},
		{"lead-in", func(c *Config) { c.Timeline.SceneLeadInSec = -1 }, "scene_lead_in_sec"},
		{"boundary", func(c *Config) { c.Timeline.MarkerBoundary = "nearest" }, "marker_boundary"},
		{"threshold", func(c *Config) { c.Allocation.SimilarityThreshold = 1.5 }, "similarity_threshold"},
		{"tolerance", func(c *Config) { c.Validation.EntryCountTolerance = -0.1 }, "entry_count_tolerance"},
		{"pattern", func(c *Config) { c.Audio.FilePattern = "audio.mp3" }, "file_pattern"},
		{"format", func(c *Config) { c.Logging.Format = "yaml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestSampleConfigParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.toml")
	if err := os.WriteFile(path, []byte(Sample()), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if cfg.Timeline.Timebase != 30 || !cfg.Timeline.NTSC {
		t.Fatalf("sample timeline unexpected: %+v", cfg.Timeline)
	}
}
