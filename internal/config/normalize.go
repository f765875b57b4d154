package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// normalize trims and expands path fields and fills blank fields with
// defaults so validation only ever sees canonical values.
func (c *Config) normalize() error {
	for _, field := range []*string{
		&c.Paths.InputsDir,
		&c.Paths.AudioDir,
		&c.Paths.OutputDir,
		&c.Paths.LogDir,
	} {
		trimmed := strings.TrimSpace(*field)
		if trimmed == "" {
			*field = ""
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.Timeline.MarkerBoundary = strings.ToLower(strings.TrimSpace(c.Timeline.MarkerBoundary))
	if c.Timeline.MarkerBoundary == "" {
		c.Timeline.MarkerBoundary = defaultBoundary
	}

	c.Audio.FFprobeBinary = strings.TrimSpace(c.Audio.FFprobeBinary)
	if c.Audio.FFprobeBinary == "" {
		c.Audio.FFprobeBinary = defaultFFprobe
	}
	c.Audio.FilePattern = strings.TrimSpace(c.Audio.FilePattern)
	if c.Audio.FilePattern == "" {
		c.Audio.FilePattern = defaultPattern
	}
	if c.Audio.ProbeWorkers <= 0 {
		c.Audio.ProbeWorkers = defaultWorkers
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = defaultSampleRate
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}

// ExpandPath expands a leading tilde and makes the path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// expandPath expands a leading tilde and makes the path absolute.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, path[2:])
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	return abs, nil
}
