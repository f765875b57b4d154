package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"cuealign/internal/captions"
	"cuealign/internal/config"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// CaptionFixture builds n sequential caption entries with distinct texts,
// spaced two seconds apart.
func CaptionFixture(n int) []captions.Entry {
	entries := make([]captions.Entry, n)
	for i := range entries {
		entries[i] = captions.Entry{
			StartMS: int64(i) * 2000,
			EndMS:   int64(i)*2000 + 1800,
			Text:    fmt.Sprintf("approved on-screen caption number %02d", i+1),
		}
	}
	return entries
}

// WriteCaptionFile renders entries as a subtitle file under dir.
func WriteCaptionFile(t testing.TB, dir, name string, entries []captions.Entry) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, captions.Render(entries), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteAudioFixtures creates placeholder clip files for indices 1..count
// using the config's naming pattern and returns their base names in order.
func WriteAudioFixtures(t testing.TB, cfg *config.Config, project string, count int) []string {
	t.Helper()
	names := make([]string, count)
	for i := 1; i <= count; i++ {
		name := fmt.Sprintf(cfg.Audio.FilePattern, project, i)
		if err := os.WriteFile(filepath.Join(cfg.Paths.AudioDir, name), []byte("audio"), 0o644); err != nil {
			t.Fatalf("write clip %s: %v", name, err)
		}
		names[i-1] = name
	}
	return names
}
