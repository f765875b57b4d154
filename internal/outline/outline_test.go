package outline

import (
	"path/filepath"
	"testing"

	"cuealign/internal/captions"
	"cuealign/internal/config"
)

const doc = `# Episode outline

【00:00-01:00】Opening
First narration line.
Second narration line.

[01:00-02:30] Main topic
Third narration line.
【テロップ】on-screen annotation, not narration
Fourth narration line.

---
【02:30-03:00】Wrap up
Fifth narration line.
`

func TestExtractFollowing(t *testing.T) {
	markers := Extract(doc, config.BoundaryFollowing)
	if len(markers) != 3 {
		t.Fatalf("markers = %+v", markers)
	}
	wantIndex := []int{1, 3, 5}
	wantLabel := []string{"Opening", "Main topic", "Wrap up"}
	for i, m := range markers {
		if m.SegmentIndex != wantIndex[i] || m.Label != wantLabel[i] {
			t.Fatalf("marker %d = %+v, want index %d label %q", i, m, wantIndex[i], wantLabel[i])
		}
	}
}

func TestExtractPreceding(t *testing.T) {
	markers := Extract(doc, config.BoundaryPreceding)
	// The first heading precedes all narration and still maps to segment 1.
	wantIndex := []int{1, 2, 4}
	if len(markers) != 3 {
		t.Fatalf("markers = %+v", markers)
	}
	for i, m := range markers {
		if m.SegmentIndex != wantIndex[i] {
			t.Fatalf("marker %d index = %d, want %d", i, m.SegmentIndex, wantIndex[i])
		}
	}
}

func TestExtractNoHeadingsIsValid(t *testing.T) {
	markers := Extract("just narration\nanother line\n", config.BoundaryFollowing)
	if len(markers) != 0 {
		t.Fatalf("expected no markers, got %+v", markers)
	}
}

func TestExtractFileMissingIsValid(t *testing.T) {
	markers, err := ExtractFile(filepath.Join(t.TempDir(), "absent.md"), config.BoundaryFollowing)
	if err != nil {
		t.Fatal(err)
	}
	if markers != nil {
		t.Fatalf("expected nil markers, got %+v", markers)
	}
}

func TestDetectFromCaptionGaps(t *testing.T) {
	entries := []captions.Entry{
		{Index: 1, StartMS: 0, EndMS: 2000},
		{Index: 2, StartMS: 2200, EndMS: 4000},
		{Index: 3, StartMS: 10000, EndMS: 12000}, // 6s gap before
		{Index: 4, StartMS: 12100, EndMS: 14000},
	}
	markers := DetectFromCaptionGaps(entries, 4, 5.0)
	if len(markers) != 1 {
		t.Fatalf("markers = %+v", markers)
	}
	if markers[0].SegmentIndex != 3 {
		t.Fatalf("segment index = %d, want 3", markers[0].SegmentIndex)
	}

	if got := DetectFromCaptionGaps(entries, 4, 0); got != nil {
		t.Fatalf("threshold 0 should disable detection, got %+v", got)
	}
}

func TestFlags(t *testing.T) {
	markers := []Marker{{SegmentIndex: 1}, {SegmentIndex: 3}, {SegmentIndex: 99}}
	flags := Flags(markers, 4)
	want := []bool{true, false, true, false}
	for i := range want {
		if flags[i] != want[i] {
			t.Fatalf("flags = %v, want %v", flags, want)
		}
	}
}
