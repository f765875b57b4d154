package writers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"cuealign/internal/faults"
	"cuealign/internal/fileutil"
	"cuealign/internal/script"
	"cuealign/internal/timeline"
)

var recordHeader = []string{
	"index", "filename", "start_timecode", "end_timecode",
	"duration_sec", "duration_frames", "scene_start", "lead_in_frames",
	"speaker", "text",
}

// WriteRecord emits one CSV row per placed clip for inspection. Narration
// segments supply the speaker and text columns and must align 1:1 with
// the timeline entries.
func WriteRecord(path string, tl *timeline.Timeline, segments []script.Segment) error {
	if len(segments) != len(tl.Entries) {
		return faults.Wrap(faults.ErrConfiguration, "write", "record",
			fmt.Sprintf("%d narration segments for %d timeline entries", len(segments), len(tl.Entries)), nil)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(recordHeader); err != nil {
		return err
	}
	for i, entry := range tl.Entries {
		durationSec := tl.Rate.SecondsFromFrames(entry.DurationFrames())
		row := []string{
			strconv.Itoa(entry.Segment.Index),
			entry.Segment.Filename(),
			tl.Rate.Timecode(entry.StartFrame),
			tl.Rate.Timecode(entry.EndFrame),
			strconv.FormatFloat(durationSec, 'f', 3, 64),
			strconv.FormatInt(entry.DurationFrames(), 10),
			strconv.FormatBool(entry.SceneStart),
			strconv.FormatInt(entry.LeadInFrames, 10),
			segments[i].Speaker,
			segments[i].Text,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return fileutil.WriteAtomic(path, buf.Bytes(), 0o644)
}
