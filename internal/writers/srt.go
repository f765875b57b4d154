// Package writers serializes a finalized timeline: a timecoded caption
// file, a tabular timeline record, and a tick-based edit-exchange document
// importable by nonlinear editors. Writers truncate and replace previous
// outputs so reruns stay idempotent.
package writers

import (
	"cuealign/internal/captions"
	"cuealign/internal/fileutil"
	"cuealign/internal/timeline"
)

// WriteCaptions emits every allocated slot as a subtitle entry at its
// absolute sequence position. Caption text passes through verbatim.
func WriteCaptions(path string, tl *timeline.Timeline) error {
	var entries []captions.Entry
	for _, entry := range tl.Entries {
		for _, slot := range entry.Slots {
			entries = append(entries, captions.Entry{
				StartMS: slot.StartMS,
				EndMS:   slot.EndMS,
				Text:    slot.Text,
			})
		}
	}
	return fileutil.WriteAtomic(path, captions.Render(entries), 0o644)
}
