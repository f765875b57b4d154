// Package outline extracts scene markers from a free-form outline
// document. Bracketed timestamp-range headings (【MM:SS-MM:SS】label or
// [MM:SS-MM:SS] label) open scenes; narration lines between headings are
// counted so each marker resolves to a narration segment index. An outline
// with no headings is valid and yields no markers.
package outline

import (
	"os"
	"regexp"
	"strings"

	"cuealign/internal/captions"
	"cuealign/internal/config"
)

// Marker flags one narration segment as a scene start.
type Marker struct {
	SegmentIndex int // 1-based
	Label        string
}

var (
	headingPattern = regexp.MustCompile(`^(?:【(\d{2}:\d{2})-(\d{2}:\d{2})】|\[(\d{2}:\d{2})-(\d{2}:\d{2})\])\s*(.*)$`)
	annotation     = regexp.MustCompile(`^【[^】]*】`)
	horizontalRule = regexp.MustCompile(`^[-—━─]{3,}$`)
)

// Extract scans outline content for timestamp-range headings. The boundary
// rule decides which segment a heading attaches to when it falls between
// two narration lines: config.BoundaryFollowing marks the next line (a
// heading introduces the material after it), config.BoundaryPreceding
// marks the previous one.
func Extract(content, boundary string) []Marker {
	var markers []Marker
	narrationLines := 0

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || horizontalRule.MatchString(line) {
			continue
		}

		if match := headingPattern.FindStringSubmatch(line); match != nil {
			index := narrationLines + 1
			if boundary == config.BoundaryPreceding && narrationLines > 0 {
				index = narrationLines
			}
			markers = append(markers, Marker{SegmentIndex: index, Label: strings.TrimSpace(match[5])})
			continue
		}

		// Bracketed annotations that are not timestamp headings (on-screen
		// text directions and the like) are not narration.
		if annotation.MatchString(line) {
			continue
		}

		narrationLines++
	}

	return dedupe(markers)
}

// ExtractFile reads an outline document and extracts markers. A missing
// file yields no markers: the outline is an optional input.
func ExtractFile(path, boundary string) ([]Marker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return Extract(string(data), boundary), nil
}

// DetectFromCaptionGaps derives scene markers from the provisional caption
// timecodes when no outline document exists: a gap of at least the
// threshold between adjacent captions suggests a scene change. The caption
// position is scaled onto the segment index space so the marker lands on
// the proportional segment.
func DetectFromCaptionGaps(entries []captions.Entry, segmentCount int, thresholdSec float64) []Marker {
	if thresholdSec <= 0 || segmentCount <= 0 || len(entries) < 2 {
		return nil
	}
	thresholdMS := int64(thresholdSec * 1000)

	var markers []Marker
	for i := 1; i < len(entries); i++ {
		gap := entries[i].StartMS - entries[i-1].EndMS
		if gap < thresholdMS {
			continue
		}
		segment := i*segmentCount/len(entries) + 1
		if segment > segmentCount {
			segment = segmentCount
		}
		markers = append(markers, Marker{SegmentIndex: segment})
	}
	return dedupe(markers)
}

// Flags expands markers into a per-segment scene-start slice of the given
// length. Marker indices outside 1..segmentCount are dropped.
func Flags(markers []Marker, segmentCount int) []bool {
	flags := make([]bool, segmentCount)
	for _, m := range markers {
		if m.SegmentIndex >= 1 && m.SegmentIndex <= segmentCount {
			flags[m.SegmentIndex-1] = true
		}
	}
	return flags
}

func dedupe(markers []Marker) []Marker {
	seen := make(map[int]bool, len(markers))
	out := markers[:0]
	for _, m := range markers {
		if seen[m.SegmentIndex] {
			continue
		}
		seen[m.SegmentIndex] = true
		out = append(out, m)
	}
	return out
}
