// Package captions parses and renders sequence-numbered, timecode-ranged
// caption files. Caption text is immutable: parsing trims surrounding
// whitespace and canonicalizes the legacy '.' millisecond separator, and
// nothing else ever rewrites it.
package captions

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"cuealign/internal/faults"
	"cuealign/internal/timecode"
)

// Entry is one independently authored caption block. Start and end are the
// author's provisional timecodes; the pipeline recomputes them and never
// trusts them for placement.
type Entry struct {
	Index   int
	StartMS int64
	EndMS   int64
	Text    string
}

// DurationMS returns the provisional duration.
func (e Entry) DurationMS() int64 {
	return e.EndMS - e.StartMS
}

// LineCount returns the number of non-blank text lines.
func (e Entry) LineCount() int {
	count := 0
	for _, line := range strings.Split(e.Text, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

// Result carries parsed entries plus non-fatal findings. Malformed blocks
// are reported, never silently repaired.
type Result struct {
	Entries  []Entry
	Warnings []string
}

var rangePattern = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2}[,.]\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}[,.]\d{3})$`)

const (
	suspiciousShortMS = 800
	suspiciousLongMS  = 10000
	maxTextLines      = 3
)

// Parse reads caption blocks from source content. It fails only when no
// well-formed entry exists; individual malformed blocks become warnings.
func Parse(content string) (Result, error) {
	var res Result

	blocks := splitBlocks(content)
	lastIndex := 0
	for n, block := range blocks {
		entry, err := parseBlock(block)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("block %d: %v", n+1, err))
			continue
		}

		if entry.Index <= lastIndex {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"entry %d: sequence number not increasing (previous %d)", entry.Index, lastIndex))
		}
		lastIndex = entry.Index

		if entry.StartMS >= entry.EndMS {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"entry %d: start %s not before end %s",
				entry.Index, timecode.SRTTimestamp(entry.StartMS), timecode.SRTTimestamp(entry.EndMS)))
		} else {
			if d := entry.DurationMS(); d < suspiciousShortMS {
				res.Warnings = append(res.Warnings, fmt.Sprintf("entry %d: very short duration (%dms)", entry.Index, d))
			} else if d > suspiciousLongMS {
				res.Warnings = append(res.Warnings, fmt.Sprintf("entry %d: very long duration (%dms)", entry.Index, d))
			}
		}
		if lines := entry.LineCount(); lines > maxTextLines {
			res.Warnings = append(res.Warnings, fmt.Sprintf("entry %d: too many lines (%d)", entry.Index, lines))
		}

		res.Entries = append(res.Entries, entry)
	}

	if len(res.Entries) == 0 {
		return Result{}, faults.Wrap(faults.ErrEmptyInput, "captions", "parse", "no caption entries found", nil)
	}
	return res, nil
}

// ParseFile reads and parses a caption file.
func ParseFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, faults.Wrap(faults.ErrFormat, "captions", "read", path, err)
	}
	return Parse(string(data))
}

func splitBlocks(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	raw := regexp.MustCompile(`\n\s*\n`).Split(strings.TrimSpace(content), -1)
	blocks := make([]string, 0, len(raw))
	for _, block := range raw {
		if strings.TrimSpace(block) != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

func parseBlock(block string) (Entry, error) {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	if len(lines) < 3 {
		return Entry{}, fmt.Errorf("fewer than 3 lines")
	}

	index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Entry{}, fmt.Errorf("invalid sequence number %q", strings.TrimSpace(lines[0]))
	}

	match := rangePattern.FindStringSubmatch(strings.TrimSpace(lines[1]))
	if match == nil {
		return Entry{}, fmt.Errorf("invalid timecode range %q", strings.TrimSpace(lines[1]))
	}
	start, err := timecode.ParseSRTTimestamp(match[1])
	if err != nil {
		return Entry{}, err
	}
	end, err := timecode.ParseSRTTimestamp(match[2])
	if err != nil {
		return Entry{}, err
	}

	text := strings.TrimSpace(strings.Join(lines[2:], "\n"))
	if text == "" {
		return Entry{}, fmt.Errorf("empty text")
	}

	return Entry{Index: index, StartMS: start, EndMS: end, Text: text}, nil
}

// Render serializes entries back to the caption block format with 1-based
// renumbering, the canonical ',' separator, and a trailing newline.
func Render(entries []Entry) []byte {
	var b strings.Builder
	for n, entry := range entries {
		b.WriteString(strconv.Itoa(n + 1))
		b.WriteByte('\n')
		b.WriteString(timecode.SRTTimestamp(entry.StartMS))
		b.WriteString(" --> ")
		b.WriteString(timecode.SRTTimestamp(entry.EndMS))
		b.WriteByte('\n')
		b.WriteString(entry.Text)
		b.WriteString("\n\n")
	}
	return []byte(strings.TrimRight(b.String(), "\n") + "\n")
}
