// Package script parses narration scripts: one segment per rendered audio
// clip. Two source forms exist — a structured YAML document carrying
// per-segment speaker/voice/style fields, and a plain-text fallback with
// one segment per non-empty line. The form is resolved once at parse time
// and tagged on the result; nothing downstream re-inspects the source.
package script

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"cuealign/internal/faults"
)

// Kind identifies which source form a script was parsed from.
type Kind string

const (
	KindStructured Kind = "structured"
	KindPlain      Kind = "plain"
)

// Segment is one narration unit, mapped 1:1 to a rendered audio clip.
// Speaker, voice, and style are opaque identifiers passed through to
// reporting; the engine never interprets them.
type Segment struct {
	Index   int
	Speaker string
	Voice   string
	Style   string
	Text    string
}

// Script is a parsed narration source.
type Script struct {
	Kind     Kind
	Segments []Segment
}

type yamlSegment struct {
	Speaker string `yaml:"speaker"`
	Voice   string `yaml:"voice"`
	Style   string `yaml:"style"`
	Text    string `yaml:"text"`
}

type yamlDocument struct {
	Segments  []yamlSegment `yaml:"segments"`
	Narration struct {
		Segments []yamlSegment `yaml:"segments"`
	} `yaml:"narration"`
}

// Parse reads narration segments from source content, resolving the source
// form. Zero segments or a malformed structured document is a format error.
func Parse(content string) (Script, error) {
	if looksStructured(content) {
		return parseStructured(content)
	}
	return parsePlain(content)
}

// ParseFile reads and parses a narration script file.
func ParseFile(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, faults.Wrap(faults.ErrFormat, "script", "read", path, err)
	}
	return Parse(string(data))
}

// looksStructured reports whether the content carries a YAML segments key.
// Detection happens once; the parse path never falls back on partial
// structured input, so malformed YAML fails loudly instead of silently
// degrading to line splitting.
var structuredKeyPattern = regexp.MustCompile(`(?m)^(narration:|segments:)`)

func looksStructured(content string) bool {
	return structuredKeyPattern.MatchString(content)
}

func parseStructured(content string) (Script, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return Script{}, faults.Wrap(faults.ErrFormat, "script", "parse structured", "invalid YAML", err)
	}

	raw := doc.Segments
	if len(raw) == 0 {
		raw = doc.Narration.Segments
	}
	if len(raw) == 0 {
		return Script{}, faults.Wrap(faults.ErrFormat, "script", "parse structured", "no segments listed", nil)
	}

	segments := make([]Segment, 0, len(raw))
	for n, entry := range raw {
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			return Script{}, faults.Wrap(faults.ErrFormat, "script", "parse structured",
				fmt.Sprintf("segment %d has empty text", n+1), nil)
		}
		segments = append(segments, Segment{
			Index:   n + 1,
			Speaker: strings.TrimSpace(entry.Speaker),
			Voice:   strings.TrimSpace(entry.Voice),
			Style:   strings.TrimSpace(entry.Style),
			Text:    text,
		})
	}
	return Script{Kind: KindStructured, Segments: segments}, nil
}

var horizontalRulePattern = regexp.MustCompile(`^[-—━─]{3,}$`)

func parsePlain(content string) (Script, error) {
	var segments []Segment
	index := 1
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || horizontalRulePattern.MatchString(line) {
			continue
		}
		segments = append(segments, Segment{Index: index, Text: line})
		index++
	}
	if len(segments) == 0 {
		return Script{}, faults.Wrap(faults.ErrEmptyInput, "script", "parse plain", "no narration segments found", nil)
	}
	return Script{Kind: KindPlain, Segments: segments}, nil
}
