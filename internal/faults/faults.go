package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFormat marks malformed input structure; the run aborts before any
	// computation.
	ErrFormat = errors.New("format error")
	// ErrMissingAudio marks an expected audio index with no file on disk.
	// Timeline arithmetic is meaningless with a gap in the index space.
	ErrMissingAudio = errors.New("missing audio")
	// ErrEmptyInput marks zero segments or zero captions.
	ErrEmptyInput = errors.New("empty input")
	// ErrExternalTool marks a probe or other external command failure.
	ErrExternalTool = errors.New("external tool error")
	// ErrConfiguration marks invalid or missing configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes phase context while tagging it
// with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, phase, operation, message string, err error) error {
	detail := buildDetail(phase, operation, message)
	if marker == nil {
		marker = ErrFormat
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether err should abort the run before outputs are written.
// Allocation fallbacks and validation findings are never errors, so every
// tagged error here is fatal by construction; untagged errors are treated
// as fatal too.
func Fatal(err error) bool {
	return err != nil
}

func buildDetail(phase, operation, message string) string {
	parts := make([]string, 0, 3)
	if phase = strings.TrimSpace(phase); phase != "" {
		parts = append(parts, phase)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
