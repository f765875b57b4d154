package timecode

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// TicksPerSecond is the tick resolution used by edit-exchange documents.
// Nonlinear editors place clips on this grid, so tick conversion must be
// exact for every supported frame rate.
const TicksPerSecond int64 = 254016000000

// Rate describes the frame rate convention for a run. Timebase is the
// nominal frame count per second; NTSC scales it by 1000/1001. DropFrame
// only affects timecode display (the ';' frame separator).
type Rate struct {
	Timebase  int
	NTSC      bool
	DropFrame bool
}

// New validates and constructs a Rate.
func New(timebase int, ntsc, dropFrame bool) (Rate, error) {
	r := Rate{Timebase: timebase, NTSC: ntsc, DropFrame: dropFrame}
	if timebase <= 0 {
		return Rate{}, fmt.Errorf("timecode: timebase must be positive, got %d", timebase)
	}
	if _, err := r.TicksPerFrame(); err != nil {
		return Rate{}, err
	}
	return r, nil
}

// frac returns the exact frame rate as a rational number.
func (r Rate) frac() (num, den int64) {
	if r.NTSC {
		return int64(r.Timebase) * 1000, 1001
	}
	return int64(r.Timebase), 1
}

// FPS returns the frame rate as a float for display purposes only.
func (r Rate) FPS() float64 {
	num, den := r.frac()
	return float64(num) / float64(den)
}

// FramesFromMillis converts an absolute millisecond position to a frame
// count, rounding half up on the exact rational rate. Deriving every frame
// boundary from cumulative millisecond totals keeps rounding drift across a
// whole timeline under one frame.
func (r Rate) FramesFromMillis(ms int64) int64 {
	num, den := r.frac()
	d := 1000 * den
	n := ms*num + d/2
	if ms < 0 {
		n = ms*num - d/2
	}
	return n / d
}

// FramesFromSeconds converts a duration in seconds to whole frames,
// rounding to nearest. Used for configured gaps, not cumulative positions.
func (r Rate) FramesFromSeconds(sec float64) int64 {
	return int64(math.Round(sec * r.FPS()))
}

// MillisFromFrames converts a frame count back to milliseconds, rounding
// to nearest.
func (r Rate) MillisFromFrames(frames int64) int64 {
	num, den := r.frac()
	n := frames*1000*den + num/2
	if frames < 0 {
		n = frames*1000*den - num/2
	}
	return n / num
}

// SecondsFromFrames converts a frame count to seconds for display.
func (r Rate) SecondsFromFrames(frames int64) float64 {
	return float64(frames) / r.FPS()
}

// TicksPerFrame returns the exact edit-exchange tick count for one frame.
// The tick grid must divide the frame rate exactly; anything else would
// produce timelines that drift when imported.
func (r Rate) TicksPerFrame() (int64, error) {
	num, den := r.frac()
	total := TicksPerSecond * den
	if total%num != 0 {
		return 0, fmt.Errorf("timecode: rate %d/%d does not divide the tick grid", num, den)
	}
	return total / num, nil
}

// TicksFromFrames converts a frame count to edit-exchange ticks.
func (r Rate) TicksFromFrames(frames int64) int64 {
	per, err := r.TicksPerFrame()
	if err != nil {
		return 0
	}
	return frames * per
}

// Timecode renders a frame count as HH:MM:SS:FF, using the nominal
// timebase for the frame field. Drop-frame rates use ';' before the frame
// field, matching editor display conventions.
func (r Rate) Timecode(frames int64) string {
	tb := int64(r.Timebase)
	ff := frames % tb
	totalSeconds := frames / tb

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	sep := ":"
	if r.DropFrame {
		sep = ";"
	}
	return fmt.Sprintf("%02d:%02d:%02d%s%02d", hours, minutes, seconds, sep, ff)
}

// SRTTimestamp renders milliseconds as HH:MM:SS,mmm.
func SRTTimestamp(ms int64) string {
	hours := ms / 3_600_000
	ms %= 3_600_000
	minutes := ms / 60_000
	ms %= 60_000
	seconds := ms / 1_000
	millis := ms % 1_000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// srtTimestampPattern accepts the standard ',' millisecond separator and
// the legacy '.' variant some caption tools emit.
var srtTimestampPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})[,.](\d{3})$`)

// ParseSRTTimestamp parses HH:MM:SS,mmm into milliseconds. The legacy '.'
// separator is accepted and canonicalized; no other normalization happens.
func ParseSRTTimestamp(value string) (int64, error) {
	match := srtTimestampPattern.FindStringSubmatch(value)
	if match == nil {
		return 0, fmt.Errorf("timecode: invalid timestamp %q", value)
	}
	hours, _ := strconv.ParseInt(match[1], 10, 64)
	minutes, _ := strconv.ParseInt(match[2], 10, 64)
	seconds, _ := strconv.ParseInt(match[3], 10, 64)
	millis, _ := strconv.ParseInt(match[4], 10, 64)
	if minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("timecode: invalid timestamp %q", value)
	}
	return hours*3_600_000 + minutes*60_000 + seconds*1_000 + millis, nil
}
