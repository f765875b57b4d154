package ffprobe

import "testing"

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio", SampleRate: "24000", Channels: 1},
		},
		Format: Format{
			Duration: "4.217",
		},
	}
	if got := result.DurationSeconds(); got != 4.217 {
		t.Fatalf("duration seconds = %v", got)
	}
	if got := result.DurationMillis(); got != 4217 {
		t.Fatalf("duration millis = %d", got)
	}
	if got := result.SampleRate(); got != 24000 {
		t.Fatalf("sample rate = %d", got)
	}
}

func TestResultHelpersHandleInvalidValues(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio", SampleRate: "nope"}},
		Format:  Format{Duration: "bad"},
	}
	if got := result.DurationSeconds(); got != 0 {
		t.Fatalf("expected 0 duration, got %v", got)
	}
	if got := result.SampleRate(); got != 0 {
		t.Fatalf("expected 0 sample rate, got %d", got)
	}
}
