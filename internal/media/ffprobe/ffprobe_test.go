package ffprobe

import (
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", CodecName: "mjpeg"},
			{CodecType: "audio", CodecName: "AAC", Duration: "120.5", SampleRate: "44100", Channels: 2},
		},
		Format: Format{
			Duration: "123.45",
			Tags:     map[string]string{"TITLE": "  Chapter One  "},
		},
	}
	if result.AudioCodec() != "aac" {
		t.Fatalf("unexpected codec: %q", result.AudioCodec())
	}
	if result.SampleRateHz() != 44100 {
		t.Fatalf("unexpected sample rate: %d", result.SampleRateHz())
	}
	// Stream duration wins over container duration.
	if result.DurationSeconds() != 120.5 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.Title() != "Chapter One" {
		t.Fatalf("unexpected title: %q", result.Title())
	}
}

func TestDurationFallsBackToContainer(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio", Duration: "0"}},
		Format:  Format{Duration: "321.0"},
	}
	if result.DurationSeconds() != 321.0 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestHelpersHandleMissingData(t *testing.T) {
	var result Result
	if result.AudioCodec() != "" {
		t.Fatal("expected empty codec")
	}
	if result.SampleRateHz() != 0 {
		t.Fatal("expected zero sample rate")
	}
	if result.DurationSeconds() != 0 {
		t.Fatal("expected zero duration")
	}
	if result.Title() != "" {
		t.Fatal("expected empty title")
	}
}

func TestHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio", Duration: "bad", SampleRate: "nope"}},
		Format:  Format{Duration: "also bad"},
	}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected 0 duration, got %v", result.DurationSeconds())
	}
	if result.SampleRateHz() != 0 {
		t.Fatalf("expected 0 sample rate, got %d", result.SampleRateHz())
	}
}
