package tags

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
)

// probeWAV reads duration and sample rate straight from the RIFF header, so
// WAV inputs don't need an ffprobe round trip.
func probeWAV(path string) (Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return Info{}, fmt.Errorf("probe %s: not a valid wav file", filepath.Base(path))
	}

	duration, err := decoder.Duration()
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: wav duration: %w", filepath.Base(path), err)
	}
	if duration <= 0 {
		return Info{}, fmt.Errorf("probe %s: no usable duration", filepath.Base(path))
	}

	return Info{
		Path:       path,
		Duration:   duration,
		Codec:      "pcm",
		SampleRate: int(decoder.SampleRate),
	}, nil
}
