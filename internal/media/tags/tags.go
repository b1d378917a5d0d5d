package tags

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bogem/id3v2"

	"m4bforge/internal/media/ffprobe"
	"m4bforge/internal/textutil"
)

// Info is the per-file metadata the chapter planner needs.
type Info struct {
	Path       string
	Title      string
	Artist     string
	Album      string
	Duration   time.Duration
	Codec      string
	SampleRate int
}

// Prober reads Info for audio files. MP3 tags and WAV headers are read
// natively; ffprobe covers duration, codec detection, and every other
// container.
type Prober struct {
	FFprobeBinary string
}

// Probe inspects one input file.
func (p Prober) Probe(ctx context.Context, path string) (Info, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return probeWAV(path)
	}

	result, err := ffprobe.Inspect(ctx, p.FFprobeBinary, path)
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", filepath.Base(path), err)
	}

	info := Info{
		Path:       path,
		Title:      textutil.CleanTitle(result.Title()),
		Codec:      result.AudioCodec(),
		SampleRate: result.SampleRateHz(),
		Duration:   time.Duration(result.DurationSeconds() * float64(time.Second)),
	}

	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		mergeID3(&info, path)
	}

	if info.Duration <= 0 {
		return Info{}, fmt.Errorf("probe %s: no usable duration", filepath.Base(path))
	}
	return info, nil
}

// TitleOrStem returns the embedded title when present, otherwise the cleaned
// filename stem.
func (i Info) TitleOrStem() string {
	if i.Title != "" {
		return i.Title
	}
	stem := strings.TrimSuffix(filepath.Base(i.Path), filepath.Ext(i.Path))
	return textutil.CleanTitle(stem)
}

// mergeID3 overlays ID3v2 text frames onto info. Read failures are ignored;
// ffprobe already produced a usable baseline.
func mergeID3(info *Info, path string) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil || tag == nil {
		return
	}
	defer tag.Close()

	if title := textutil.CleanTitle(tag.Title()); title != "" {
		info.Title = title
	}
	if artist := textutil.CleanTitle(tag.Artist()); artist != "" {
		info.Artist = artist
	}
	if album := textutil.CleanTitle(tag.Album()); album != "" {
		info.Album = album
	}
}
