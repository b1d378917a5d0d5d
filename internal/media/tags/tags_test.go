package tags

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeTestWAV(t *testing.T, path string, seconds int) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer file.Close()

	const sampleRate = 8000
	encoder := wav.NewEncoder(file, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, sampleRate*seconds),
		SourceBitDepth: 16,
	}
	if err := encoder.Write(buf); err != nil {
		t.Fatalf("write wav samples: %v", err)
	}
	if err := encoder.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
}

func TestProbeWAVReadsHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chapter01.wav")
	writeTestWAV(t, path, 2)

	info, err := Prober{}.Probe(context.Background(), path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Codec != "pcm" {
		t.Fatalf("unexpected codec: %q", info.Codec)
	}
	if info.SampleRate != 8000 {
		t.Fatalf("unexpected sample rate: %d", info.SampleRate)
	}
	if info.Duration < 1900*time.Millisecond || info.Duration > 2100*time.Millisecond {
		t.Fatalf("unexpected duration: %v", info.Duration)
	}
}

func TestProbeWAVRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bogus.wav")
	if err := os.WriteFile(path, []byte("not riff data"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := (Prober{}).Probe(context.Background(), path); err == nil {
		t.Fatal("expected error for invalid wav")
	}
}

func TestTitleOrStem(t *testing.T) {
	withTitle := Info{Path: "/in/01 - intro.mp3", Title: "Intro"}
	if got := withTitle.TitleOrStem(); got != "Intro" {
		t.Fatalf("unexpected title: %q", got)
	}
	noTitle := Info{Path: "/in/02  -  the    road.mp3"}
	if got := noTitle.TitleOrStem(); got != "02 - the road" {
		t.Fatalf("unexpected stem title: %q", got)
	}
}
