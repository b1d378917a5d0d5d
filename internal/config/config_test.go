package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"m4bforge/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantStaging := filepath.Join(tempHome, ".local", "share", "m4bforge", "staging")
	if cfg.Paths.StagingDir != wantStaging {
		t.Fatalf("unexpected staging dir: got %q want %q", cfg.Paths.StagingDir, wantStaging)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "audiobooks") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Encoding.Codec != "auto" {
		t.Fatalf("unexpected default codec: %q", cfg.Encoding.Codec)
	}
	if cfg.Encoding.Bitrate != "128k" {
		t.Fatalf("unexpected default bitrate: %q", cfg.Encoding.Bitrate)
	}
	if cfg.Chapters.TitlePattern != "Chapter {nn}" {
		t.Fatalf("unexpected chapter pattern: %q", cfg.Chapters.TitlePattern)
	}
	if !cfg.Chapters.UseTagTitles {
		t.Fatal("expected tag titles enabled by default")
	}
	if cfg.Books.BaseURL != "https://www.googleapis.com/books/v1" {
		t.Fatalf("unexpected books base url: %q", cfg.Books.BaseURL)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadReadsFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[paths]
staging_dir = "` + filepath.Join(dir, "work") + `"
output_dir = "` + filepath.Join(dir, "books") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[encoding]
codec = "AAC"
bitrate = "192K"
sample_rate = 44100

[books]
base_url = "https://example.test/books/"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Encoding.Codec != "aac" {
		t.Fatalf("codec not lowercased: %q", cfg.Encoding.Codec)
	}
	if cfg.Encoding.Bitrate != "192k" {
		t.Fatalf("bitrate not lowercased: %q", cfg.Encoding.Bitrate)
	}
	if cfg.Books.BaseURL != "https://example.test/books" {
		t.Fatalf("base url not trimmed: %q", cfg.Books.BaseURL)
	}
}

func TestLoadRejectsBadEncoding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[encoding]\ncodec = \"mp3\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "encoding.codec") {
		t.Fatalf("expected codec validation error, got %v", err)
	}
}

func TestLoadRejectsBadSampleRate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[encoding]\nsample_rate = 12345\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected sample rate validation error")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Encoding.Codec != "auto" {
		t.Fatalf("sample config should carry defaults, got codec %q", cfg.Encoding.Codec)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StagingDir, cfg.Paths.LogDir, cfg.Paths.OutputDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q", dir)
		}
	}
}
