package cover

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("result is not JPEG: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestNormalizeDownscalesOversized(t *testing.T) {
	out, err := Normalize(encodePNG(t, 2800, 1400))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	w, h := decodeSize(t, out)
	if w != 1400 || h != 700 {
		t.Fatalf("got %dx%d, want 1400x700", w, h)
	}
}

func TestNormalizeKeepsSmallImages(t *testing.T) {
	out, err := Normalize(encodePNG(t, 600, 800))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	w, h := decodeSize(t, out)
	if w != 600 || h != 800 {
		t.Fatalf("small image resized to %dx%d", w, h)
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	if _, err := Normalize([]byte("not an image")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFindLocalPrefersCoverJPG(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"folder.jpg", "cover.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if got := FindLocal(dir); filepath.Base(got) != "cover.jpg" {
		t.Fatalf("FindLocal = %q", got)
	}
	if got := FindLocal(t.TempDir()); got != "" {
		t.Fatalf("expected empty for bare dir, got %q", got)
	}
}

func TestFetchDownloadsAndNormalizes(t *testing.T) {
	payload := encodePNG(t, 100, 100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client())
	out, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if w, h := decodeSize(t, out); w != 100 || h != 100 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}
}

func TestFetchRejectsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client())
	if _, err := fetcher.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 404")
	}
}
