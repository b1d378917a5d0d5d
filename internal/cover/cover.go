package cover

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"

	"m4bforge/internal/services"
)

const (
	// maxDimension caps cover art size; larger images are downscaled so
	// players don't choke on oversized embedded artwork.
	maxDimension = 1400
	jpegQuality  = 90

	maxDownloadBytes   = 16 << 20
	defaultHTTPTimeout = 30 * time.Second
)

// coverNames are the artwork filenames looked for next to the audio inputs,
// in preference order.
var coverNames = []string{"cover.jpg", "cover.jpeg", "cover.png", "folder.jpg", "folder.png"}

// HTTPDoer describes the HTTP client used to fetch remote artwork.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher resolves cover art from local files or remote URLs.
type Fetcher struct {
	client HTTPDoer
}

// NewFetcher returns a Fetcher with a default HTTP client.
func NewFetcher(client HTTPDoer) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Fetcher{client: client}
}

// FindLocal searches dir for a conventional cover art file. It returns the
// empty string when none exists.
func FindLocal(dir string) string {
	for _, name := range coverNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads and normalizes a local cover file.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cover %q: %w", path, err)
	}
	normalized, err := Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("cover %q: %w", path, err)
	}
	return normalized, nil
}

// Fetch downloads remote artwork and normalizes it.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, services.Wrap(services.ErrValidation, "cover", "fetch", "cover URL is required", nil)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build cover request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "cover", "fetch", "cover download failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrTransient, "cover", "fetch",
			fmt.Sprintf("cover download returned %d", resp.StatusCode), nil)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read cover response: %w", err)
	}
	return Normalize(data)
}

// Normalize decodes artwork, downscales anything larger than maxDimension
// on either axis with Catmull-Rom, and re-encodes as JPEG. Aspect ratio is
// preserved.
func Normalize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode cover image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width > maxDimension || height > maxDimension {
		ratio := float64(width) / float64(height)
		if width >= height {
			width = maxDimension
			height = int(float64(maxDimension) / ratio)
		} else {
			height = maxDimension
			width = int(float64(maxDimension) * ratio)
		}
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode cover image: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteStaged saves normalized artwork into dir and returns its path.
func WriteStaged(dir string, data []byte) (string, error) {
	path := filepath.Join(dir, "cover.jpg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("stage cover %q: %w", path, err)
	}
	return path, nil
}
