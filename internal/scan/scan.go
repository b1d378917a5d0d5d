package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// audioExtensions lists the input containers the muxer accepts.
var audioExtensions = map[string]struct{}{
	".mp3": {},
	".m4a": {},
	".m4b": {},
	".aac": {},
	".wav": {},
}

// IsAudioFile reports whether path carries a supported audio extension.
func IsAudioFile(path string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Files discovers the audio files under dir, optionally descending into
// subdirectories. Results are absolute, de-duplicated, and ordered with
// numeric-aware collation so "chapter 2" sorts before "chapter 10". An empty
// result is an error: a book needs at least one input.
func Files(dir string, recursive bool) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("input directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %q is not a directory", dir)
	}

	seen := make(map[string]struct{})
	var files []string
	collect := func(path string) error {
		if !IsAudioFile(path) {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", path, err)
		}
		if _, dup := seen[abs]; dup {
			return nil
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
		return nil
	}

	if recursive {
		err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			return collect(path)
		})
	} else {
		var entries []fs.DirEntry
		entries, err = os.ReadDir(dir)
		if err == nil {
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				if collectErr := collect(filepath.Join(dir, entry.Name())); collectErr != nil {
					err = collectErr
					break
				}
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", dir, err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no audio files found in %q", dir)
	}

	collate.New(language.Und, collate.Numeric).SortStrings(files)
	return files, nil
}
