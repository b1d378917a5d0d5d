package scan

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BookTitle derives a human-friendly book title from the input directory
// name. Separators collapse to spaces and the result is title-cased.
func BookTitle(dir string) string {
	if dir == "" {
		return "Unknown Book"
	}
	base := filepath.Base(filepath.Clean(dir))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Unknown Book"
	}
	return cases.Title(language.Und).String(title)
}
