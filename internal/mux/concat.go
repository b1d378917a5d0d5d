package mux

import (
	"fmt"
	"os"
	"strings"
)

// escapeConcatPath quotes a path for an ffmpeg concat list. Single quotes
// inside the path close the quote, emit an escaped quote, and reopen.
func escapeConcatPath(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}

// FormatConcat renders the concat demuxer file listing the inputs in order.
func FormatConcat(files []string) string {
	var sb strings.Builder
	for _, file := range files {
		sb.WriteString("file ")
		sb.WriteString(escapeConcatPath(file))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteConcat writes the concat list to path.
func WriteConcat(path string, files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("concat list requires at least one file")
	}
	if err := os.WriteFile(path, []byte(FormatConcat(files)), 0o644); err != nil {
		return fmt.Errorf("write concat list %q: %w", path, err)
	}
	return nil
}
