package chapters

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// BookMeta carries container-level tags written ahead of the chapter list.
type BookMeta struct {
	Title  string
	Artist string
	Album  string
	Genre  string
	Year   string
}

// metadataEscaper protects the characters ffmpeg's metadata parser treats
// specially. Backslash must be handled before the rest.
var metadataEscaper = strings.NewReplacer(
	`\`, `\\`,
	`=`, `\=`,
	`;`, `\;`,
	`#`, `\#`,
)

func escapeMetadata(value string) string {
	return metadataEscaper.Replace(value)
}

// FormatMetadata renders an ffmpeg FFMETADATA1 document for the plan.
// Chapter times use a millisecond timebase.
func FormatMetadata(meta BookMeta, plan Plan) string {
	var sb strings.Builder
	sb.WriteString(";FFMETADATA1\n")
	writeTag := func(key, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&sb, "%s=%s\n", key, escapeMetadata(value))
	}
	writeTag("title", meta.Title)
	writeTag("artist", meta.Artist)
	writeTag("album", meta.Album)
	writeTag("genre", meta.Genre)
	writeTag("date", meta.Year)

	for _, chapter := range plan.Chapters {
		sb.WriteString("\n[CHAPTER]\n")
		sb.WriteString("TIMEBASE=1/1000\n")
		fmt.Fprintf(&sb, "START=%d\n", chapter.Start.Milliseconds())
		fmt.Fprintf(&sb, "END=%d\n", chapter.End.Milliseconds())
		fmt.Fprintf(&sb, "title=%s\n", escapeMetadata(chapter.Title))
	}
	return sb.String()
}

// WriteMetadata writes the FFMETADATA1 document to path.
func WriteMetadata(path string, meta BookMeta, plan Plan) error {
	if err := os.WriteFile(path, []byte(FormatMetadata(meta, plan)), 0o644); err != nil {
		return fmt.Errorf("write chapter metadata %q: %w", path, err)
	}
	return nil
}

// FormatTimestamp renders a duration as HH:MM:SS.mmm for display.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalMillis := d.Milliseconds()
	hours := totalMillis / 3_600_000
	minutes := (totalMillis % 3_600_000) / 60_000
	seconds := (totalMillis % 60_000) / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}
