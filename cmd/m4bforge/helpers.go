package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"m4bforge/internal/rename"
)

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func truncate(value string, max int) string {
	if max <= 3 || len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// parseRules turns repeated --rule flags of the form "PATTERN=>REPLACEMENT"
// into a compiled rewrite pipeline. Invalid regexes surface as an error so
// typos fail fast instead of being silently skipped.
func parseRules(raw []string) (*rename.Pipeline, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	rules := make([]rename.Rule, 0, len(raw))
	for _, entry := range raw {
		pattern, replacement, found := strings.Cut(entry, "=>")
		if !found {
			return nil, fmt.Errorf("rule %q must use the form PATTERN=>REPLACEMENT", entry)
		}
		rules = append(rules, rename.Rule{Pattern: pattern, Replacement: replacement})
	}
	pipeline := rename.NewPipeline(rules)
	if diags := pipeline.Diagnostics(); len(diags) > 0 {
		return nil, fmt.Errorf("invalid rule: %s", diags[0])
	}
	return pipeline, nil
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}
