package mux

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"m4bforge/internal/services"
)

var commandContext = exec.CommandContext

// ProgressUpdate reports mux progress parsed from ffmpeg's stats stream.
type ProgressUpdate struct {
	Percent   float64
	Processed time.Duration
	Message   string
}

// Muxer runs ffmpeg concat muxes into the ipod container.
type Muxer struct {
	binary string
}

// Option configures a Muxer.
type Option func(*Muxer)

// WithBinary overrides the ffmpeg binary path.
func WithBinary(binary string) Option {
	return func(m *Muxer) {
		if binary != "" {
			m.binary = binary
		}
	}
}

// New constructs a Muxer using defaults.
func New(opts ...Option) *Muxer {
	muxer := &Muxer{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(muxer)
	}
	return muxer
}

// timePattern matches the time= token ffmpeg prints in stats lines.
var timePattern = regexp.MustCompile(`time=(\d+):(\d+):(\d+(?:\.\d+)?)`)

// Run executes the mux and streams progress updates while ffmpeg works.
// Stats lines arrive on stderr separated by carriage returns, so the
// scanner splits on both CR and LF.
func (m *Muxer) Run(ctx context.Context, req Request, progress func(ProgressUpdate)) error {
	if err := req.validate(); err != nil {
		return services.Wrap(services.ErrValidation, "mux", "run", err.Error(), nil)
	}

	args := BuildArgs(req)
	cmd := commandContext(ctx, m.binary, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrExternalTool, "mux", "run", "start ffmpeg", err)
	}

	var tail []string
	scanner := bufio.NewScanner(stderr)
	scanner.Split(scanCRLF)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if processed, ok := parseProcessedTime(line); ok {
			if progress != nil {
				progress(ProgressUpdate{
					Percent:   percentOf(processed, req.TotalDuration),
					Processed: processed,
					Message:   line,
				})
			}
			continue
		}
		tail = append(tail, line)
		if len(tail) > 20 {
			tail = tail[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read ffmpeg output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		detail := "ffmpeg mux failed"
		if len(tail) > 0 {
			detail = fmt.Sprintf("ffmpeg mux failed: %s", tail[len(tail)-1])
		}
		return services.Wrap(services.ErrExternalTool, "mux", "run", detail, err)
	}
	if progress != nil {
		progress(ProgressUpdate{Percent: 100, Processed: req.TotalDuration, Message: "mux complete"})
	}
	return nil
}

func parseProcessedTime(line string) (time.Duration, bool) {
	match := timePattern.FindStringSubmatch(line)
	if match == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.ParseFloat(match[3], 64)
	processed := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second))
	return processed, true
}

func percentOf(processed, total time.Duration) float64 {
	if total <= 0 {
		return -1
	}
	percent := float64(processed) / float64(total) * 100
	if percent > 100 {
		percent = 100
	}
	return percent
}

// scanCRLF splits on either \n or \r so ffmpeg's in-place stats updates
// surface as individual lines.
func scanCRLF(data []byte, atEOF bool) (int, []byte, error) {
	for i, b := range data {
		if b == '\n' || b == '\r' {
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
