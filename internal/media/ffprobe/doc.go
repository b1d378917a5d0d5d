// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no m4bforge-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties
//   - Format: container-level metadata (duration, size, tags)
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns a parsed Result
//
// Helper methods on Result expose the first audio stream's codec and sample
// rate, duration with stream-before-container fallback, and the title tag.
package ffprobe
