// Package chapters builds chapter plans from probed audio inputs and
// renders ffmpeg metadata documents for them.
package chapters
