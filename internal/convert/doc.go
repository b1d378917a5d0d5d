// Package convert drives queued audiobook conversions through probing,
// muxing, and final placement in the output directory.
package convert
