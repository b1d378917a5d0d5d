// Package mux concatenates audio inputs into a chapterized M4B via ffmpeg's
// concat demuxer and the ipod container.
package mux
