package mux

import (
	"errors"
	"strconv"
	"time"
)

// Request describes one mux run: ordered inputs via a concat list, chapter
// metadata, optional cover art, and the resolved encode settings.
type Request struct {
	ConcatPath    string
	MetadataPath  string
	CoverPath     string
	OutputPath    string
	Settings      Settings
	TotalDuration time.Duration
}

func (r Request) validate() error {
	switch {
	case r.ConcatPath == "":
		return errors.New("concat list path required")
	case r.MetadataPath == "":
		return errors.New("metadata path required")
	case r.OutputPath == "":
		return errors.New("output path required")
	case r.Settings.Codec != "copy" && r.Settings.Codec != "aac":
		return errors.New("settings must be resolved before muxing")
	}
	return nil
}

// BuildArgs assembles the ffmpeg argument list for the request. Input 0 is
// the concat list, input 1 the metadata document, input 2 the optional
// cover image mapped as an attached picture.
func BuildArgs(req Request) []string {
	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-f", "concat", "-safe", "0", "-i", req.ConcatPath,
		"-i", req.MetadataPath,
	}
	if req.CoverPath != "" {
		args = append(args, "-i", req.CoverPath)
	}
	args = append(args, "-map", "0:a", "-map_metadata", "1")
	if req.CoverPath != "" {
		args = append(args,
			"-map", "2:v",
			"-c:v", "mjpeg",
			"-disposition:v:0", "attached_pic",
		)
	}
	args = append(args, "-c:a", req.Settings.Codec)
	if req.Settings.Codec == "aac" {
		if req.Settings.Bitrate != "" {
			args = append(args, "-b:a", req.Settings.Bitrate)
		}
		if req.Settings.SampleRate > 0 {
			args = append(args, "-ar", strconv.Itoa(req.Settings.SampleRate))
		}
	}
	args = append(args,
		"-movflags", "+faststart",
		"-f", "ipod",
		req.OutputPath,
	)
	return args
}
