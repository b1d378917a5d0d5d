package mux

import (
	"fmt"
	"strings"

	"m4bforge/internal/config"
	"m4bforge/internal/media/tags"
	"m4bforge/internal/services"
)

// Settings captures the encode decisions for one mux run.
type Settings struct {
	// Codec is "copy" or "aac" after resolution; "auto" before.
	Codec      string `json:"codec"`
	Bitrate    string `json:"bitrate"`
	SampleRate int    `json:"sample_rate"`
}

// SettingsFromConfig seeds settings from configuration defaults.
func SettingsFromConfig(cfg *config.Config) Settings {
	if cfg == nil {
		return Settings{Codec: "auto", Bitrate: "128k"}
	}
	return Settings{
		Codec:      cfg.Encoding.Codec,
		Bitrate:    cfg.Encoding.Bitrate,
		SampleRate: cfg.Encoding.SampleRate,
	}
}

// Resolve turns an "auto" codec into a concrete decision based on the
// probed inputs: passthrough when every source is already AAC, otherwise
// re-encode. An explicit "copy" with non-AAC inputs is rejected since the
// ipod container cannot carry them.
func (s Settings) Resolve(inputs []tags.Info) (Settings, error) {
	resolved := s
	resolved.Codec = strings.ToLower(strings.TrimSpace(resolved.Codec))
	allAAC := len(inputs) > 0
	for _, input := range inputs {
		if !strings.EqualFold(input.Codec, "aac") {
			allAAC = false
			break
		}
	}
	switch resolved.Codec {
	case "", "auto":
		if allAAC {
			resolved.Codec = "copy"
		} else {
			resolved.Codec = "aac"
		}
	case "copy":
		if !allAAC {
			return Settings{}, services.Wrap(services.ErrValidation, "mux", "resolve",
				"codec copy requires every input to be AAC", nil)
		}
	case "aac":
	default:
		return Settings{}, services.Wrap(services.ErrValidation, "mux", "resolve",
			fmt.Sprintf("unsupported codec %q", resolved.Codec), nil)
	}
	if resolved.Codec == "aac" && strings.TrimSpace(resolved.Bitrate) == "" {
		resolved.Bitrate = "128k"
	}
	return resolved, nil
}
