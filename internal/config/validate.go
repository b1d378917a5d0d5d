package config

import (
	"errors"
	"fmt"
	"regexp"
)

var bitratePattern = regexp.MustCompile(`^\d+k$`)

// Known good sample rates for AAC output. 0 keeps the source rate.
var allowedSampleRates = map[int]struct{}{
	0:     {},
	22050: {},
	24000: {},
	32000: {},
	44100: {},
	48000: {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StagingDir == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateEncoding() error {
	switch c.Encoding.Codec {
	case "auto", "aac", "copy":
	default:
		return fmt.Errorf("encoding.codec must be auto, aac, or copy; got %q", c.Encoding.Codec)
	}
	if !bitratePattern.MatchString(c.Encoding.Bitrate) {
		return fmt.Errorf("encoding.bitrate must look like 128k; got %q", c.Encoding.Bitrate)
	}
	if _, ok := allowedSampleRates[c.Encoding.SampleRate]; !ok {
		return fmt.Errorf("encoding.sample_rate %d is not supported (use 0 for source rate)", c.Encoding.SampleRate)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json; got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error; got %q", c.Logging.Level)
	}
	return nil
}
