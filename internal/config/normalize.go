package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEncoding()
	c.normalizeChapters()
	c.normalizeBooks()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeEncoding() {
	c.Encoding.Codec = strings.ToLower(strings.TrimSpace(c.Encoding.Codec))
	if c.Encoding.Codec == "" {
		c.Encoding.Codec = defaultCodec
	}
	c.Encoding.Bitrate = strings.ToLower(strings.TrimSpace(c.Encoding.Bitrate))
	if c.Encoding.Bitrate == "" {
		c.Encoding.Bitrate = defaultBitrate
	}
	if c.Encoding.SampleRate < 0 {
		c.Encoding.SampleRate = 0
	}
}

func (c *Config) normalizeChapters() {
	if strings.TrimSpace(c.Chapters.TitlePattern) == "" {
		c.Chapters.TitlePattern = defaultTitlePattern
	}
}

func (c *Config) normalizeBooks() {
	c.Books.BaseURL = strings.TrimRight(strings.TrimSpace(c.Books.BaseURL), "/")
	if c.Books.BaseURL == "" {
		c.Books.BaseURL = defaultBooksBaseURL
	}
	c.Books.Language = strings.TrimSpace(c.Books.Language)
	if c.Books.MaxResults <= 0 {
		c.Books.MaxResults = defaultBooksMaxResults
	}
	if c.Books.TimeoutSeconds <= 0 {
		c.Books.TimeoutSeconds = defaultBooksTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
