package config

const (
	defaultStagingDir          = "~/.local/share/m4bforge/staging"
	defaultOutputDir           = "~/audiobooks"
	defaultLogDir              = "~/.local/share/m4bforge/logs"
	defaultCodec               = "auto"
	defaultBitrate             = "128k"
	defaultSampleRate          = 0
	defaultTitlePattern        = "Chapter {nn}"
	defaultBooksBaseURL        = "https://www.googleapis.com/books/v1"
	defaultBooksLanguage       = "en"
	defaultBooksMaxResults     = 10
	defaultBooksTimeoutSeconds = 15
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
		},
		Encoding: Encoding{
			Codec:      defaultCodec,
			Bitrate:    defaultBitrate,
			SampleRate: defaultSampleRate,
		},
		Chapters: Chapters{
			TitlePattern: defaultTitlePattern,
			UseTagTitles: true,
		},
		Books: Books{
			BaseURL:        defaultBooksBaseURL,
			Language:       defaultBooksLanguage,
			MaxResults:     defaultBooksMaxResults,
			TimeoutSeconds: defaultBooksTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
