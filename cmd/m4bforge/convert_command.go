package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"m4bforge/internal/books"
	"m4bforge/internal/config"
	"m4bforge/internal/convert"
	"m4bforge/internal/deps"
	"m4bforge/internal/mux"
	"m4bforge/internal/queue"
	"m4bforge/internal/scan"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		outputFlag     string
		titleFlag      string
		authorFlag     string
		patternFlag    string
		coverFlag      string
		codecFlag      string
		bitrateFlag    string
		ruleFlags      []string
		sampleRateFlag int
		useTagTitles   bool
		skipLookup     bool
	)

	cmd := &cobra.Command{
		Use:   "convert <input-dir>",
		Short: "Convert a directory of audio files into one M4B",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if missing := deps.MissingRequired(deps.CheckBinaries(deps.Default(cfg))); len(missing) > 0 {
				return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
			}

			inputDir, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			title := strings.TrimSpace(titleFlag)
			if title == "" {
				title = scan.BookTitle(inputDir)
			}

			item := queue.Item{
				InputDir:   inputDir,
				BookTitle:  title,
				OutputFile: strings.TrimSpace(outputFlag),
				Pattern:    strings.TrimSpace(patternFlag),
				CoverPath:  strings.TrimSpace(coverFlag),
			}
			if useTagTitles {
				cfg.Chapters.UseTagTitles = true
			}

			if !skipLookup {
				match, err := books.NewClient(cfg).BestMatch(cmd.Context(), title, authorFlag)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Metadata lookup unavailable: %v\n", err)
				} else if match != nil {
					raw, err := json.Marshal(match)
					if err != nil {
						return fmt.Errorf("encode metadata: %w", err)
					}
					item.MetadataJSON = string(raw)
					fmt.Fprintf(cmd.OutOrStdout(), "Matched %q by %s\n", match.Title,
						joinNonEmpty(", ", match.Authors...))
				}
			}

			settings := mux.SettingsFromConfig(cfg)
			if codec := strings.TrimSpace(codecFlag); codec != "" {
				settings.Codec = codec
			}
			if bitrate := strings.TrimSpace(bitrateFlag); bitrate != "" {
				settings.Bitrate = bitrate
			}
			if sampleRateFlag > 0 {
				settings.SampleRate = sampleRateFlag
			}
			rawSettings, err := json.Marshal(settings)
			if err != nil {
				return fmt.Errorf("encode settings: %w", err)
			}
			item.SettingsJSON = string(rawSettings)

			rules, err := parseRules(ruleFlags)
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *queue.Store) error {
				queued, err := store.NewJob(cmd.Context(), item)
				if err != nil {
					return err
				}
				runner := convert.NewRunner(cfg, store, ctx.ensureLogger(), convert.WithRules(rules))
				if err := runner.Process(cmd.Context(), queued); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", queued.FinalFile)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output M4B path (defaults to the output directory)")
	cmd.Flags().StringVar(&titleFlag, "title", "", "Book title (defaults to the input directory name)")
	cmd.Flags().StringVar(&authorFlag, "author", "", "Author hint for the metadata lookup")
	cmd.Flags().StringVar(&patternFlag, "pattern", "", "Chapter title pattern, e.g. \"Chapter {nn}\"")
	cmd.Flags().StringArrayVar(&ruleFlags, "rule", nil, "Title rewrite rule PATTERN=>REPLACEMENT (repeatable)")
	cmd.Flags().StringVar(&coverFlag, "cover", "", "Cover image path")
	cmd.Flags().StringVar(&codecFlag, "codec", "", "Audio codec: auto, aac, or copy")
	cmd.Flags().StringVar(&bitrateFlag, "bitrate", "", "AAC bitrate, e.g. 128k")
	cmd.Flags().IntVar(&sampleRateFlag, "sample-rate", 0, "AAC sample rate in Hz")
	cmd.Flags().BoolVar(&useTagTitles, "use-tag-titles", false, "Prefer embedded track titles for chapter names")
	cmd.Flags().BoolVar(&skipLookup, "no-lookup", false, "Skip the online metadata lookup")

	return cmd
}
