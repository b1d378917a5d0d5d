package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"m4bforge/internal/chapters"
	"m4bforge/internal/config"
	"m4bforge/internal/media/tags"
	"m4bforge/internal/scan"
)

func newChaptersCommand(ctx *commandContext) *cobra.Command {
	var (
		patternFlag  string
		ruleFlags    []string
		useTagTitles bool
		recursive    bool
		jsonOut      bool
	)

	cmd := &cobra.Command{
		Use:   "chapters <input-dir>",
		Short: "Preview the chapter plan without converting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			inputDir, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			files, err := scan.Files(inputDir, recursive)
			if err != nil {
				return err
			}

			pattern := patternFlag
			if pattern == "" {
				pattern = cfg.Chapters.TitlePattern
			}
			rules, err := parseRules(ruleFlags)
			if err != nil {
				return err
			}
			prober := tags.Prober{FFprobeBinary: cfg.FFprobeBinary()}
			builder := chapters.Builder{
				Probe:        prober.Probe,
				TitlePattern: pattern,
				UseTagTitles: useTagTitles || (patternFlag == "" && cfg.Chapters.UseTagTitles),
				Rules:        rules,
			}
			plan, err := builder.Build(cmd.Context(), files)
			if err != nil {
				return err
			}

			if jsonOut {
				type chapterView struct {
					Index  int    `json:"index"`
					Title  string `json:"title"`
					Start  string `json:"start"`
					End    string `json:"end"`
					Source string `json:"source"`
				}
				views := make([]chapterView, 0, len(plan.Chapters))
				for _, chapter := range plan.Chapters {
					views = append(views, chapterView{
						Index:  chapter.Index,
						Title:  chapter.Title,
						Start:  chapters.FormatTimestamp(chapter.Start),
						End:    chapters.FormatTimestamp(chapter.End),
						Source: plan.Inputs[chapter.Index-1].Path,
					})
				}
				return writeJSON(cmd, views)
			}

			rows := make([][]string, 0, len(plan.Chapters))
			for _, chapter := range plan.Chapters {
				rows = append(rows, []string{
					strconv.Itoa(chapter.Index),
					truncate(chapter.Title, 48),
					chapters.FormatTimestamp(chapter.Start),
					chapters.FormatTimestamp(chapter.End),
					filepath.Base(plan.Inputs[chapter.Index-1].Path),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderTable(
				[]string{"#", "Title", "Start", "End", "Source"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "Total duration: %s across %d chapters\n",
				formatClock(plan.Total), len(plan.Chapters))
			return nil
		},
	}

	cmd.Flags().StringVar(&patternFlag, "pattern", "", "Chapter title pattern, e.g. \"Chapter {nn}\"")
	cmd.Flags().StringArrayVar(&ruleFlags, "rule", nil, "Title rewrite rule PATTERN=>REPLACEMENT (repeatable)")
	cmd.Flags().BoolVar(&useTagTitles, "use-tag-titles", false, "Prefer embedded track titles for chapter names")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the chapter plan as JSON")

	return cmd
}
