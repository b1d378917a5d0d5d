package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"m4bforge/internal/books"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var (
		authorFlag string
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "lookup <title>",
		Short: "Search the book metadata service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results, err := books.NewClient(cfg).Search(cmd.Context(), args[0], authorFlag)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, results)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matches found")
				return nil
			}
			rows := make([][]string, 0, len(results))
			for _, meta := range results {
				rows = append(rows, []string{
					truncate(meta.Title, 40),
					truncate(joinNonEmpty(", ", meta.Authors...), 30),
					meta.Year(),
					truncate(meta.Publisher, 24),
					yesNo(meta.CoverURL != ""),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]string{"Title", "Authors", "Year", "Publisher", "Cover"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&authorFlag, "author", "", "Author hint to narrow the search")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	return cmd
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
