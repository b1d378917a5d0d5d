package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"m4bforge/internal/config"
	"m4bforge/internal/media/tags"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect one audio file's tags and stream info",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			prober := tags.Prober{FFprobeBinary: cfg.FFprobeBinary()}
			info, err := prober.Probe(cmd.Context(), path)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, info)
			}
			rows := [][]string{
				{"Path", info.Path},
				{"Title", info.Title},
				{"Artist", info.Artist},
				{"Album", info.Album},
				{"Codec", info.Codec},
				{"Sample rate", fmt.Sprintf("%d Hz", info.SampleRate)},
				{"Duration", formatClock(info.Duration)},
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]string{"Field", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit probe results as JSON")
	return cmd
}
