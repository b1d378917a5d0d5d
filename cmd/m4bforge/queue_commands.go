package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"m4bforge/internal/books"
	"m4bforge/internal/config"
	"m4bforge/internal/convert"
	"m4bforge/internal/deps"
	"m4bforge/internal/queue"
	"m4bforge/internal/scan"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the conversion queue",
	}

	queueCmd.AddCommand(newQueueAddCommand(ctx))
	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueRunCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueueHealthCommand(ctx))

	return queueCmd
}

func newQueueAddCommand(ctx *commandContext) *cobra.Command {
	var (
		titleFlag   string
		authorFlag  string
		patternFlag string
		outputFlag  string
		skipLookup  bool
	)

	cmd := &cobra.Command{
		Use:   "add <input-dir>...",
		Short: "Queue one or more book directories for conversion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if len(args) > 1 && (titleFlag != "" || outputFlag != "") {
				return fmt.Errorf("--title and --output apply to a single directory")
			}
			return ctx.withStore(func(store *queue.Store) error {
				for _, arg := range args {
					inputDir, err := config.ExpandPath(arg)
					if err != nil {
						return err
					}
					if _, err := scan.Files(inputDir, false); err != nil {
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
					}
					if !skipLookup {
						match, err := books.NewClient(cfg).BestMatch(cmd.Context(), title, authorFlag)
						if err == nil && match != nil {
							if raw, marshalErr := json.Marshal(match); marshalErr == nil {
								item.MetadataJSON = string(raw)
							}
						}
					}
					queued, err := store.NewJob(cmd.Context(), item)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Queued #%d %s\n", queued.ID, queued.BookTitle)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&titleFlag, "title", "", "Book title (defaults to the directory name)")
	cmd.Flags().StringVar(&authorFlag, "author", "", "Author hint for the metadata lookup")
	cmd.Flags().StringVar(&patternFlag, "pattern", "", "Chapter title pattern")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output M4B path")
	cmd.Flags().BoolVar(&skipLookup, "no-lookup", false, "Skip the online metadata lookup")
	return cmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var statusFlags []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var statuses []queue.Status
			for _, raw := range statusFlags {
				status, ok := queue.ParseStatus(raw)
				if !ok {
					return fmt.Errorf("unknown status %q", raw)
				}
				statuses = append(statuses, status)
			}
			return ctx.withStore(func(store *queue.Store) error {
				items, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, item := range items {
					detail := item.ProgressMessage
					if item.Status == queue.StatusFailed {
						detail = item.ErrorMessage
					}
					rows = append(rows, []string{
						strconv.FormatInt(item.ID, 10),
						truncate(item.BookTitle, 36),
						string(item.Status),
						fmt.Sprintf("%.0f%%", item.ProgressPercent),
						truncate(detail, 44),
					})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Title", "Status", "Progress", "Detail"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&statusFlags, "status", nil, "Filter by status (repeatable)")
	return cmd
}

func newQueueRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process pending conversions until the queue is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if missing := deps.MissingRequired(deps.CheckBinaries(deps.Default(cfg))); len(missing) > 0 {
				return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
			}
			lock := convert.NewRunLock(cfg)
			if err := lock.Acquire(); err != nil {
				return err
			}
			defer lock.Release()

			return ctx.withStore(func(store *queue.Store) error {
				// Jobs stranded mid-flight by a previous crash go back
				// to pending before the drain starts.
				if reset, err := store.ResetStuck(cmd.Context()); err != nil {
					return err
				} else if reset > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Reset %d interrupted job(s)\n", reset)
				}
				runner := convert.NewRunner(cfg, store, ctx.ensureLogger())
				completed, err := runner.Run(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "Completed %d conversion(s)\n", completed)
				return err
			})
		},
	}
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <id>",
		Short: "Requeue a failed conversion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid queue id %q", args[0])
			}
			return ctx.withStore(func(store *queue.Store) error {
				if err := store.Retry(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Requeued #%d\n", id)
				return nil
			})
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove completed jobs (or everything with --all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				removed, err := store.Clear(cmd.Context(), all)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d job(s)\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove every job regardless of status")
	return cmd
}

func newQueueHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show queue health counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				summary, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, summary)
				}
				rows := [][]string{
					{"Total", strconv.Itoa(summary.Total)},
					{"Pending", strconv.Itoa(summary.Pending)},
					{"Processing", strconv.Itoa(summary.Processing)},
					{"Completed", strconv.Itoa(summary.Completed)},
					{"Failed", strconv.Itoa(summary.Failed)},
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"State", "Count"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit counters as JSON")
	return cmd
}
