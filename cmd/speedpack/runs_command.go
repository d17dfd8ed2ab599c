package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"speedpack/internal/config"
	"speedpack/internal/planstore"
	"speedpack/internal/report"
)

type runView struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	CatalogPath  string    `json:"catalog"`
	CrossRefPath string    `json:"crossref"`
	OutputPath   string    `json:"output,omitempty"`
	Prefix       string    `json:"prefix,omitempty"`
	MaxPerDir    int       `json:"max_per_dir"`
	Lines        int       `json:"lines"`
	Missing      int       `json:"missing"`
	Excluded     int       `json:"excluded"`
}

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var dbPath string
	var jsonOut bool

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List pack-list runs recorded in the plan database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPlanStore(ctx, dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			views := make([]runView, 0, len(runs))
			for _, run := range runs {
				views = append(views, runView{
					ID:           run.ID,
					CreatedAt:    run.CreatedAt,
					CatalogPath:  run.CatalogPath,
					CrossRefPath: run.CrossRefPath,
					OutputPath:   run.OutputPath,
					Prefix:       run.Prefix,
					MaxPerDir:    run.MaxPerDir,
					Lines:        run.Lines,
					Missing:      run.Missing,
					Excluded:     run.Excluded,
				})
			}
			if jsonOut {
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				output := v.OutputPath
				if output == "" {
					output = "stdout"
				}
				rows = append(rows, []string{
					v.ID,
					v.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					formatCount(v.Lines),
					formatCount(v.Missing),
					formatCount(v.Excluded),
					output,
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				textColumn("Run"), textColumn("Created"), countColumn("Lines"),
				countColumn("Missing"), countColumn("Excluded"), textColumn("Output"),
			}, rows))
			return nil
		},
	}
	runsCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Plan database path (default output.plan_db)")
	runsCmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")

	runsCmd.AddCommand(newRunsShowCommand(ctx, &dbPath))
	runsCmd.AddCommand(newRunsDeleteCommand(ctx, &dbPath))
	return runsCmd
}

func newRunsShowCommand(ctx *commandContext, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Print the pack list stored for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPlanStore(ctx, *dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			lines, err := store.Lines(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			w := report.NewTSVWriter(cmd.OutOrStdout())
			for _, line := range lines {
				if err := w.WriteLine(line); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}
}

func newRunsDeleteCommand(ctx *commandContext, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete RUN_ID",
		Short: "Remove a run from the plan database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPlanStore(ctx, *dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			id := strings.TrimSpace(args[0])
			deleted, err := store.DeleteRun(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("%w: %s", planstore.ErrRunNotFound, id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", id)
			return nil
		},
	}
}

func openPlanStore(ctx *commandContext, flagPath string) (*planstore.Store, error) {
	path := strings.TrimSpace(flagPath)
	if path == "" {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.Output.PlanDB
	} else {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return nil, fmt.Errorf("resolve plan database path: %w", err)
		}
		path = expanded
	}
	if path == "" {
		return nil, errors.New("no plan database configured (use --db or set output.plan_db)")
	}
	return planstore.Open(path)
}
