package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"speedpack/internal/config"
	"speedpack/internal/fileutil"
	"speedpack/internal/packlist"
	"speedpack/internal/planstore"
	"speedpack/internal/report"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var flags planFlags
	var showSummary bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate the pack list",
		Long: "Generate the pack list for a catalog and cross-reference.\n\n" +
			"Each rom is written once per speed class (50Hz first, then 60Hz) as\n" +
			"translated-hash, path, sha1, md5 and crc separated by tabs.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := flags.apply(cmd, base)
			if err != nil {
				return err
			}
			if err := cfg.ValidateInputs(); err != nil {
				return err
			}
			summary, err := runPlan(cmd, cfg)
			if err != nil {
				return err
			}
			if showSummary {
				printPlanSummary(cmd.ErrOrStderr(), cfg, summary)
			}
			return nil
		},
	}

	flags.registerCatalog(cmd)
	flags.registerOutput(cmd)
	cmd.Flags().BoolVar(&showSummary, "summary", false, "Print a bucket table to stderr when done")
	return cmd
}

func runPlan(cmd *cobra.Command, cfg *config.Config) (*packlist.Summary, error) {
	logger, err := commandLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}

	var sink io.Writer = cmd.OutOrStdout()
	var file *fileutil.AtomicFile
	if cfg.Output.Path != "" {
		lock, err := fileutil.LockOutput(cfg.Output.Path)
		if err != nil {
			return nil, err
		}
		defer lock.Release()

		file, err = fileutil.CreateAtomic(cfg.Output.Path)
		if err != nil {
			return nil, err
		}
		defer file.Abort()
		sink = file
	}

	opts := packOptions(cfg)
	opts.RunID = uuid.NewString()

	tsv := report.NewTSVWriter(sink)
	var out report.LineWriter = tsv
	var run *planstore.RunWriter
	if cfg.Output.PlanDB != "" {
		store, err := planstore.Open(cfg.Output.PlanDB)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		run, err = store.BeginRun(cmd.Context(), planstore.RunInfo{
			ID:           opts.RunID,
			CatalogPath:  cfg.Inputs.Dat,
			CrossRefPath: cfg.Inputs.SMDB,
			OutputPath:   cfg.Output.Path,
			Prefix:       cfg.Output.Prefix,
			MaxPerDir:    cfg.Output.MaxPerDir,
		})
		if err != nil {
			return nil, err
		}
		defer run.Rollback()
		out = report.MultiWriter(tsv, run)
	}

	summary, err := packlist.Run(cmd.Context(), opts, out, logger)
	if err != nil {
		return nil, err
	}
	if err := tsv.Flush(); err != nil {
		return nil, err
	}
	if file != nil {
		if err := file.Commit(); err != nil {
			return nil, err
		}
	}
	if run != nil {
		run.SetExcluded(summary.Excluded)
		if err := run.Commit(); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

func printPlanSummary(w io.Writer, cfg *config.Config, summary *packlist.Summary) {
	rows := make([][]string, 0, len(summary.Buckets))
	for _, bs := range summary.Buckets {
		rows = append(rows, []string{
			strconv.Itoa(bs.Bucket),
			string(bs.Speed),
			bs.Span,
			formatCount(bs.Records),
			formatCount(bs.Written),
			formatCount(bs.Excluded),
			formatCount(bs.Missing),
		})
	}
	fmt.Fprintln(w, renderTable([]column{
		countColumn("#"), textColumn("Speed"), textColumn("Span"),
		countColumn("Records"), countColumn("Written"), countColumn("Excluded"), countColumn("Missing"),
	}, rows))

	colorize := shouldColorize(w)
	destination := cfg.Output.Path
	if destination == "" {
		destination = "stdout"
	}
	fmt.Fprintln(w, renderStatusLine("Pack list", statusOK,
		fmt.Sprintf("%s lines to %s", formatCount(summary.Written), destination), colorize))
	if summary.Missing > 0 {
		fmt.Fprintln(w, renderStatusLine("Cross-ref", statusWarn,
			fmt.Sprintf("%s roms without a translated hash", formatCount(summary.Missing)), colorize))
	} else {
		fmt.Fprintln(w, renderStatusLine("Cross-ref", statusOK, "every rom resolved", colorize))
	}
	if cfg.Output.PlanDB != "" {
		fmt.Fprintln(w, renderStatusLine("Plan store", statusInfo, "run "+summary.RunID, colorize))
	}
}
