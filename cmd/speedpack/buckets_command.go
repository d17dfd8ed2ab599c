package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"speedpack/internal/grouping"
	"speedpack/internal/packlist"
)

type bucketView struct {
	Bucket  int    `json:"bucket"`
	Speed   string `json:"speed"`
	Span    string `json:"span"`
	Records int    `json:"records"`
	First   string `json:"first"`
	Last    string `json:"last"`
}

func newBucketsCommand(ctx *commandContext) *cobra.Command {
	var flags planFlags
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "buckets",
		Short: "Show how the catalog is split into directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := flags.apply(cmd, base)
			if err != nil {
				return err
			}
			if cfg.Inputs.Dat == "" {
				return errors.New("inputs.dat is required (use --dat or set SPEEDPACK_DAT)")
			}
			logger, err := commandLogger(cmd, cfg)
			if err != nil {
				return err
			}

			layout, err := packlist.Plan(cmd.Context(), packOptions(cfg), logger)
			if err != nil {
				return err
			}
			views := bucketViews(layout.Buckets)
			if jsonOut {
				return writeJSON(cmd, views)
			}

			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{strconv.Itoa(v.Bucket), v.Speed, v.Span, formatCount(v.Records), v.First, v.Last})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]column{
				countColumn("#"), textColumn("Speed"), textColumn("Span"),
				countColumn("Records"), textColumn("First"), textColumn("Last"),
			}, rows))
			fmt.Fprintf(out, "%s entries, %s records, %s directories (max %s per directory)\n",
				formatCount(layout.Entries), formatCount(len(layout.Records)),
				formatCount(len(views)), formatCount(cfg.Output.MaxPerDir))
			return nil
		},
	}

	flags.registerCatalog(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

// bucketViews numbers non-empty buckets the same way the emitter does.
func bucketViews(buckets []grouping.Bucket) []bucketView {
	views := make([]bucketView, 0, len(buckets))
	for _, bucket := range buckets {
		if bucket.Len() == 0 {
			continue
		}
		views = append(views, bucketView{
			Bucket:  len(views) + 1,
			Speed:   string(bucket.Speed),
			Span:    bucket.Span(),
			Records: bucket.Len(),
			First:   bucket.Records[0].Name,
			Last:    bucket.Records[bucket.Len()-1].Name,
		})
	}
	return views
}
