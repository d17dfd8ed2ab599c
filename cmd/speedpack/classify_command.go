package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"speedpack/internal/region"
)

type classification struct {
	Name    string   `json:"name"`
	Regions []string `json:"regions"`
	Speeds  []string `json:"speeds"`
	SixtyHz []string `json:"matched_60hz"`
	FiftyHz []string `json:"matched_50hz"`
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var flags planFlags
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "classify NAME...",
		Short: "Show the speed classes assigned to rom names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := flags.apply(cmd, base)
			if err != nil {
				return err
			}
			table := regionTable(cfg)

			results := make([]classification, 0, len(args))
			for _, name := range args {
				results = append(results, classify(table, name))
			}
			if jsonOut {
				return writeJSON(cmd, results)
			}

			rows := make([][]string, 0, len(results))
			for _, c := range results {
				rows = append(rows, []string{c.Name, strings.Join(c.Regions, ", "), strings.Join(c.Speeds, ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{
				textColumn("Name"), textColumn("Regions"), textColumn("Speeds"),
			}, rows))
			return nil
		},
	}

	flags.registerRegions(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func classify(table *region.Table, name string) classification {
	sixty, fifty := table.Matches(name)
	speeds := table.Classify(name)
	labels := make([]string, 0, len(speeds))
	for _, speed := range speeds {
		labels = append(labels, string(speed))
	}
	return classification{
		Name:    name,
		Regions: region.Regions(name),
		Speeds:  labels,
		SixtyHz: sixty,
		FiftyHz: fifty,
	}
}
