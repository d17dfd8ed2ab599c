package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"speedpack/internal/region"
)

type regionsView struct {
	SixtyHz []string `json:"60Hz"`
	FiftyHz []string `json:"50Hz"`
}

func newRegionsCommand(ctx *commandContext) *cobra.Command {
	var flags planFlags
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Show the effective region tables",
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
			table := regionTable(cfg)
			view := regionsView{SixtyHz: table.SixtyHz(), FiftyHz: table.FiftyHz()}
			if jsonOut {
				return writeJSON(cmd, view)
			}
			rows := [][]string{
				{string(region.Speed60Hz), formatCount(len(view.SixtyHz)), strings.Join(view.SixtyHz, ", ")},
				{string(region.Speed50Hz), formatCount(len(view.FiftyHz)), strings.Join(view.FiftyHz, ", ")},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{
				textColumn("Speed"), countColumn("Count"), textColumn("Regions"),
			}, rows))
			return nil
		},
	}

	flags.registerRegions(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}
