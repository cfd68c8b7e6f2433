package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"synthgrid/internal/stellar"
)

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the instrument presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, 4)
			for _, ic := range stellar.Instruments() {
				rows = append(rows, []string{
					ic.Name,
					fmt.Sprintf("%d", ic.Resolution),
					fmt.Sprintf("%d", ic.WlMin),
					fmt.Sprintf("%d", ic.WlMax),
					fmt.Sprintf("%.4f", ic.PixelStep),
					ic.Description,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				renderTable([]string{"Preset", "R", "Min (A)", "Max (A)", "Step (A/px)", "Description"}, rows, 1, 2, 3, 4))
			return nil
		},
	}
}
