package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"synthgrid/internal/standards"
)

func newStandardsCommand(ctx *commandContext) *cobra.Command {
	var (
		tablePath  string
		maxTeff    float64
		minLogg    float64
		renderPlot bool
	)

	cmd := &cobra.Command{
		Use:   "standards",
		Short: "Synthesize spectra for a standards table",
		Long: "Read a tab-separated standards table, keep the cool dwarfs " +
			"(teff below the cut, logg above it), and synthesize one spectrum per " +
			"star. Output goes to standards_spectra.csv and standards_wavelengths.csv.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			settings, err := resolveSettings(cfg)
			if err != nil {
				return err
			}

			records, err := standards.ReadTable(tablePath)
			if err != nil {
				return err
			}
			selected := standards.Filter(records, func(r standards.Record) bool {
				return r.Params.Teff < maxTeff && r.Params.Logg > minLogg
			})
			if len(selected) == 0 {
				return fmt.Errorf("no standards pass the cut (teff < %g, logg > %g)", maxTeff, minLogg)
			}
			logger.Info("standards selected",
				"total", len(records), "selected", len(selected))

			result, err := synthesizeBatch(cmd.Context(), cfg, logger,
				standards.Parameters(selected), settings, "standards", renderPlot)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), summarize(result, settings))
			return nil
		},
	}

	cmd.Flags().StringVar(&tablePath, "table", "standards.tsv", "Path to the standards table")
	cmd.Flags().Float64Var(&maxTeff, "max-teff", 5500, "Upper teff bound of the training cut (K)")
	cmd.Flags().Float64Var(&minLogg, "min-logg", 4.0, "Lower logg bound of the training cut")
	cmd.Flags().BoolVar(&renderPlot, "plot", false, "Render an overlay plot of the set")

	return cmd
}
