package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"synthgrid/internal/stellar"
)

func newSynthCommand(ctx *commandContext) *cobra.Command {
	var (
		teff       float64
		logg       float64
		feh        float64
		prefix     string
		renderPlot bool
	)

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Synthesize a single spectrum",
		Long: "Synthesize one spectrum for the given parameter tuple using the " +
			"configured instrument preset, and write the flux and wavelength files.",
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

			stars := []stellar.Parameters{{Teff: teff, Logg: logg, FeH: feh}}
			result, err := synthesizeBatch(cmd.Context(), cfg, logger, stars, settings, prefix, renderPlot)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), summarize(result, settings))
			return nil
		},
	}

	cmd.Flags().Float64Var(&teff, "teff", 0, "Effective temperature in K (required)")
	cmd.Flags().Float64Var(&logg, "logg", 0, "Surface gravity, log cgs (required)")
	cmd.Flags().Float64Var(&feh, "feh", 0, "Metallicity [Fe/H] in dex")
	cmd.Flags().StringVar(&prefix, "prefix", "sample", "Output file prefix")
	cmd.Flags().BoolVar(&renderPlot, "plot", false, "Render an overlay plot of the result")
	_ = cmd.MarkFlagRequired("teff")
	_ = cmd.MarkFlagRequired("logg")

	return cmd
}
