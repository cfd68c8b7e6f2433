package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"synthgrid/internal/batch"
	"synthgrid/internal/spectra"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded batch runs",
	}
	cmd.AddCommand(newRunsListCommand(ctx))
	cmd.AddCommand(newRunsShowCommand(ctx))
	cmd.AddCommand(newRunsExportCommand(ctx))
	cmd.AddCommand(newRunsDeleteCommand(ctx))
	return cmd
}

func withStore(ctx *commandContext, fn func(*spectra.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := spectra.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *spectra.Store) error {
				runs, err := store.ListRuns(cmd.Context())
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no recorded runs")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.ID,
						run.CreatedAt.Local().Format(time.DateTime),
						run.Instrument,
						fmt.Sprintf("%d", run.Resolution),
						fmt.Sprintf("%d", run.StarCount),
						fmt.Sprintf("%d", run.SampleCount),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(),
					renderTable([]string{"Run", "Created", "Instrument", "R", "Stars", "Samples"}, rows, 3, 4, 5))
				return nil
			})
		},
	}
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and its stars",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *spectra.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				rowsMeta := [][]string{
					{"Created", run.CreatedAt.Local().Format(time.DateTime)},
					{"Instrument", run.Instrument},
					{"Resolution", fmt.Sprintf("%d", run.Resolution)},
					{"Range (A)", fmt.Sprintf("%d - %d", int(run.WlMin), int(run.WlMax))},
					{"Normalization", fmt.Sprintf("%d", run.Normalization)},
					{"Resampled", fmt.Sprintf("%t", run.Resampled)},
					{"Pixel step (A)", fmt.Sprintf("%.4f", run.PixelStep)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rowsMeta))

				stars, err := store.RunSpectra(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(stars))
				for _, star := range stars {
					rows = append(rows, []string{
						fmt.Sprintf("%d", star.Row),
						fmt.Sprintf("%.0f", star.Params.Teff),
						fmt.Sprintf("%.2f", star.Params.Logg),
						fmt.Sprintf("%.2f", star.Params.FeH),
						fmt.Sprintf("%d", len(star.Flux)),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(),
					renderTable([]string{"#", "Teff", "logg", "[Fe/H]", "Samples"}, rows, 0, 1, 2, 3, 4))
				return nil
			})
		},
	}
}

func newRunsExportCommand(ctx *commandContext) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Re-export a recorded run to flat files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return withStore(ctx, func(store *spectra.Store) error {
				wave, err := store.RunWavelengths(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				stars, err := store.RunSpectra(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				result := &batch.Result{Wavelength: wave}
				for _, star := range stars {
					result.Flux = append(result.Flux, star.Flux)
					result.Stars = append(result.Stars, star.Params)
				}
				if err := writeResult(cfg, result, prefix); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d spectra to %s\n", len(result.Flux), cfg.Paths.OutputDir)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "export", "Output file prefix")
	return cmd
}

func newRunsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *spectra.Store) error {
				if err := store.DeleteRun(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted run %s\n", args[0])
				return nil
			})
		},
	}
}
