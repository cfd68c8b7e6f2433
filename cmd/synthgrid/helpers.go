package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"synthgrid/internal/batch"
	"synthgrid/internal/config"
	"synthgrid/internal/plot"
	"synthgrid/internal/spectra"
	"synthgrid/internal/stellar"
	"synthgrid/internal/synth"
)

// resolveSettings derives batch settings from the configured instrument
// preset, then applies any explicit config overrides.
func resolveSettings(cfg *config.Config) (batch.Settings, error) {
	ic, err := stellar.Instrument(cfg.Synthesis.Instrument)
	if err != nil {
		return batch.Settings{}, err
	}
	settings := batch.SettingsForInstrument(ic,
		stellar.NormalizationMode(cfg.Synthesis.Normalization), cfg.Synthesis.Resample)

	if cfg.Synthesis.Resolution > 0 {
		settings.Resolution = cfg.Synthesis.Resolution
	}
	if cfg.Synthesis.WlMin > 0 {
		settings.Range.Min = float64(cfg.Synthesis.WlMin)
	}
	if cfg.Synthesis.WlMax > 0 {
		settings.Range.Max = float64(cfg.Synthesis.WlMax)
	}
	if cfg.Synthesis.PixelStep > 0 {
		settings.PixelStep = cfg.Synthesis.PixelStep
	}
	return settings, nil
}

// synthesizeBatch runs the full pipeline for a list of stars: one engine
// session, sequential requests, flat-file output, optional catalog recording
// and overlay plot.
func synthesizeBatch(ctx context.Context, cfg *config.Config, logger *slog.Logger,
	stars []stellar.Parameters, settings batch.Settings, prefix string, renderPlot bool) (*batch.Result, error) {

	session, err := synth.StartSession(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	var opts []batch.Option
	if cfg.Catalog.Enabled {
		store, err := spectra.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer store.Close()
		opts = append(opts, batch.WithRecorder(store))
	}

	orch := batch.NewOrchestrator(session, settings, logger, opts...)
	result, err := orch.Run(ctx, stars)
	if err != nil {
		return nil, err
	}

	if err := writeResult(cfg, result, prefix); err != nil {
		return nil, err
	}
	if renderPlot {
		figure := filepath.Join(cfg.Paths.OutputDir, prefix+"_spectra.png")
		if err := plot.Overlay(figure, result.Wavelength, result.Flux, result.Stars); err != nil {
			return nil, err
		}
		logger.Info("overlay plot written", slog.String("path", figure))
	}
	return result, nil
}

func writeResult(cfg *config.Config, result *batch.Result, prefix string) error {
	fluxPath := filepath.Join(cfg.Paths.OutputDir, prefix+"_spectra.csv")
	wavePath := filepath.Join(cfg.Paths.OutputDir, prefix+"_wavelengths.csv")
	if err := spectra.WriteFluxTable(fluxPath, result.Flux); err != nil {
		return err
	}
	if err := spectra.WriteWavelengths(wavePath, result.Wavelength); err != nil {
		return err
	}
	return nil
}

func summarize(result *batch.Result, settings batch.Settings) string {
	rows := make([][]string, 0, len(result.Stars))
	for i, star := range result.Stars {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%.0f", star.Teff),
			fmt.Sprintf("%.2f", star.Logg),
			fmt.Sprintf("%.2f", star.FeH),
			fmt.Sprintf("%d", len(result.Flux[i])),
		})
	}
	header := fmt.Sprintf("%s  R=%d  %d-%d A  norm=%d\n",
		settings.Instrument, settings.Resolution,
		int(settings.Range.Min), int(settings.Range.Max), int(settings.Normalization))
	return header + renderTable([]string{"#", "Teff", "logg", "[Fe/H]", "Samples"}, rows, 0, 1, 2, 3, 4)
}
