package batch

import (
	"context"
	"fmt"
	"log/slog"

	"synthgrid/internal/logging"
	"synthgrid/internal/spectra"
	"synthgrid/internal/stellar"
	"synthgrid/internal/synth"
)

// Settings carries the request parameters shared by every star in a batch.
type Settings struct {
	Instrument    string
	Range         stellar.WavelengthRange
	Resolution    int
	Normalization stellar.NormalizationMode
	Resample      bool
	PixelStep     float64
}

// SettingsForInstrument derives batch settings from an instrument preset.
func SettingsForInstrument(ic stellar.InstrumentConfig, norm stellar.NormalizationMode, resample bool) Settings {
	return Settings{
		Instrument:    ic.Name,
		Range:         ic.WavelengthRange(),
		Resolution:    ic.Resolution,
		Normalization: norm,
		Resample:      resample,
		PixelStep:     ic.PixelStep,
	}
}

// Result is the assembled output of a batch: one flux row per star in input
// order, plus the shared wavelength vector. The wavelength vector is taken
// from the last successful request; with resampling enabled every request
// shares the same output grid.
type Result struct {
	Wavelength []float64
	Flux       [][]float64
	Stars      []stellar.Parameters
}

// Recorder persists a completed batch. *spectra.Store satisfies this.
type Recorder interface {
	RecordRun(ctx context.Context, data spectra.RunData) (string, error)
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithRecorder attaches a run recorder; the batch is written to it after all
// stars succeed.
func WithRecorder(rec Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = rec
	}
}

// Orchestrator drives one engine session through a list of parameter tuples.
type Orchestrator struct {
	engine   synth.Synthesizer
	settings Settings
	logger   *slog.Logger
	recorder Recorder
}

// NewOrchestrator builds an orchestrator around an engine capability.
func NewOrchestrator(engine synth.Synthesizer, settings Settings, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	o := &Orchestrator{
		engine:   engine,
		settings: settings,
		logger:   logger.With(slog.String(logging.FieldComponent, "batch")),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run synthesizes one spectrum per tuple, strictly in input order. The first
// failure aborts the whole batch: no partial flux table is returned and
// already-collected rows are discarded, so a flux table always lines up with
// the full input list.
func (o *Orchestrator) Run(ctx context.Context, stars []stellar.Parameters) (*Result, error) {
	if len(stars) == 0 {
		return nil, fmt.Errorf("empty batch")
	}

	result := &Result{
		Flux:  make([][]float64, 0, len(stars)),
		Stars: make([]stellar.Parameters, 0, len(stars)),
	}

	for i, star := range stars {
		o.logger.Info("synthesizing star",
			slog.Int(logging.FieldStar, i),
			slog.Float64(logging.FieldTeff, star.Teff),
			slog.Float64(logging.FieldLogg, star.Logg),
			slog.Float64(logging.FieldFeH, star.FeH))

		spectrum, err := o.engine.FetchSpectrum(ctx, synth.Request{
			Params:        star,
			Range:         o.settings.Range,
			Resolution:    o.settings.Resolution,
			Normalization: o.settings.Normalization,
			Resample:      o.settings.Resample,
			PixelStep:     o.settings.PixelStep,
		})
		if err != nil {
			return nil, fmt.Errorf("star %d %s: %w", i, star, err)
		}

		result.Wavelength = spectrum.Wavelength
		result.Flux = append(result.Flux, spectrum.Flux)
		result.Stars = append(result.Stars, star)
	}

	if o.recorder != nil {
		o.record(ctx, result)
	}
	return result, nil
}

// record writes the finished batch to the catalog. Catalog trouble must not
// discard a completed batch, so failures are logged rather than returned.
func (o *Orchestrator) record(ctx context.Context, result *Result) {
	id, err := o.recorder.RecordRun(ctx, spectra.RunData{
		Run: spectra.Run{
			Instrument:    o.settings.Instrument,
			Resolution:    o.settings.Resolution,
			WlMin:         o.settings.Range.Min,
			WlMax:         o.settings.Range.Max,
			Normalization: int(o.settings.Normalization),
			Resampled:     o.settings.Resample,
			PixelStep:     o.settings.PixelStep,
		},
		Wavelength: result.Wavelength,
		Flux:       result.Flux,
		Stars:      result.Stars,
	})
	if err != nil {
		o.logger.Warn("recording batch run failed", slog.String("error", err.Error()))
		return
	}
	o.logger.Info("batch run recorded", slog.String(logging.FieldRunID, id))
}
