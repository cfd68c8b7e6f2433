package batch_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"synthgrid/internal/batch"
	"synthgrid/internal/spectra"
	"synthgrid/internal/stellar"
	"synthgrid/internal/synth"
	"synthgrid/internal/testsupport"
)

// stubEngine returns a flux row derived from the request so row ordering is
// observable, and can be scripted to fail on a given star index.
type stubEngine struct {
	calls   int
	failOn  int // 1-based call number to fail on; 0 = never
	failErr error
}

func (s *stubEngine) FetchSpectrum(_ context.Context, req synth.Request) (synth.Spectrum, error) {
	s.calls++
	if s.failOn != 0 && s.calls == s.failOn {
		err := s.failErr
		if err == nil {
			err = synth.Wrap(synth.ErrEngineCall, "synthesize", req.Params.String(), errors.New("boom"))
		}
		return synth.Spectrum{}, err
	}
	wave := synth.ResampleGrid(req.Range.Min, req.Range.Max, req.PixelStep)
	if !req.Resample || wave == nil {
		wave = []float64{req.Range.Min, req.Range.Max}
	}
	flux := make([]float64, len(wave))
	for i := range flux {
		flux[i] = req.Params.Teff // marker tying the row to its input tuple
	}
	return synth.Spectrum{Wavelength: wave, Flux: flux}, nil
}

func settings() batch.Settings {
	ic, _ := stellar.Instrument("wifes-7000")
	return batch.SettingsForInstrument(ic, stellar.NormNormalized, true)
}

func TestRunPreservesInputOrder(t *testing.T) {
	engine := &stubEngine{}
	orch := batch.NewOrchestrator(engine, settings(), nil)

	stars := []stellar.Parameters{
		{Teff: 5000, Logg: 4.5, FeH: 0},
		{Teff: 4200, Logg: 4.8, FeH: -0.5},
		{Teff: 3800, Logg: 5.0, FeH: -1.0},
	}
	result, err := orch.Run(context.Background(), stars)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(result.Flux) != len(stars) {
		t.Fatalf("got %d rows, want %d", len(result.Flux), len(stars))
	}
	for i, star := range stars {
		if result.Flux[i][0] != star.Teff {
			t.Fatalf("row %d carries teff %v, want %v", i, result.Flux[i][0], star.Teff)
		}
		if result.Stars[i] != star {
			t.Fatalf("star %d = %+v, want %+v", i, result.Stars[i], star)
		}
	}
	if len(result.Wavelength) != len(result.Flux[0]) {
		t.Fatalf("wavelength length %d != flux row length %d", len(result.Wavelength), len(result.Flux[0]))
	}
}

func TestRunAbortsOnFirstFailure(t *testing.T) {
	engine := &stubEngine{failOn: 2}
	orch := batch.NewOrchestrator(engine, settings(), nil)

	stars := []stellar.Parameters{
		{Teff: 5000, Logg: 4.5},
		{Teff: 4200, Logg: 4.8},
		{Teff: 3800, Logg: 5.0},
	}
	result, err := orch.Run(context.Background(), stars)
	if err == nil {
		t.Fatal("expected batch failure")
	}
	if result != nil {
		t.Fatalf("expected no partial result, got %d rows", len(result.Flux))
	}
	if !errors.Is(err, synth.ErrEngineCall) {
		t.Fatalf("error %v does not match ErrEngineCall", err)
	}
	if !strings.Contains(err.Error(), "star 1") {
		t.Fatalf("error %q does not identify the failing tuple", err)
	}
	if engine.calls != 2 {
		t.Fatalf("engine called %d times, want 2 (no calls after failure)", engine.calls)
	}
}

func TestRunPropagatesBoundsFailures(t *testing.T) {
	engine := &stubEngine{failOn: 1, failErr: func() error {
		return stellar.Validate(stellar.Parameters{Teff: 9000, Logg: 4.5}, stellar.WavelengthRange{Min: 3600, Max: 9000})
	}()}
	orch := batch.NewOrchestrator(engine, settings(), nil)

	_, err := orch.Run(context.Background(), []stellar.Parameters{{Teff: 9000, Logg: 4.5}})
	if !errors.Is(err, stellar.ErrParameterOutOfBounds) {
		t.Fatalf("error %v does not match ErrParameterOutOfBounds", err)
	}
}

func TestRunRejectsEmptyBatch(t *testing.T) {
	orch := batch.NewOrchestrator(&stubEngine{}, settings(), nil)
	if _, err := orch.Run(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestRunRecordsToCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := spectra.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	orch := batch.NewOrchestrator(&stubEngine{}, settings(), nil, batch.WithRecorder(store))
	stars := []stellar.Parameters{
		{Teff: 5000, Logg: 4.5},
		{Teff: 4200, Logg: 4.8},
	}
	if _, err := orch.Run(context.Background(), stars); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	runs, err := store.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d recorded runs, want 1", len(runs))
	}
	if runs[0].Instrument != "wifes-7000" || runs[0].StarCount != 2 {
		t.Fatalf("unexpected recorded run: %+v", runs[0])
	}
}

type failingRecorder struct{}

func (failingRecorder) RecordRun(context.Context, spectra.RunData) (string, error) {
	return "", errors.New("catalog unavailable")
}

func TestRunSurvivesRecorderFailure(t *testing.T) {
	orch := batch.NewOrchestrator(&stubEngine{}, settings(), nil, batch.WithRecorder(failingRecorder{}))
	result, err := orch.Run(context.Background(), []stellar.Parameters{{Teff: 5000, Logg: 4.5}})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(result.Flux) != 1 {
		t.Fatalf("result lost: %d rows", len(result.Flux))
	}
}
