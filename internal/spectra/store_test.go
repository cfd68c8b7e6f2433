package spectra_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"synthgrid/internal/spectra"
	"synthgrid/internal/stellar"
	"synthgrid/internal/testsupport"
)

func openStore(t *testing.T) *spectra.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := spectra.Open(cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRun() spectra.RunData {
	return spectra.RunData{
		Run: spectra.Run{
			Instrument:    "wifes-7000",
			Resolution:    7000,
			WlMin:         3600,
			WlMax:         9000,
			Normalization: 1,
			Resampled:     true,
			PixelStep:     1.318359375,
		},
		Wavelength: []float64{3601.3, 3602.6, 3603.9},
		Flux: [][]float64{
			{0.91, 0.88, 0.93},
			{0.95, 0.97, 0.90},
		},
		Stars: []stellar.Parameters{
			{Teff: 5000, Logg: 4.5, FeH: 0},
			{Teff: 4200, Logg: 4.8, FeH: -0.5},
		},
	}
}

func TestRecordAndGetRun(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	id, err := store.RecordRun(ctx, sampleRun())
	if err != nil {
		t.Fatalf("RecordRun returned error: %v", err)
	}
	if id == "" {
		t.Fatal("RecordRun returned empty id")
	}

	run, err := store.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun returned error: %v", err)
	}
	if run.Instrument != "wifes-7000" || run.Resolution != 7000 || !run.Resampled {
		t.Fatalf("unexpected run record: %+v", run)
	}
	if run.StarCount != 2 || run.SampleCount != 3 {
		t.Fatalf("counts = %d stars, %d samples", run.StarCount, run.SampleCount)
	}
	if run.CreatedAt.IsZero() || time.Since(run.CreatedAt) > time.Minute {
		t.Fatalf("implausible created_at: %v", run.CreatedAt)
	}
}

func TestRunSpectraRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	data := sampleRun()

	id, err := store.RecordRun(ctx, data)
	if err != nil {
		t.Fatalf("RecordRun returned error: %v", err)
	}

	wave, err := store.RunWavelengths(ctx, id)
	if err != nil {
		t.Fatalf("RunWavelengths returned error: %v", err)
	}
	if len(wave) != len(data.Wavelength) || wave[0] != data.Wavelength[0] {
		t.Fatalf("wavelengths mismatch: %v", wave)
	}

	rows, err := store.RunSpectra(ctx, id)
	if err != nil {
		t.Fatalf("RunSpectra returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for i, row := range rows {
		if row.Row != i {
			t.Fatalf("row %d has index %d", i, row.Row)
		}
		if row.Params != data.Stars[i] {
			t.Fatalf("row %d params = %+v, want %+v", i, row.Params, data.Stars[i])
		}
		if len(row.Flux) != 3 || row.Flux[0] != data.Flux[i][0] {
			t.Fatalf("row %d flux mismatch: %v", i, row.Flux)
		}
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first, err := store.RecordRun(ctx, sampleRun())
	if err != nil {
		t.Fatalf("record first run: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	second, err := store.RecordRun(ctx, sampleRun())
	if err != nil {
		t.Fatalf("record second run: %v", err)
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Fatalf("runs not ordered newest first: %v, %v", runs[0].ID, runs[1].ID)
	}
}

func TestDeleteRunCascades(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	id, err := store.RecordRun(ctx, sampleRun())
	if err != nil {
		t.Fatalf("RecordRun returned error: %v", err)
	}
	if err := store.DeleteRun(ctx, id); err != nil {
		t.Fatalf("DeleteRun returned error: %v", err)
	}
	if _, err := store.GetRun(ctx, id); !errors.Is(err, spectra.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound after delete, got %v", err)
	}
	if rows, err := store.RunSpectra(ctx, id); err != nil || len(rows) != 0 {
		t.Fatalf("expected no spectra after delete, got %d rows (err=%v)", len(rows), err)
	}
	if err := store.DeleteRun(ctx, id); !errors.Is(err, spectra.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound for double delete, got %v", err)
	}
}

func TestRecordRunRejectsMismatchedRows(t *testing.T) {
	store := openStore(t)
	data := sampleRun()
	data.Stars = data.Stars[:1]
	if _, err := store.RecordRun(context.Background(), data); err == nil {
		t.Fatal("expected error for mismatched flux/star counts")
	}
}

func TestGetRunUnknownID(t *testing.T) {
	store := openStore(t)
	if _, err := store.GetRun(context.Background(), "no-such-run"); !errors.Is(err, spectra.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}
