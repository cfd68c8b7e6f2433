package spectra

import (
	"context"
	"strings"
	"testing"

	"synthgrid/internal/stellar"
	"synthgrid/internal/testsupport"
)

func TestGetRunReportsCorruptTimestamp(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	id, err := store.RecordRun(ctx, RunData{
		Run: Run{
			Instrument: "wifes-7000",
			Resolution: 7000,
			WlMin:      3600,
			WlMax:      9000,
		},
		Wavelength: []float64{3601, 3602},
		Flux:       [][]float64{{0.9, 0.95}},
		Stars:      []stellar.Parameters{{Teff: 5000, Logg: 4.5}},
	})
	if err != nil {
		t.Fatalf("RecordRun returned error: %v", err)
	}

	if _, err := store.db.ExecContext(ctx,
		"UPDATE runs SET created_at = 'yesterday-ish' WHERE id = ?", id); err != nil {
		t.Fatalf("corrupt created_at: %v", err)
	}

	if _, err := store.GetRun(ctx, id); err == nil || !strings.Contains(err.Error(), "created_at") {
		t.Fatalf("expected created_at parse error, got %v", err)
	}
}
