package standards_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"synthgrid/internal/standards"
	"synthgrid/internal/stellar"
)

func writeTable(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "standards.tsv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	return path
}

func TestReadTable(t *testing.T) {
	path := writeTable(t,
		"source_id\tteff\tlogg\tfeh",
		"0012345\t5200\t4.4\t-0.1",
		"9876543\t6100\t3.9\t0.2",
	)
	records, err := standards.ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].SourceID != "0012345" {
		t.Fatalf("source_id = %q, leading zeros must survive", records[0].SourceID)
	}
	if records[0].Params.Teff != 5200 || records[0].Params.Logg != 4.4 || records[0].Params.FeH != -0.1 {
		t.Fatalf("unexpected params: %+v", records[0].Params)
	}
}

func TestReadTableIgnoresExtraColumns(t *testing.T) {
	path := writeTable(t,
		"source_id\tname\tteff\tlogg\tfeh\tsnr",
		"1\tGJ 1\t3500\t4.9\t-0.4\t120",
	)
	records, err := standards.ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable returned error: %v", err)
	}
	if records[0].Params.Teff != 3500 {
		t.Fatalf("teff = %v", records[0].Params.Teff)
	}
}

func TestReadTableMissingColumn(t *testing.T) {
	path := writeTable(t,
		"source_id\tteff\tlogg",
		"1\t5000\t4.5",
	)
	if _, err := standards.ReadTable(path); err == nil || !strings.Contains(err.Error(), "feh") {
		t.Fatalf("expected missing-column error mentioning feh, got %v", err)
	}
}

func TestReadTableBadNumberReportsRow(t *testing.T) {
	path := writeTable(t,
		"source_id\tteff\tlogg\tfeh",
		"1\t5000\t4.5\t0.0",
		"2\tcool\t4.5\t0.0",
	)
	_, err := standards.ReadTable(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "row 3") || !strings.Contains(err.Error(), "teff") {
		t.Fatalf("error %q should identify row and column", err)
	}
}

func TestCoolDwarfsCutBoundaries(t *testing.T) {
	records := []standards.Record{
		{SourceID: "a", Params: mkParams(5400, 4.1)},
		{SourceID: "b", Params: mkParams(5500, 4.5)}, // teff boundary excluded
		{SourceID: "c", Params: mkParams(5000, 4.0)}, // logg boundary excluded
		{SourceID: "d", Params: mkParams(3600, 4.9)},
		{SourceID: "e", Params: mkParams(6200, 4.4)},
	}
	selected := standards.Filter(records, standards.CoolDwarfs)
	if len(selected) != 2 {
		t.Fatalf("got %d records, want 2", len(selected))
	}
	if selected[0].SourceID != "a" || selected[1].SourceID != "d" {
		t.Fatalf("filter changed order or selection: %v, %v", selected[0].SourceID, selected[1].SourceID)
	}
}

func TestParametersPreservesOrder(t *testing.T) {
	records := []standards.Record{
		{SourceID: "a", Params: mkParams(5400, 4.1)},
		{SourceID: "b", Params: mkParams(3600, 4.9)},
	}
	params := standards.Parameters(records)
	if len(params) != 2 || params[0].Teff != 5400 || params[1].Teff != 3600 {
		t.Fatalf("unexpected params: %+v", params)
	}
}

func mkParams(teff, logg float64) stellar.Parameters {
	return stellar.Parameters{Teff: teff, Logg: logg}
}
