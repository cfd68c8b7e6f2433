package standards

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"synthgrid/internal/stellar"
)

// Record is one row of a standards table: a catalog identifier plus the
// star's atmospheric parameters.
type Record struct {
	SourceID string
	Params   stellar.Parameters
}

// Predicate selects records for a training set.
type Predicate func(Record) bool

// CoolDwarfs is the default training-set cut: cool main-sequence stars.
func CoolDwarfs(r Record) bool {
	return r.Params.Teff < 5500 && r.Params.Logg > 4.0
}

// ReadTable parses a tab-separated standards table. The first row is a header
// and must include source_id, teff, logg, and feh columns; extra columns are
// ignored. source_id is kept as a string so leading zeros survive.
func ReadTable(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open standards table: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse standards table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("standards table %s is empty", path)
	}

	columns, err := headerIndex(rows[0])
	if err != nil {
		return nil, fmt.Errorf("standards table %s: %w", path, err)
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		record, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("standards table %s row %d: %w", path, i+2, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Filter returns the records matching the predicate, preserving table order.
func Filter(records []Record, pred Predicate) []Record {
	if pred == nil {
		return records
	}
	selected := make([]Record, 0, len(records))
	for _, record := range records {
		if pred(record) {
			selected = append(selected, record)
		}
	}
	return selected
}

// Parameters extracts the parameter tuples from records, preserving order.
func Parameters(records []Record) []stellar.Parameters {
	params := make([]stellar.Parameters, len(records))
	for i, record := range records {
		params[i] = record.Params
	}
	return params
}

type columnIndex struct {
	sourceID int
	teff     int
	logg     int
	feh      int
}

func headerIndex(header []string) (columnIndex, error) {
	idx := columnIndex{sourceID: -1, teff: -1, logg: -1, feh: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "source_id":
			idx.sourceID = i
		case "teff":
			idx.teff = i
		case "logg":
			idx.logg = i
		case "feh":
			idx.feh = i
		}
	}
	for _, required := range []struct {
		name string
		pos  int
	}{
		{"source_id", idx.sourceID},
		{"teff", idx.teff},
		{"logg", idx.logg},
		{"feh", idx.feh},
	} {
		if required.pos < 0 {
			return columnIndex{}, fmt.Errorf("missing column %q", required.name)
		}
	}
	return idx, nil
}

func parseRow(row []string, idx columnIndex) (Record, error) {
	max := idx.sourceID
	for _, pos := range []int{idx.teff, idx.logg, idx.feh} {
		if pos > max {
			max = pos
		}
	}
	if len(row) <= max {
		return Record{}, fmt.Errorf("expected at least %d columns, got %d", max+1, len(row))
	}

	record := Record{SourceID: strings.TrimSpace(row[idx.sourceID])}
	var err error
	if record.Params.Teff, err = parseField(row, idx.teff, "teff"); err != nil {
		return Record{}, err
	}
	if record.Params.Logg, err = parseField(row, idx.logg, "logg"); err != nil {
		return Record{}, err
	}
	if record.Params.FeH, err = parseField(row, idx.feh, "feh"); err != nil {
		return Record{}, err
	}
	return record, nil
}

func parseField(row []string, pos int, name string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(row[pos]), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return value, nil
}
