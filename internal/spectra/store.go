package spectra

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"synthgrid/internal/config"
	"synthgrid/internal/stellar"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current catalog schema version. Bump this when the
// schema changes; users delete the catalog to adopt the new schema.
const schemaVersion = 1

// timeLayout pads fractional seconds to full width; RFC3339Nano trims
// trailing zeros, which breaks string ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrSchemaMismatch indicates the catalog schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrRunNotFound indicates the requested run id is not in the catalog.
var ErrRunNotFound = errors.New("run not found")

// Run is the catalog record of one batch.
type Run struct {
	ID            string
	CreatedAt     time.Time
	Instrument    string
	Resolution    int
	WlMin         float64
	WlMax         float64
	Normalization int
	Resampled     bool
	PixelStep     float64
	StarCount     int
	SampleCount   int
}

// RunData is a Run together with its arrays, as recorded or retrieved.
type RunData struct {
	Run
	Wavelength []float64
	Flux       [][]float64
	Stars      []stellar.Parameters
}

// StarSpectrum is one catalog row of a run's flux table.
type StarSpectrum struct {
	Row    int
	Params stellar.Parameters
	Flux   []float64
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database.
func Open(cfg *config.Config) (*Store, error) {
	dbPath := cfg.CatalogPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the location of the catalog database file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: catalog has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// RecordRun inserts a completed batch and returns its generated id.
func (s *Store) RecordRun(ctx context.Context, data RunData) (string, error) {
	if len(data.Flux) == 0 || len(data.Flux) != len(data.Stars) {
		return "", fmt.Errorf("record run: %d flux rows for %d stars", len(data.Flux), len(data.Stars))
	}

	id := uuid.NewString()
	// Fixed-width layout so lexicographic ORDER BY created_at matches time order.
	createdAt := time.Now().UTC().Format(timeLayout)

	waveJSON, err := json.Marshal(data.Wavelength)
	if err != nil {
		return "", fmt.Errorf("marshal wavelengths: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (
            id, created_at, instrument, resolution, wl_min, wl_max,
            normalization, resampled, pixel_step, star_count, sample_count, wavelengths
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, createdAt, data.Instrument, data.Resolution, data.WlMin, data.WlMax,
		data.Normalization, boolToInt(data.Resampled), data.PixelStep,
		len(data.Stars), len(data.Wavelength), string(waveJSON))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for i, star := range data.Stars {
		fluxJSON, err := json.Marshal(data.Flux[i])
		if err != nil {
			return "", fmt.Errorf("marshal flux row %d: %w", i, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_spectra (run_id, row_index, teff, logg, feh, flux)
             VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, star.Teff, star.Logg, star.FeH, string(fluxJSON))
		if err != nil {
			return "", fmt.Errorf("insert spectrum row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	return id, nil
}

// ListRuns returns catalog runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, instrument, resolution, wl_min, wl_max,
                normalization, resampled, pixel_step, star_count, sample_count
         FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns the catalog record for one run.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, instrument, resolution, wl_min, wl_max,
                normalization, resampled, pixel_step, star_count, sample_count
         FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// RunWavelengths returns the shared wavelength vector of a run.
func (s *Store) RunWavelengths(ctx context.Context, id string) ([]float64, error) {
	var waveJSON string
	err := s.db.QueryRowContext(ctx, "SELECT wavelengths FROM runs WHERE id = ?", id).Scan(&waveJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load wavelengths: %w", err)
	}
	var wave []float64
	if err := json.Unmarshal([]byte(waveJSON), &wave); err != nil {
		return nil, fmt.Errorf("decode wavelengths: %w", err)
	}
	return wave, nil
}

// RunSpectra returns the flux rows of a run in input order.
func (s *Store) RunSpectra(ctx context.Context, id string) ([]StarSpectrum, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT row_index, teff, logg, feh, flux
         FROM run_spectra WHERE run_id = ? ORDER BY row_index ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("load spectra: %w", err)
	}
	defer rows.Close()

	var spectra []StarSpectrum
	for rows.Next() {
		var entry StarSpectrum
		var fluxJSON string
		if err := rows.Scan(&entry.Row, &entry.Params.Teff, &entry.Params.Logg, &entry.Params.FeH, &fluxJSON); err != nil {
			return nil, fmt.Errorf("scan spectrum row: %w", err)
		}
		if err := json.Unmarshal([]byte(fluxJSON), &entry.Flux); err != nil {
			return nil, fmt.Errorf("decode flux row %d: %w", entry.Row, err)
		}
		spectra = append(spectra, entry)
	}
	return spectra, rows.Err()
}

// DeleteRun removes a run and its spectra.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var createdAt string
	var resampled int
	err := row.Scan(&run.ID, &createdAt, &run.Instrument, &run.Resolution,
		&run.WlMin, &run.WlMax, &run.Normalization, &resampled,
		&run.PixelStep, &run.StarCount, &run.SampleCount)
	if err != nil {
		return Run{}, err
	}
	run.Resampled = resampled != 0
	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = ts
	return run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
