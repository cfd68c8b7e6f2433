package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"synthgrid/internal/logging"
	"synthgrid/internal/stellar"
)

// Request describes one spectrum retrieval.
type Request struct {
	Params        stellar.Parameters
	Range         stellar.WavelengthRange
	Resolution    int
	Normalization stellar.NormalizationMode
	// Resample maps the engine's native wavelength sampling onto a uniform
	// grid of PixelStep Angstroms per pixel.
	Resample  bool
	PixelStep float64
}

// Spectrum is one synthesized wavelength/flux pair. Both slices have the same
// length and are never mutated after return.
type Spectrum struct {
	Wavelength []float64
	Flux       []float64
}

// Synthesizer is the capability the batch orchestrator consumes.
type Synthesizer interface {
	FetchSpectrum(ctx context.Context, req Request) (Spectrum, error)
}

// FetchSpectrum validates the request, issues the synthesis command (plus the
// resample command when requested), and reads back the resulting arrays.
// Bounds failures propagate before any engine command is issued. Engine
// failures abandon the request but leave the session usable.
func (s *Session) FetchSpectrum(ctx context.Context, req Request) (Spectrum, error) {
	if err := stellar.Validate(req.Params, req.Range); err != nil {
		return Spectrum{}, err
	}
	if req.Resample && req.PixelStep <= 0 {
		return Spectrum{}, fmt.Errorf("resample requested with non-positive pixel step %g", req.PixelStep)
	}
	if err := s.Initialize(ctx); err != nil {
		return Spectrum{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Debug("synthesizing spectrum",
		slog.Float64(logging.FieldTeff, req.Params.Teff),
		slog.Float64(logging.FieldLogg, req.Params.Logg),
		slog.Float64(logging.FieldFeH, req.Params.FeH))

	// The correction term is pinned to zero for every request.
	if _, err := s.exec(ctx, "CFe = 0."); err != nil {
		return Spectrum{}, Wrap(ErrEngineCall, "synthesize", "reset CFe", err)
	}

	command := fmt.Sprintf(
		"spectrum = get_spec(%d, %f, %f, !null, CFe, %d, %d, ipres=%d, norm=%d, grid=grid, wave=wave)",
		int(req.Params.Teff), req.Params.Logg, req.Params.FeH,
		int(req.Range.Min), int(req.Range.Max), req.Resolution, int(req.Normalization))
	if _, err := s.exec(ctx, command); err != nil {
		return Spectrum{}, Wrap(ErrEngineCall, "synthesize", req.Params.String(), err)
	}

	if req.Resample {
		if err := s.resample(ctx, req); err != nil {
			return Spectrum{}, err
		}
	}

	wave, err := s.readArray(ctx, "wave")
	if err != nil {
		return Spectrum{}, Wrap(ErrEngineCall, "read wave", req.Params.String(), err)
	}
	flux, err := s.readArray(ctx, "spectrum")
	if err != nil {
		return Spectrum{}, Wrap(ErrEngineCall, "read spectrum", req.Params.String(), err)
	}
	if len(wave) == 0 || len(wave) != len(flux) {
		return Spectrum{}, Wrap(ErrEngineCall, "read arrays",
			fmt.Sprintf("shape mismatch: %d wavelengths, %d flux samples", len(wave), len(flux)), nil)
	}
	return Spectrum{Wavelength: wave, Flux: flux}, nil
}

// resample maps the stored spectrum onto the uniform grid
// [min+step : max-2*step : step]. The upper bound sits two steps short of the
// range maximum; downstream consumers expect grids with exactly this endpoint.
func (s *Session) resample(ctx context.Context, req Request) error {
	step := req.PixelStep
	command := fmt.Sprintf("waveout = [%d+%f:%d-2*%f:%f]",
		int(req.Range.Min), step, int(req.Range.Max), step, step)
	if _, err := s.exec(ctx, command); err != nil {
		return Wrap(ErrEngineCall, "resample", "build output grid", err)
	}
	if _, err := s.exec(ctx, "spectrum = resamp(double(wave), double(spectrum), double(waveout))"); err != nil {
		return Wrap(ErrEngineCall, "resample", req.Params.String(), err)
	}
	if _, err := s.exec(ctx, "wave = waveout"); err != nil {
		return Wrap(ErrEngineCall, "resample", "store output grid", err)
	}
	return nil
}

func (s *Session) readArray(ctx context.Context, name string) ([]float64, error) {
	lines, err := s.exec(ctx, "print, "+name)
	if err != nil {
		return nil, err
	}
	values, err := parseFloats(lines)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, errors.New("engine returned no values")
	}
	return values, nil
}

// ResampleGrid computes the uniform wavelength grid a resampled request comes
// back on: start at min+step, advance by step, stop at or before max-2*step.
func ResampleGrid(wlMin, wlMax, step float64) []float64 {
	if step <= 0 {
		return nil
	}
	start := wlMin + step
	stop := wlMax - 2*step
	if stop < start {
		return nil
	}
	count := int(math.Floor((stop-start)/step)) + 1
	grid := make([]float64, count)
	for i := range grid {
		grid[i] = start + float64(i)*step
	}
	return grid
}
