package stellar

import (
	"errors"
	"fmt"
)

// Parameters identifies a star by its atmospheric parameters.
type Parameters struct {
	Teff float64 // effective temperature, K
	Logg float64 // log10 surface gravity, cgs dex
	FeH  float64 // metallicity [Fe/H], dex
}

// String renders the conventional [teff, logg, feh] label.
func (p Parameters) String() string {
	return fmt.Sprintf("[%d, %.2f, %.2f]", int(p.Teff), p.Logg, p.FeH)
}

// WavelengthRange bounds a request in Angstroms.
type WavelengthRange struct {
	Min float64
	Max float64
}

// NormalizationMode selects how the engine scales returned flux.
type NormalizationMode int

const (
	// NormAbsolute returns absolute flux (normalized flux times the
	// absolute continuum flux).
	NormAbsolute NormalizationMode = 0
	// NormNormalized returns continuum-normalized flux only.
	NormNormalized NormalizationMode = 1
	// NormContinuum returns the continuum flux only.
	NormContinuum NormalizationMode = 2
	// NormCentral returns absolute flux normalized at the central wavelength.
	NormCentral NormalizationMode = -1
	// Values above NormContinuum are treated by the engine as a wavelength
	// (in Angstroms) at which to normalize the absolute flux.
)

// Engine-supported parameter domain.
const (
	MinTeff = 2500.0
	MaxTeff = 8000.0
	MinLogg = -1.0
	MaxLogg = 5.5
	MinFeH  = -5.0
	MaxFeH  = 1.0
	MinWl   = 2000.0
	MaxWl   = 200000.0
)

// ErrParameterOutOfBounds marks bounds-validation failures.
var ErrParameterOutOfBounds = errors.New("parameter out of bounds")

// ParameterOutOfBoundsError reports the first constraint a request violated.
type ParameterOutOfBoundsError struct {
	Reason string
}

func (e *ParameterOutOfBoundsError) Error() string {
	return e.Reason
}

func (e *ParameterOutOfBoundsError) Unwrap() error {
	return ErrParameterOutOfBounds
}

func outOfBounds(format string, args ...any) error {
	return &ParameterOutOfBoundsError{Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the parameters and wavelength range against the engine's
// supported domain. Checks run in a fixed order and the first violation is
// reported. It has no side effects and must pass before any engine command is
// issued for the request.
func Validate(p Parameters, r WavelengthRange) error {
	switch {
	case p.Teff > MaxTeff || p.Teff < MinTeff:
		return outOfBounds("Temperature must be %d <= Teff (K) <= %d", int(MinTeff), int(MaxTeff))
	case p.Logg > MaxLogg || p.Logg < MinLogg:
		return outOfBounds("Surface gravity must be %g <= logg (cgs) <= %g", MinLogg, MaxLogg)
	case p.FeH > MaxFeH || p.FeH < MinFeH:
		return outOfBounds("Metallicity must be %g <= [Fe/H] (dex) <= %g", MinFeH, MaxFeH)
	case r.Min > r.Max || r.Max > MaxWl || r.Min < MinWl:
		return outOfBounds("Wavelengths must be ordered and %d <= lambda (A) <= %d", int(MinWl), int(MaxWl))
	}
	return nil
}
