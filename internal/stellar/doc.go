// Package stellar defines the physical data model shared across synthgrid:
// atmospheric parameter tuples, wavelength ranges, normalization modes, and
// instrument presets, plus the bounds validation every spectrum request must
// pass before an engine command is issued.
package stellar
