// Package synth wraps the external spectral-synthesis engine behind a
// session/request API.
//
// The engine is an opaque interactive process driven over a textual command
// protocol: commands go in on stdin, output comes back on stdout, and a fixed
// prompt marks readiness for the next command. Session owns the process
// lifecycle and the one-time setup (library path, support routine
// compilation, grid binding); FetchSpectrum issues one synthesis round-trip,
// optionally followed by a resample onto a uniform per-pixel grid, and reads
// back the wavelength and flux arrays.
//
// Sessions hold request state in engine-side variables and are therefore
// strictly sequential: never share one session across concurrent callers. Run
// one session per worker process if parallelism is needed.
package synth
