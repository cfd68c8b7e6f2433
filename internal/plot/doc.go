// Package plot renders overlay figures of synthesized spectra for quick
// visual inspection of a batch.
package plot
