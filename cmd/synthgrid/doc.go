// Command synthgrid retrieves synthetic stellar spectra from an external
// synthesis engine: single spectra, parameter-list batches, and standard-star
// tables, with optional catalog recording and overlay plots.
package main
