// Package spectra persists batch results: flat-file numeric dumps for
// downstream fitting tools and a SQLite catalog of recorded runs.
//
// The flat files mirror the layout the modeling step expects (one
// space-separated flux row per star, one wavelength per line). The catalog is
// a convenience index over past batches, not an archive; schema changes bump
// the version in store.go and users rebuild by deleting the database.
package spectra
