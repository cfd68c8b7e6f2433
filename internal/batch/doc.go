// Package batch iterates parameter tuples against one engine session and
// assembles the resulting flux table. Output row order always matches input
// order; the first per-star failure aborts the whole batch.
package batch
