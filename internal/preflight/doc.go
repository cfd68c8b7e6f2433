// Package preflight validates the external environment (engine binary,
// support files, output volume) before a batch starts.
package preflight
