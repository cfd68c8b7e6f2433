// Package standards reads tab-separated standards tables and filters them
// into training sets for batch synthesis.
package standards
