package preflight

import (
	"context"

	"synthgrid/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable environment check for the given config.
// A batch that fails any of these will fail at session setup anyway; running
// them first gives one readable report instead of a mid-batch abort.
func RunAll(_ context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckBinary("Engine binary", cfg.Engine.Binary),
		CheckFileReadable("Broadening routine", cfg.Engine.BroadenRoutine),
		CheckFileReadable("Extraction routine", cfg.Engine.ExtractRoutine),
		CheckFileReadable("Synthesis grid", cfg.Engine.GridPath),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
	}
	if cfg.Paths.OutputDir != "" {
		results = append(results, CheckFreeSpace("Output free space", cfg.Paths.OutputDir))
	}
	return results
}

// AllPassed reports whether every check succeeded.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
