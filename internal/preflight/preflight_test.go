package preflight_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"synthgrid/internal/preflight"
	"synthgrid/internal/testsupport"
)

func TestRunAllWithHealthyEnvironment(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithEngineBinary("sh"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) == 0 {
		t.Fatal("expected checks to run")
	}
	for _, result := range results {
		if !result.Passed {
			t.Fatalf("check %q failed: %s", result.Name, result.Detail)
		}
	}
	if !preflight.AllPassed(results) {
		t.Fatal("AllPassed disagrees with individual results")
	}
}

func TestRunAllFlagsMissingGrid(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithEngineBinary("sh"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if err := os.Remove(cfg.Engine.GridPath); err != nil {
		t.Fatalf("remove grid: %v", err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if preflight.AllPassed(results) {
		t.Fatal("expected grid check to fail")
	}
	var found bool
	for _, result := range results {
		if result.Name == "Synthesis grid" {
			found = true
			if result.Passed {
				t.Fatal("grid check passed despite missing file")
			}
			if !strings.Contains(result.Detail, "does not exist") {
				t.Fatalf("unexpected detail: %s", result.Detail)
			}
		}
	}
	if !found {
		t.Fatal("grid check missing from results")
	}
}

func TestCheckBinaryNotFound(t *testing.T) {
	result := preflight.CheckBinary("Engine binary", "definitely-not-a-real-binary-name")
	if result.Passed {
		t.Fatal("expected failure for unknown binary")
	}
}

func TestCheckDirectoryAccessRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	result := preflight.CheckDirectoryAccess("Output directory", path)
	if result.Passed {
		t.Fatal("expected failure for non-directory path")
	}
}
