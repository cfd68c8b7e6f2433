package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeEngine(); err != nil {
		return err
	}
	c.normalizeSynthesis()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Catalog.Path != "" {
		if c.Catalog.Path, err = expandPath(c.Catalog.Path); err != nil {
			return fmt.Errorf("catalog.path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeEngine() error {
	c.Engine.Binary = strings.TrimSpace(c.Engine.Binary)
	if c.Engine.Binary == "" {
		c.Engine.Binary = defaultEngineBinary
	}
	if c.Engine.Prompt == "" {
		c.Engine.Prompt = defaultEnginePrompt
	}
	var err error
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"engine.library_path", &c.Engine.LibraryPath},
		{"engine.broaden_routine", &c.Engine.BroadenRoutine},
		{"engine.extract_routine", &c.Engine.ExtractRoutine},
		{"engine.grid_path", &c.Engine.GridPath},
	} {
		if *field.value, err = expandPath(*field.value); err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
	}
	if c.Engine.LockPath != "" {
		if c.Engine.LockPath, err = expandPath(c.Engine.LockPath); err != nil {
			return fmt.Errorf("engine.lock_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeSynthesis() {
	c.Synthesis.Instrument = strings.ToLower(strings.TrimSpace(c.Synthesis.Instrument))
	if c.Synthesis.Instrument == "" {
		c.Synthesis.Instrument = defaultInstrument
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
