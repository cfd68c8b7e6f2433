package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateSynthesis(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEngine() error {
	if strings.TrimSpace(c.Engine.Binary) == "" {
		return errors.New("engine.binary must be set")
	}
	if strings.TrimSpace(c.Engine.GridPath) == "" {
		return errors.New("engine.grid_path must be set")
	}
	if strings.TrimSpace(c.Engine.BroadenRoutine) == "" {
		return errors.New("engine.broaden_routine must be set")
	}
	if strings.TrimSpace(c.Engine.ExtractRoutine) == "" {
		return errors.New("engine.extract_routine must be set")
	}
	if c.Engine.StartupTimeout < 0 {
		return errors.New("engine.startup_timeout must not be negative")
	}
	if c.Engine.CommandTimeout < 0 {
		return errors.New("engine.command_timeout must not be negative")
	}
	return nil
}

func (c *Config) validateSynthesis() error {
	if c.Synthesis.Resolution < 0 {
		return errors.New("synthesis.resolution must not be negative")
	}
	if c.Synthesis.PixelStep < 0 {
		return errors.New("synthesis.pixel_step must not be negative")
	}
	if c.Synthesis.WlMin != 0 || c.Synthesis.WlMax != 0 {
		if c.Synthesis.WlMin > c.Synthesis.WlMax {
			return fmt.Errorf("synthesis.wl_min (%d) must not exceed synthesis.wl_max (%d)",
				c.Synthesis.WlMin, c.Synthesis.WlMax)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
