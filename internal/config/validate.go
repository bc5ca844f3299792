package config

import "fmt"

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGifsicle(); err != nil {
		return err
	}
	if err := c.validateOptimize(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateGifsicle() error {
	if c.Gifsicle.TimeoutSeconds < 0 {
		return fmt.Errorf("gifsicle.timeout_seconds must not be negative, got %d", c.Gifsicle.TimeoutSeconds)
	}
	if level := c.Gifsicle.OptimizationLevel; level < 1 || level > 3 {
		return fmt.Errorf("gifsicle.optimization_level must be in [1,3], got %d", level)
	}
	return nil
}

func (c *Config) validateOptimize() error {
	if q := c.Optimize.DefaultQuality; q < 0 || q > 100 {
		return fmt.Errorf("optimize.default_quality must be in [0,100], got %d", q)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
