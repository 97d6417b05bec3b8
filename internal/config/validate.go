package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))

	switch c.Store.Driver {
	case DriverFile:
		if c.Store.FilePath == "" {
			return fmt.Errorf("store.file_path is required for the file driver")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("store.driver must be one of file, postgres, sqlite (got %q)", c.Store.Driver)
	}

	if err := c.Dedupe.validate(); err != nil {
		return fmt.Errorf("dedupe: %w", err)
	}

	switch strings.ToLower(c.Report.Format) {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("report.format must be text, json or yaml (got %q)", c.Report.Format)
	}

	return nil
}

func (d *DedupeConfig) validate() error {
	if d.Separator == "" {
		return fmt.Errorf("separator must not be empty")
	}
	if d.Workers < 1 {
		return fmt.Errorf("workers must be >= 1 (got %d)", d.Workers)
	}
	if d.ExampleWeight <= 0 || d.FieldWeight <= 0 {
		return fmt.Errorf("example_weight and field_weight must be > 0 (got %v, %v)", d.ExampleWeight, d.FieldWeight)
	}
	if d.FrequencyWeight <= 0 {
		return fmt.Errorf("frequency_weight must be > 0 (got %v); a zero value is replaced by the default, use disable_frequency_bonus to turn it off", d.FrequencyWeight)
	}
	if d.ExampleWeight <= d.FieldWeight {
		return fmt.Errorf("example_weight must exceed field_weight (got %v <= %v)", d.ExampleWeight, d.FieldWeight)
	}
	return nil
}
