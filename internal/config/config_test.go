package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
store:
  driver: "sqlite"
  skip_backup: true

sqlite:
  path: "/tmp/vocab.db"

dedupe:
  dry_run: true
  separator: " / "
  workers: 4
  example_weight: 20
  field_weight: 2
  frequency_weight: 0.0005

report:
  format: "yaml"
  output_path: "/tmp/report.yaml"

log:
  level: "debug"
  format: "json"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Store.Driver != DriverSQLite {
		t.Errorf("Store.Driver = %q, want sqlite", cfg.Store.Driver)
	}
	if !cfg.Store.SkipBackup {
		t.Error("Store.SkipBackup should be true")
	}
	if cfg.SQLite.Path != "/tmp/vocab.db" {
		t.Errorf("SQLite.Path = %q", cfg.SQLite.Path)
	}
	if !cfg.Dedupe.DryRun {
		t.Error("Dedupe.DryRun should be true")
	}
	if cfg.Dedupe.Separator != " / " {
		t.Errorf("Dedupe.Separator = %q, want %q", cfg.Dedupe.Separator, " / ")
	}
	if cfg.Dedupe.Workers != 4 {
		t.Errorf("Dedupe.Workers = %d, want 4", cfg.Dedupe.Workers)
	}
	if cfg.Dedupe.ExampleWeight != 20 || cfg.Dedupe.FieldWeight != 2 {
		t.Errorf("weights = %v/%v, want 20/2", cfg.Dedupe.ExampleWeight, cfg.Dedupe.FieldWeight)
	}
	if cfg.Report.Format != "yaml" {
		t.Errorf("Report.Format = %q", cfg.Report.Format)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_ExplicitPathArgumentWins(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "other.yaml"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Store.Driver != DriverSQLite {
		t.Errorf("Store.Driver = %q, want sqlite", cfg.Store.Driver)
	}
}

func TestLoad_EnvOnlyDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Store.Driver != DriverFile {
		t.Errorf("Store.Driver = %q, want file", cfg.Store.Driver)
	}
	if cfg.Store.FilePath != "./vocabulary.json" {
		t.Errorf("Store.FilePath = %q", cfg.Store.FilePath)
	}
	if cfg.Store.SkipBackup {
		t.Error("Store.SkipBackup should default to false")
	}
	if cfg.Dedupe.Workers != 1 {
		t.Errorf("Dedupe.Workers = %d, want 1", cfg.Dedupe.Workers)
	}
	if cfg.Dedupe.ExampleWeight != 10 || cfg.Dedupe.FieldWeight != 1 || cfg.Dedupe.FrequencyWeight != 0.001 {
		t.Errorf("weights = %+v", cfg.Dedupe)
	}
	if strings.TrimSpace(cfg.Dedupe.Separator) != "|" {
		t.Errorf("Dedupe.Separator = %q", cfg.Dedupe.Separator)
	}
	if cfg.Report.Format != "text" {
		t.Errorf("Report.Format = %q, want text", cfg.Report.Format)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DEDUPE_WORKERS", "2")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Dedupe.Workers != 2 {
		t.Errorf("Dedupe.Workers = %d, want 2 (env override)", cfg.Dedupe.Workers)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error without DATABASE_DSN")
	}
	if !strings.Contains(err.Error(), "database.dsn") {
		t.Errorf("error = %v, want mention of database.dsn", err)
	}
}

func validConfig() Config {
	return Config{
		Store:  StoreConfig{Driver: DriverFile, FilePath: "v.json"},
		Dedupe: DedupeConfig{Separator: " | ", Workers: 1, ExampleWeight: 10, FieldWeight: 1, FrequencyWeight: 0.001},
		Report: ReportConfig{Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "driver is case-insensitive", mutate: func(c *Config) { c.Store.Driver = " FILE " }},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "redis" }, wantErr: true},
		{name: "file driver without path", mutate: func(c *Config) { c.Store.FilePath = "" }, wantErr: true},
		{name: "sqlite without path", mutate: func(c *Config) { c.Store.Driver = DriverSQLite }, wantErr: true},
		{name: "postgres with dsn", mutate: func(c *Config) {
			c.Store.Driver = DriverPostgres
			c.Database.DSN = "postgres://u:p@localhost/db"
		}},
		{name: "empty separator", mutate: func(c *Config) { c.Dedupe.Separator = "" }, wantErr: true},
		{name: "zero workers", mutate: func(c *Config) { c.Dedupe.Workers = 0 }, wantErr: true},
		{name: "negative frequency weight", mutate: func(c *Config) { c.Dedupe.FrequencyWeight = -1 }, wantErr: true},
		{name: "zero frequency weight", mutate: func(c *Config) { c.Dedupe.FrequencyWeight = 0 }, wantErr: true},
		{name: "frequency bonus disabled", mutate: func(c *Config) { c.Dedupe.DisableFrequencyBonus = true }},
		{name: "field weight above example weight", mutate: func(c *Config) { c.Dedupe.FieldWeight = 20 }, wantErr: true},
		{name: "bad report format", mutate: func(c *Config) { c.Report.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoad_DisableFrequencyBonus(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	path := writeYAML(t, t.TempDir(), `
dedupe:
  frequency_weight: 0
  disable_frequency_bonus: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// cleanenv fills the zero weight from env-default; the toggle is what counts.
	if cfg.Dedupe.FrequencyWeight != 0.001 {
		t.Errorf("FrequencyWeight = %v, want env-default 0.001", cfg.Dedupe.FrequencyWeight)
	}
	if got := cfg.Dedupe.EffectiveFrequencyWeight(); got != 0 {
		t.Errorf("EffectiveFrequencyWeight() = %v, want 0", got)
	}
}

func TestDedupeConfig_EffectiveFrequencyWeight(t *testing.T) {
	t.Parallel()

	d := DedupeConfig{FrequencyWeight: 0.002}
	if got := d.EffectiveFrequencyWeight(); got != 0.002 {
		t.Errorf("EffectiveFrequencyWeight() = %v, want 0.002", got)
	}
}
