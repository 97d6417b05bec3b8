package config

import "time"

// Config is the root application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Dedupe   DedupeConfig   `yaml:"dedupe"`
	Report   ReportConfig   `yaml:"report"`
	Log      LogConfig      `yaml:"log"`
}

// Store drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// StoreConfig selects where the vocabulary collection lives.
type StoreConfig struct {
	Driver     string `yaml:"driver"      env:"STORE_DRIVER"      env-default:"file"`
	FilePath   string `yaml:"file_path"   env:"STORE_FILE_PATH"   env-default:"./vocabulary.json"`
	// SkipBackup disables the pre-write backup. cleanenv replaces zero values
	// with env-default, so the toggle is phrased so that false is the default.
	SkipBackup bool   `yaml:"skip_backup" env:"STORE_SKIP_BACKUP"`
	BackupDir  string `yaml:"backup_dir"  env:"STORE_BACKUP_DIR"`
}

// DatabaseConfig holds PostgreSQL connection settings. DSN is only
// required when Store.Driver is "postgres".
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"5"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// SQLiteConfig holds the SQLite database location.
type SQLiteConfig struct {
	Path string `yaml:"path" env:"SQLITE_PATH" env-default:"./vocabulary.db"`
}

// DedupeConfig tunes the merge engine.
//
// A zero FrequencyWeight is replaced by its env-default while loading, so the
// frequency tie-breaker is switched off with DisableFrequencyBonus instead.
type DedupeConfig struct {
	DryRun                bool    `yaml:"dry_run"                 env:"DEDUPE_DRY_RUN"`
	Separator             string  `yaml:"separator"               env:"DEDUPE_SEPARATOR"               env-default:" | "`
	Workers               int     `yaml:"workers"                 env:"DEDUPE_WORKERS"                 env-default:"1"`
	ExampleWeight         float64 `yaml:"example_weight"          env:"DEDUPE_EXAMPLE_WEIGHT"          env-default:"10"`
	FieldWeight           float64 `yaml:"field_weight"            env:"DEDUPE_FIELD_WEIGHT"            env-default:"1"`
	FrequencyWeight       float64 `yaml:"frequency_weight"        env:"DEDUPE_FREQUENCY_WEIGHT"        env-default:"0.001"`
	DisableFrequencyBonus bool    `yaml:"disable_frequency_bonus" env:"DEDUPE_DISABLE_FREQUENCY_BONUS"`
}

// EffectiveFrequencyWeight is the weight the engine should use.
func (d DedupeConfig) EffectiveFrequencyWeight() float64 {
	if d.DisableFrequencyBonus {
		return 0
	}
	return d.FrequencyWeight
}

// ReportConfig controls the change report.
type ReportConfig struct {
	Format     string `yaml:"format"      env:"REPORT_FORMAT"      env-default:"text"`
	OutputPath string `yaml:"output_path" env:"REPORT_OUTPUT_PATH"`
	Omit       bool   `yaml:"omit"        env:"REPORT_OMIT"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
