// Command dedupe merges duplicate vocabulary entries in a collection.
// Entries with the same word and translation (ignoring case and surrounding
// whitespace) are folded into the most complete one, and a report of every
// merge is printed.
//
// Flags:
//
//	--config         path to config YAML (optional; falls back to CONFIG_PATH)
//	--input          collection location: JSON file or SQLite database, by driver
//	--dry-run        report only, never write back
//	--report-format  text, json or yaml
//	--report-out     write the report to this file instead of stdout
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heartmarshall/vocabmerge/internal/adapter/jsonfile"
	"github.com/heartmarshall/vocabmerge/internal/adapter/postgres"
	"github.com/heartmarshall/vocabmerge/internal/adapter/postgres/vocabulary"
	"github.com/heartmarshall/vocabmerge/internal/adapter/sqlite"
	"github.com/heartmarshall/vocabmerge/internal/app"
	"github.com/heartmarshall/vocabmerge/internal/app/dedupe"
	"github.com/heartmarshall/vocabmerge/internal/config"
)

// Compile-time interface assertions.
var (
	_ dedupe.Backuper = (*jsonfile.Store)(nil)
	_ dedupe.Backuper = (*vocabulary.Repo)(nil)
	_ dedupe.Backuper = (*sqlite.Store)(nil)
)

func main() {
	configPath := flag.String("config", "", "path to config YAML")
	input := flag.String("input", "", "collection file (file driver) or database (sqlite driver)")
	dryRun := flag.Bool("dry-run", false, "report only, do not write")
	reportFormat := flag.String("report-format", "", "report format: text, json or yaml")
	reportOut := flag.String("report-out", "", "write the report to this file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	applyFlags(cfg, *input, *dryRun, *reportFormat, *reportOut)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("validate config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("starting dedupe",
		slog.String("version", app.BuildVersion()),
		slog.String("driver", cfg.Store.Driver),
		slog.Bool("dry_run", cfg.Dedupe.DryRun),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("dedupe failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config, input string, dryRun bool, reportFormat, reportOut string) {
	if input != "" {
		switch cfg.Store.Driver {
		case config.DriverSQLite:
			cfg.SQLite.Path = input
		default:
			cfg.Store.FilePath = input
		}
	}
	if dryRun {
		cfg.Dedupe.DryRun = true
	}
	if reportFormat != "" {
		cfg.Report.Format = reportFormat
	}
	if reportOut != "" {
		cfg.Report.OutputPath = reportOut
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	out, closeOut, err := reportWriter(cfg.Report)
	if err != nil {
		return err
	}
	defer closeOut()

	res, err := dedupe.Run(ctx, cfg, store, out, logger)
	if err != nil {
		return err
	}

	logger.Info("dedupe finished",
		slog.Int("duplicate_groups", res.Report.DuplicateGroups),
		slog.Int("removed", res.Report.EntriesRemoved),
		slog.Int("final_size", res.Report.FinalSize),
		slog.Bool("saved", res.Saved),
	)
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (dedupe.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if err := postgres.Migrate(ctx, logger, cfg.Database.DSN); err != nil {
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		return vocabulary.New(logger, pool, nil), pool.Close, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, logger, cfg.SQLite.Path, nil)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	default:
		return jsonfile.New(logger, cfg.Store.FilePath, cfg.Store.BackupDir, nil), func() {}, nil
	}
}

func reportWriter(cfg config.ReportConfig) (io.Writer, func(), error) {
	if cfg.Omit {
		return nil, func() {}, nil
	}
	if cfg.OutputPath == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create report file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
