// Package dedupe runs one deduplication pass against a vocabulary store:
// load, merge, report, back up and save.
package dedupe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/vocabmerge/internal/config"
	"github.com/heartmarshall/vocabmerge/internal/dedup"
	"github.com/heartmarshall/vocabmerge/internal/domain"
	"github.com/heartmarshall/vocabmerge/internal/report"
)

// Store is a whole-collection vocabulary store.
type Store interface {
	Load(ctx context.Context) ([]domain.VocabularyEntry, error)
	Save(ctx context.Context, entries []domain.VocabularyEntry) error
}

// Backuper is implemented by stores that can snapshot the current
// collection before it is overwritten. It returns where the copy went.
type Backuper interface {
	Backup(ctx context.Context) (string, error)
}

// Result summarizes a run.
type Result struct {
	Report      dedup.Report
	AssignedIDs int
	Changed     bool
	Saved       bool
	BackupRef   string
}

// Run executes one pass. The report is rendered to reportOut unless it is
// nil. Nothing is written back when cfg.Dedupe.DryRun is set or when the
// pass changed nothing.
func Run(ctx context.Context, cfg *config.Config, store Store, reportOut io.Writer, log *slog.Logger) (Result, error) {
	var result Result

	loaded, err := store.Load(ctx)
	if err != nil {
		return result, fmt.Errorf("load collection: %w: %w", domain.ErrStore, err)
	}
	log.Info("collection loaded", slog.Int("entries", len(loaded)))

	entries, assigned := assignMissingIDs(loaded)
	result.AssignedIDs = assigned
	if assigned > 0 {
		log.Info("assigned ids to entries without one", slog.Int("count", assigned))
	}

	if err := domain.CheckIDs(entries); err != nil {
		return result, err
	}

	merger := dedup.NewMerger(log, dedup.Options{
		Weights: dedup.Weights{
			Example:   cfg.Dedupe.ExampleWeight,
			TextField: cfg.Dedupe.FieldWeight,
			Frequency: cfg.Dedupe.EffectiveFrequencyWeight(),
		},
		Separator: cfg.Dedupe.Separator,
		Workers:   cfg.Dedupe.Workers,
	})

	outcome := merger.Process(entries)
	result.Report = outcome.Report
	result.Changed = outcome.Changed() || assigned > 0

	if reportOut != nil {
		format, err := report.ParseFormat(cfg.Report.Format)
		if err != nil {
			return result, err
		}
		if err := report.Render(reportOut, outcome.Report, format); err != nil {
			return result, fmt.Errorf("render report: %w", err)
		}
	}

	if cfg.Dedupe.DryRun {
		log.Info("dry run, collection left untouched",
			slog.Int("would_remove", len(outcome.Merge.RemovedIDs)),
		)
		return result, nil
	}

	if !result.Changed {
		log.Info("no duplicates found, nothing to save")
		return result, nil
	}

	if b, ok := store.(Backuper); ok && !cfg.Store.SkipBackup {
		ref, err := b.Backup(ctx)
		if err != nil {
			return result, fmt.Errorf("backup collection: %w: %w", domain.ErrStore, err)
		}
		result.BackupRef = ref
		log.Info("backup created", slog.String("ref", ref))
	}

	if err := store.Save(ctx, outcome.Entries); err != nil {
		return result, fmt.Errorf("save collection: %w: %w", domain.ErrStore, err)
	}
	result.Saved = true

	log.Info("collection saved",
		slog.Int("entries", len(outcome.Entries)),
		slog.Int("removed", outcome.Report.EntriesRemoved),
	)

	return result, nil
}

// assignMissingIDs returns a copy of entries where every blank id is
// replaced by a fresh UUID. entries itself is not modified.
func assignMissingIDs(entries []domain.VocabularyEntry) ([]domain.VocabularyEntry, int) {
	assigned := 0
	out := make([]domain.VocabularyEntry, len(entries))
	for i, e := range entries {
		out[i] = e
		if strings.TrimSpace(e.ID) == "" {
			out[i].ID = uuid.NewString()
			assigned++
		}
	}
	return out, assigned
}
