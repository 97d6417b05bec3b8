// Package sqlite stores the vocabulary collection in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/jonboulle/clockwork"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/vocabmerge/internal/adapter/vocabrow"
	"github.com/heartmarshall/vocabmerge/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Store keeps entries in the vocabulary_entries table, ordered by position.
type Store struct {
	log   *slog.Logger
	db    *sql.DB
	clock clockwork.Clock
}

// Open opens (or creates) the database at path and applies migrations.
// A nil clock means the real clock.
func Open(ctx context.Context, log *slog.Logger, path string, clock clockwork.Clock) (*Store, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{log: log, db: db, clock: clock}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns every entry ordered by position.
func (s *Store) Load(ctx context.Context) ([]domain.VocabularyEntry, error) {
	query, args, err := sq.
		Select(vocabrow.Columns...).
		From(vocabrow.Table).
		OrderBy("position", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []vocabrow.Row
	if err := sqlscan.Select(ctx, s.db, &rows, query, args...); err != nil {
		return nil, mapError(err, "load vocabulary")
	}

	entries, err := vocabrow.ToEntries(rows)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	s.log.Debug("vocabulary loaded", slog.Int("entries", len(entries)))
	return entries, nil
}

// Save replaces the stored collection with entries in one transaction.
func (s *Store) Save(ctx context.Context, entries []domain.VocabularyEntry) (err error) {
	rows, err := vocabrow.FromEntries(entries)
	if err != nil {
		return fmt.Errorf("save vocabulary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	del, args, err := sq.Delete(vocabrow.Table).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err = tx.ExecContext(ctx, del, args...); err != nil {
		return mapError(err, "clear vocabulary")
	}

	for _, row := range rows {
		ins, args, buildErr := sq.
			Insert(vocabrow.Table).
			Columns(vocabrow.Columns...).
			Values(row.Values()...).
			ToSql()
		if buildErr != nil {
			return fmt.Errorf("build insert: %w", buildErr)
		}
		if _, err = tx.ExecContext(ctx, ins, args...); err != nil {
			return mapError(err, "insert vocabulary "+row.ID)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.log.Debug("vocabulary saved", slog.Int("entries", len(rows)))
	return nil
}

// Backup copies the table into vocabulary_entries_backup_<timestamp> and
// returns the new table name.
func (s *Store) Backup(ctx context.Context) (string, error) {
	name := vocabrow.BackupTable(s.clock.Now())

	stmt := fmt.Sprintf(`CREATE TABLE %s AS SELECT * FROM %s`, quoteIdent(name), quoteIdent(vocabrow.Table))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return "", mapError(err, "backup vocabulary")
	}

	s.log.Info("vocabulary backup created", slog.String("table", name))
	return name, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// mapError converts sqlite3 constraint errors to domain errors.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%s: %s: %w", op, sqliteErr.Error(), domain.ErrValidation)
	}

	return fmt.Errorf("%s: %w", op, err)
}
