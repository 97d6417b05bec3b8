// Package vocabulary stores the vocabulary collection in PostgreSQL.
package vocabulary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/vocabmerge/internal/adapter/postgres"
	"github.com/heartmarshall/vocabmerge/internal/adapter/vocabrow"
	"github.com/heartmarshall/vocabmerge/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo loads and replaces the whole collection. Row order is kept in the
// position column.
type Repo struct {
	log   *slog.Logger
	pool  *pgxpool.Pool
	tx    *postgres.TxManager
	clock clockwork.Clock
}

// New creates a Repo. A nil clock means the real clock.
func New(log *slog.Logger, pool *pgxpool.Pool, clock clockwork.Clock) *Repo {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Repo{
		log:   log,
		pool:  pool,
		tx:    postgres.NewTxManager(pool),
		clock: clock,
	}
}

// Load returns every entry ordered by position.
func (r *Repo) Load(ctx context.Context) ([]domain.VocabularyEntry, error) {
	query, args, err := psql.
		Select(vocabrow.Columns...).
		From(vocabrow.Table).
		OrderBy("position", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []vocabrow.Row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "load vocabulary")
	}

	entries, err := vocabrow.ToEntries(rows)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	r.log.Debug("vocabulary loaded", slog.Int("entries", len(entries)))
	return entries, nil
}

// Save replaces the stored collection with entries in one transaction.
func (r *Repo) Save(ctx context.Context, entries []domain.VocabularyEntry) error {
	rows, err := vocabrow.FromEntries(entries)
	if err != nil {
		return fmt.Errorf("save vocabulary: %w", err)
	}

	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.pool)

		del, args, err := psql.Delete(vocabrow.Table).ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		if _, err := q.Exec(ctx, del, args...); err != nil {
			return postgres.MapError(err, "clear vocabulary")
		}

		if len(rows) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, row := range rows {
			ins, args, err := psql.
				Insert(vocabrow.Table).
				Columns(vocabrow.Columns...).
				Values(row.Values()...).
				ToSql()
			if err != nil {
				return fmt.Errorf("build insert: %w", err)
			}
			batch.Queue(ins, args...)
		}

		if err := sendBatch(ctx, q, batch); err != nil {
			return postgres.MapError(err, "insert vocabulary")
		}

		r.log.Debug("vocabulary saved", slog.Int("entries", len(rows)))
		return nil
	})
}

// Backup copies the table into vocabulary_entries_backup_<timestamp> and
// returns the new table name.
func (r *Repo) Backup(ctx context.Context) (string, error) {
	name := vocabrow.BackupTable(r.clock.Now())

	stmt := fmt.Sprintf("CREATE TABLE %s AS SELECT * FROM %s",
		pgx.Identifier{name}.Sanitize(),
		pgx.Identifier{vocabrow.Table}.Sanitize(),
	)
	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, stmt); err != nil {
		return "", postgres.MapError(err, "backup vocabulary")
	}

	r.log.Info("vocabulary backup created", slog.String("table", name))
	return name, nil
}

func sendBatch(ctx context.Context, q postgres.Querier, batch *pgx.Batch) error {
	br := q.SendBatch(ctx, batch)
	defer br.Close()

	for range batch.Len() {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return br.Close()
}
