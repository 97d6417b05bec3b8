package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/vocabmerge/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors and prefixes them
// with op. Context errors pass through unchanged apart from the prefix.
func MapError(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: duplicate id (%s): %w", op, pgErr.Detail, domain.ErrValidation)
		case "23502", "23514": // not_null_violation, check_violation
			return fmt.Errorf("%s: %s: %w", op, pgErr.Message, domain.ErrValidation)
		case "42P01": // undefined_table
			return fmt.Errorf("%s: %s: %w", op, pgErr.Message, domain.ErrNotFound)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
