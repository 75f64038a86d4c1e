package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/signal-subscription/internal/domain/repository"
)

const (
	uniqueViolation     = "23505"
	invalidTextEncoding = "22P02" // e.g. a malformed uuid in a lookup
)

// translate maps driver errors onto repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code == invalidTextEncoding {
		return repository.ErrNotFound
	}
	if pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case "accounts_email_key":
			return repository.ErrEmailTaken
		case "accounts_trading_view_id_key":
			return repository.ErrTradingViewIDTaken
		}
	}
	return err
}
