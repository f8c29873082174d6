package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes the repositories translate into sentinels.
const (
	pgUniqueViolation = "23505"
	pgInvalidTextRepr = "22P02"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// isInvalidInput matches invalid-text-representation failures, raised when a
// malformed identifier reaches a uuid column. That is a bad id from the
// client, not a store failure, so lookups treat it the same as no match.
func isInvalidInput(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepr
}
