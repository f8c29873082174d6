package postgres

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/bug-tracker-api/internal/domain/entity"
	"github.com/oksasatya/bug-tracker-api/internal/domain/repository"
)

// stubRow feeds canned column values (or an error) through the pgx.Row
// interface so scanBug can be exercised without a database.
type stubRow struct {
	vals []any
	err  error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		if r.vals[i] == nil {
			continue
		}
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.vals[i]))
	}
	return nil
}

func strptr(s string) *string { return &s }

func TestScanBugEmbedsIdentities(t *testing.T) {
	now := time.Now()
	row := stubRow{vals: []any{
		"bug1", "Crash on save", "Editor crashes", "open", "high",
		"u-alice", strptr("u-bob"), int64(7), now, now,
		"Alice", "alice@example.com", strptr("Bob"), strptr("bob@example.com"),
	}}

	b, err := scanBug(row)
	assert.NoError(t, err)
	assert.Equal(t, "u-alice", b.CreatedBy)
	assert.Equal(t, &entity.UserRef{ID: "u-alice", Name: "Alice", Email: "alice@example.com"}, b.Creator)
	assert.Equal(t, &entity.UserRef{ID: "u-bob", Name: "Bob", Email: "bob@example.com"}, b.Assignee)
	assert.Equal(t, int64(7), b.Seq)
}

func TestScanBugWithoutAssignee(t *testing.T) {
	now := time.Now()
	row := stubRow{vals: []any{
		"bug1", "t", "d", "open", "medium",
		"u-alice", nil, int64(1), now, now,
		"Alice", "alice@example.com", nil, nil,
	}}

	b, err := scanBug(row)
	assert.NoError(t, err)
	assert.NotNil(t, b.Creator)
	assert.Nil(t, b.AssignedTo)
	assert.Nil(t, b.Assignee)
}

func TestScanBugMalformedID(t *testing.T) {
	// a non-UUID path parameter surfaces as invalid text representation;
	// that is a bad identifier, not a store outage
	row := stubRow{err: &pgconn.PgError{Code: pgInvalidTextRepr}}

	_, err := scanBug(row)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestScanBugNoRows(t *testing.T) {
	_, err := scanBug(stubRow{err: pgx.ErrNoRows})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestErrorClassification(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation})
	bad := fmt.Errorf("select: %w", &pgconn.PgError{Code: pgInvalidTextRepr})

	assert.True(t, isUniqueViolation(dup))
	assert.False(t, isUniqueViolation(bad))
	assert.True(t, isInvalidInput(bad))
	assert.False(t, isInvalidInput(dup))
	assert.False(t, isInvalidInput(pgx.ErrNoRows))
}
