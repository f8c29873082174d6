package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/bug-tracker-api/internal/domain/entity"
	"github.com/oksasatya/bug-tracker-api/internal/domain/repository"
)

type BugRepository struct {
	pool *pgxpool.Pool
}

func NewBugRepository(pool *pgxpool.Pool) *BugRepository {
	return &BugRepository{pool: pool}
}

// Reads join the users table twice so every bug carries its creator's and
// assignee's identity without a second round trip.
const bugSelect = `
	SELECT b.id, b.title, b.description, b.status, b.priority,
	       b.created_by, b.assigned_to, b.seq, b.created_at, b.updated_at,
	       c.name, c.email, a.name, a.email
	FROM bugs b
	JOIN users c ON c.id = b.created_by
	LEFT JOIN users a ON a.id = b.assigned_to`

func scanBug(row pgx.Row) (*entity.Bug, error) {
	b := &entity.Bug{}
	var creatorName, creatorEmail string
	var assigneeName, assigneeEmail *string
	if err := row.Scan(&b.ID, &b.Title, &b.Description, &b.Status, &b.Priority,
		&b.CreatedBy, &b.AssignedTo, &b.Seq, &b.CreatedAt, &b.UpdatedAt,
		&creatorName, &creatorEmail, &assigneeName, &assigneeEmail); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidInput(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	b.Creator = &entity.UserRef{ID: b.CreatedBy, Name: creatorName, Email: creatorEmail}
	if b.AssignedTo != nil && assigneeName != nil && assigneeEmail != nil {
		b.Assignee = &entity.UserRef{ID: *b.AssignedTo, Name: *assigneeName, Email: *assigneeEmail}
	}
	return b, nil
}

func (r *BugRepository) Create(ctx context.Context, b *entity.Bug) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO bugs (title, description, status, priority, created_by, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, seq, created_at, updated_at
	`, b.Title, b.Description, b.Status, b.Priority, b.CreatedBy, b.AssignedTo)

	return row.Scan(&b.ID, &b.Seq, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BugRepository) GetByID(ctx context.Context, id string) (*entity.Bug, error) {
	row := r.pool.QueryRow(ctx, bugSelect+` WHERE b.id = $1`, id)
	return scanBug(row)
}

// Query returns all bugs matching the filter, newest first with seq breaking
// created_at ties in insertion order. Set filter fields are ANDed. A filter
// value that cannot be a valid id matches nothing rather than erroring.
func (r *BugRepository) Query(ctx context.Context, f repository.BugFilter) ([]*entity.Bug, error) {
	q := bugSelect
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("b.status = $%d", len(args)))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		conds = append(conds, fmt.Sprintf("b.priority = $%d", len(args)))
	}
	if f.AssignedTo != "" {
		args = append(args, f.AssignedTo)
		conds = append(conds, fmt.Sprintf("b.assigned_to = $%d", len(args)))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY b.created_at DESC, b.seq ASC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		if isInvalidInput(err) {
			return []*entity.Bug{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	bugs := make([]*entity.Bug, 0)
	for rows.Next() {
		b, err := scanBug(rows)
		if err != nil {
			return nil, err
		}
		bugs = append(bugs, b)
	}
	if err := rows.Err(); err != nil {
		if isInvalidInput(err) {
			return []*entity.Bug{}, nil
		}
		return nil, err
	}
	return bugs, nil
}

func (r *BugRepository) Update(ctx context.Context, b *entity.Bug) error {
	b.UpdatedAt = time.Now().UTC()

	res, err := r.pool.Exec(ctx, `
		UPDATE bugs
		SET title = $1, description = $2, status = $3, priority = $4, assigned_to = $5, updated_at = $6
		WHERE id = $7
	`, b.Title, b.Description, b.Status, b.Priority, b.AssignedTo, b.UpdatedAt, b.ID)
	if err != nil {
		if isInvalidInput(err) {
			return repository.ErrNotFound
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BugRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM bugs WHERE id = $1`, id)
	if err != nil {
		if isInvalidInput(err) {
			return repository.ErrNotFound
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.BugRepository = (*BugRepository)(nil)
