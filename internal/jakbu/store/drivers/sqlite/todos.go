package sqlite

import (
	"context"
	"time"

	"github.com/jakbu/jakbu/internal/jakbu/domain"
)

const todoColumns = `id, identity_id, title, date, status, created_at, updated_at`

type todosRepo struct {
	db  dbtx
	now func() time.Time
}

func scanTodo(row scanner) (domain.Todo, error) {
	var t domain.Todo
	err := row.Scan(&t.ID, &t.IdentityID, &t.Title, &t.Date, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Todo{}, mapNotFound(err)
	}
	return t, nil
}

func (r *todosRepo) Create(ctx context.Context, t *domain.Todo) error {
	now := r.now()
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO todos (identity_id, title, date, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING id`,
		t.IdentityID, t.Title, t.Date, string(t.Status), now, now,
	).Scan(&t.ID)
	if err != nil {
		return mapMissingOwner(err)
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

func (r *todosRepo) GetByID(ctx context.Context, id int64) (domain.Todo, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)
	return scanTodo(row)
}

func (r *todosRepo) ListByIdentityAndDate(ctx context.Context, identityID int64, date string) ([]domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE identity_id = ? AND date = ? ORDER BY id`,
		identityID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *todosRepo) UpdateStatus(ctx context.Context, id int64, status domain.TodoStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE todos SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), r.now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *todosRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *todosRepo) HasStatus(ctx context.Context, identityID int64, date string, status domain.TodoStatus) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM todos WHERE identity_id = ? AND date = ? AND status = ?)`,
		identityID, date, string(status),
	).Scan(&exists)
	return exists, err
}

func (r *todosRepo) ResetDoneBefore(ctx context.Context, date string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE todos SET status = ?, updated_at = ? WHERE status = ? AND date < ?`,
		string(domain.TodoStatusTodo), r.now(), string(domain.TodoStatusDone), date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *todosRepo) DeleteByIdentity(ctx context.Context, identityID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE identity_id = ?`, identityID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
