/*
Package task implements the task list: the persisted record, the list-query
contract (case-insensitive substring search over title and description plus a
page window), and the PostgreSQL-backed store.

List results are ordered most-recent-first. Each statement is individually
atomic; the store holds no state beyond the connection pool, so operations are
safe to run concurrently across requests.
*/
package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Task is a single task list entry. The list is global; tasks carry no owner.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Update carries the optional fields of a partial task update. A nil field
// leaves the stored value unchanged.
type Update struct {
	Title       *string
	Description *string
	Completed   *bool
}

// ErrNotFound is returned when no task matches the given id.
var ErrNotFound = errors.New("task not found")

// Store persists tasks in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const taskColumns = `id, title, description, completed, created_at, updated_at`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// List returns one page of tasks matching the query plus the pagination
// envelope. The search term matches any task whose title or description
// contains it as a case-insensitive substring.
func (s *Store) List(ctx context.Context, q ListQuery) ([]Task, Pagination, error) {
	var (
		total int
		err   error
	)

	if q.Search != "" {
		err = s.pool.QueryRow(ctx,
			`SELECT count(*) FROM tasks WHERE title ILIKE $1 OR description ILIKE $1`,
			searchPattern(q.Search),
		).Scan(&total)
	} else {
		err = s.pool.QueryRow(ctx, `SELECT count(*) FROM tasks`).Scan(&total)
	}
	if err != nil {
		return nil, Pagination{}, err
	}

	pagination, err := NewPagination(q.Page, q.Limit, total)
	if err != nil {
		return nil, Pagination{}, err
	}

	var rows pgx.Rows
	if q.Search != "" {
		rows, err = s.pool.Query(ctx,
			`SELECT `+taskColumns+` FROM tasks
			 WHERE title ILIKE $1 OR description ILIKE $1
			 ORDER BY created_at DESC, id DESC
			 OFFSET $2 LIMIT $3`,
			searchPattern(q.Search), q.Offset(), q.Limit,
		)
	} else {
		rows, err = s.pool.Query(ctx,
			`SELECT `+taskColumns+` FROM tasks
			 ORDER BY created_at DESC, id DESC
			 OFFSET $1 LIMIT $2`,
			q.Offset(), q.Limit,
		)
	}
	if err != nil {
		return nil, Pagination{}, err
	}
	defer rows.Close()

	tasks := make([]Task, 0, q.Limit)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, Pagination{}, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, Pagination{}, err
	}

	return tasks, pagination, nil
}

// Create inserts a new, uncompleted task and returns the stored record.
func (s *Store) Create(ctx context.Context, title, description string) (Task, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO tasks (id, title, description, completed)
		 VALUES ($1, $2, $3, FALSE)
		 RETURNING `+taskColumns,
		uuid.New().String(), title, description,
	)

	return scanTask(row)
}

// ApplyUpdate applies the non-nil fields of upd to the task with the given id
// and returns the updated record. ErrNotFound is returned for an unknown id.
func (s *Store) ApplyUpdate(ctx context.Context, id string, upd Update) (Task, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE tasks
		 SET title = COALESCE($2, title),
		     description = COALESCE($3, description),
		     completed = COALESCE($4, completed),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+taskColumns,
		id, upd.Title, upd.Description, upd.Completed,
	)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

// Delete removes the task with the given id. Deleting an unknown id is not an
// error; the boundary responds 204 either way.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}
