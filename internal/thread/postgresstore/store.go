// Package postgresstore persists threads in Postgres via pgx.
package postgresstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glycall/internal/logging"
	"glycall/internal/thread"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const threadTable = "chat_threads"

// Store implements a Postgres-backed thread store.
type Store struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// New constructs a Postgres-backed thread store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:   pool,
		logger: logging.NewComponentLogger("ThreadPostgresStore"),
	}
}

// EnsureSchema creates the thread table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return thread.ErrNotConfigured
	}

	query := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    id TEXT PRIMARY KEY,
    resource_id TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chat_threads_resource_updated ON %s (resource_id, updated_at DESC);
`, threadTable, threadTable)

	_, err := s.pool.Exec(ctx, query)
	return err
}

// Create inserts a new thread with a server-issued identifier.
func (s *Store) Create(ctx context.Context, resourceID, title string) (*thread.Thread, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.pool == nil {
		return nil, thread.ErrNotConfigured
	}

	now := time.Now()
	t := thread.Thread{
		ID:         uuid.NewString(),
		ResourceID: resourceID,
		Title:      title,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	query := fmt.Sprintf(`
INSERT INTO %s (id, resource_id, title, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
`, threadTable)

	if _, err := s.pool.Exec(ctx, query, t.ID, t.ResourceID, t.Title, t.CreatedAt, t.UpdatedAt); err != nil {
		s.logger.Error("Failed to create thread for resource %s: %v", resourceID, err)
		return nil, err
	}
	return &t, nil
}

// Get retrieves a thread by id.
func (s *Store) Get(ctx context.Context, threadID string) (*thread.Thread, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !thread.IsSafeID(threadID) {
		return nil, fmt.Errorf("invalid thread ID")
	}
	if s == nil || s.pool == nil {
		return nil, thread.ErrNotConfigured
	}

	query := fmt.Sprintf(`
SELECT id, resource_id, title, created_at, updated_at
FROM %s
WHERE id = $1
`, threadTable)

	var t thread.Thread
	err := s.pool.QueryRow(ctx, query, threadID).Scan(
		&t.ID, &t.ResourceID, &t.Title, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, thread.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns one page of a resource's threads, most recently updated first.
func (s *Store) List(ctx context.Context, resourceID string, page, perPage int) (*thread.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.pool == nil {
		return nil, thread.ErrNotConfigured
	}
	if page < 0 {
		page = 0
	}
	if perPage <= 0 {
		perPage = 50
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE resource_id = $1`, threadTable)
	var total int
	if err := s.pool.QueryRow(ctx, countQuery, resourceID).Scan(&total); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
SELECT id, resource_id, title, created_at, updated_at
FROM %s
WHERE resource_id = $1
ORDER BY updated_at DESC
LIMIT $2 OFFSET $3
`, threadTable)

	rows, err := s.pool.Query(ctx, query, resourceID, perPage, page*perPage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	threads := []thread.Thread{}
	for rows.Next() {
		var t thread.Thread
		if err := rows.Scan(&t.ID, &t.ResourceID, &t.Title, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &thread.Page{
		Threads: threads,
		Total:   total,
		HasMore: page*perPage+len(threads) < total,
	}, nil
}

// Touch bumps a thread's updated_at to now.
func (s *Store) Touch(ctx context.Context, threadID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !thread.IsSafeID(threadID) {
		return fmt.Errorf("invalid thread ID")
	}
	if s == nil || s.pool == nil {
		return thread.ErrNotConfigured
	}

	query := fmt.Sprintf(`UPDATE %s SET updated_at = $2 WHERE id = $1`, threadTable)
	tag, err := s.pool.Exec(ctx, query, threadID, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return thread.ErrNotFound
	}
	return nil
}

// Delete removes a thread. Deleting an absent id is not an error.
func (s *Store) Delete(ctx context.Context, threadID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !thread.IsSafeID(threadID) {
		return fmt.Errorf("invalid thread ID")
	}
	if s == nil || s.pool == nil {
		return thread.ErrNotConfigured
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, threadTable)
	_, err := s.pool.Exec(ctx, query, threadID)
	return err
}
