// Package memstore provides an in-memory thread store for tests and for
// running without a configured database.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"glycall/internal/thread"

	"github.com/google/uuid"
)

type store struct {
	mu      sync.RWMutex
	threads map[string]thread.Thread
}

// New returns an empty in-memory thread store.
func New() thread.Store {
	return &store{threads: make(map[string]thread.Thread)}
}

func (s *store) Create(ctx context.Context, resourceID, title string) (*thread.Thread, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	t := thread.Thread{
		ID:         uuid.NewString(),
		ResourceID: resourceID,
		Title:      title,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	s.threads[t.ID] = t
	s.mu.Unlock()

	return &t, nil
}

func (s *store) Get(ctx context.Context, threadID string) (*thread.Thread, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	t, ok := s.threads[threadID]
	s.mu.RUnlock()
	if !ok {
		return nil, thread.ErrNotFound
	}
	return &t, nil
}

func (s *store) List(ctx context.Context, resourceID string, page, perPage int) (*thread.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page < 0 {
		page = 0
	}
	if perPage <= 0 {
		perPage = 50
	}

	s.mu.RLock()
	all := []thread.Thread{}
	for _, t := range s.threads {
		if t.ResourceID == resourceID {
			all = append(all, t)
		}
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].UpdatedAt.After(all[j].UpdatedAt)
	})

	total := len(all)
	start := page * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return &thread.Page{
		Threads: all[start:end],
		Total:   total,
		HasMore: end < total,
	}, nil
}

func (s *store) Touch(ctx context.Context, threadID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[threadID]
	if !ok {
		return thread.ErrNotFound
	}
	t.UpdatedAt = time.Now()
	s.threads[threadID] = t
	return nil
}

func (s *store) Delete(ctx context.Context, threadID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Idempotent: deleting an absent thread is a no-op.
	s.mu.Lock()
	delete(s.threads, threadID)
	s.mu.Unlock()
	return nil
}
