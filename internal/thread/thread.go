package thread

import (
	"context"
	"errors"
	"regexp"
	"time"
)

// Thread is one conversation, grouped under an owning resource. Message
// history itself lives with the agent runtime's memory; this entity only
// carries what the sidebar and routing need.
type Thread struct {
	ID         string    `json:"id"`
	ResourceID string    `json:"resourceId"`
	Title      string    `json:"title,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Page is one page of a resource's threads, ordered by last update.
type Page struct {
	Threads []Thread `json:"threads"`
	Total   int      `json:"total"`
	HasMore bool     `json:"hasMore"`
}

// ErrNotFound reports a lookup for a thread id with no row.
var ErrNotFound = errors.New("thread not found")

// ErrNotConfigured reports that no thread storage is wired; mutations
// propagate it to the caller while listing degrades to empty.
var ErrNotConfigured = errors.New("thread storage not configured")

// Store persists threads. Implementations must keep Delete idempotent and
// order List by updated_at descending.
type Store interface {
	Create(ctx context.Context, resourceID, title string) (*Thread, error)
	Get(ctx context.Context, threadID string) (*Thread, error)
	List(ctx context.Context, resourceID string, page, perPage int) (*Page, error)
	Touch(ctx context.Context, threadID string) error
	Delete(ctx context.Context, threadID string) error
}

var safeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// IsSafeID reports whether an identifier is safe to use in queries and paths.
func IsSafeID(id string) bool {
	return safeIDPattern.MatchString(id)
}

const maxTitleRunes = 50

// DeriveTitle builds a thread title from the first user message, truncated
// with an ellipsis the way the chat composer does.
func DeriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= maxTitleRunes {
		return text
	}
	return string(runes[:maxTitleRunes]) + "..."
}
