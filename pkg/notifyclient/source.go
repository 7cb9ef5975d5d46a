// Package notifyclient maintains a per-viewer, freshness-bounded
// mirror of that viewer's notifications. It polls a Source on a fixed
// interval, replacing the whole cache each tick, and derives the
// unread count from the cache rather than tracking it separately.
package notifyclient

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the notification id is unknown to the server.
var ErrNotFound = errors.New("notification not found")

// Notification is the client-side view of a stored notification.
type Notification struct {
	ID             string    `json:"id"`
	ComplaintID    string    `json:"complaint_id"`
	ComplaintTitle string    `json:"complaint_title"`
	Message        string    `json:"message"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// Source supplies the authenticated viewer's notifications. Errors
// from List are treated as transient: the engine keeps its current
// cache and retries on the next tick.
type Source interface {
	List(ctx context.Context) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
}
