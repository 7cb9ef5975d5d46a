package domain

import (
	"fmt"
	"time"
)

// Notification is a stored, user-facing record derived from a status
// change on a non-anonymous complaint. IsRead is monotonic false→true.
type Notification struct {
	ID             string
	UserID         string
	ComplaintID    string
	ComplaintTitle string
	Message        string
	IsRead         bool
	CreatedAt      time.Time
}

// NewStatusNotification derives the notification for a complaint whose
// status was just changed. Pure construction: the caller persists the
// record. Returns nil for anonymous complaints, which never notify.
func NewStatusNotification(c *Complaint, now time.Time) *Notification {
	if c.UserID == nil {
		return nil
	}
	return &Notification{
		UserID:         *c.UserID,
		ComplaintID:    c.ID,
		ComplaintTitle: c.Title,
		Message: fmt.Sprintf("The status of your complaint #%s has been updated to %q.",
			c.Reference, c.Status.Label()),
		IsRead:    false,
		CreatedAt: now,
	}
}
