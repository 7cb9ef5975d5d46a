package events

import (
	"time"

	"github.com/spec-kit/civic-complaints/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintSubmitted     EventType = "complaint_submitted"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventUserVerified           EventType = "user_verified"
)

// Actor encapsulates actor metadata for an event. UserID is nil for
// anonymous submissions.
type Actor struct {
	Role   domain.Role `json:"role"`
	UserID *string     `json:"user_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ComplaintSubmittedPayload payload.
type ComplaintSubmittedPayload struct {
	Reference string                   `json:"reference"`
	Category  domain.ComplaintCategory `json:"category"`
	Title     string                   `json:"title"`
	Anonymous bool                     `json:"anonymous"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	Reference string                 `json:"reference"`
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Remarks   string                 `json:"remarks,omitempty"`
}

// UserVerifiedPayload payload.
type UserVerifiedPayload struct {
	Email string `json:"email"`
}
