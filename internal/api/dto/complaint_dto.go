package dto

import (
	"time"

	"github.com/spec-kit/civic-complaints/internal/domain"
)

// LocationRequest carries an optional complaint location.
type LocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Category    domain.ComplaintCategory `json:"category"`
	PhotoURL    *string                  `json:"photo_url"`
	VoiceURL    *string                  `json:"voice_url"`
	Location    *LocationRequest         `json:"location"`
	Anonymous   bool                     `json:"anonymous"`
}

// UpdateComplaintRequest is the admin triage payload.
type UpdateComplaintRequest struct {
	Status  domain.ComplaintStatus `json:"status"`
	Remarks string                 `json:"remarks"`
}

// ComplaintResponse is the full complaint view.
type ComplaintResponse struct {
	ID          string                   `json:"id"`
	Reference   string                   `json:"reference"`
	UserID      *string                  `json:"user_id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Category    domain.ComplaintCategory `json:"category"`
	PhotoURL    *string                  `json:"photo_url,omitempty"`
	VoiceURL    *string                  `json:"voice_url,omitempty"`
	Location    *LocationRequest         `json:"location,omitempty"`
	Status      domain.ComplaintStatus   `json:"status"`
	Remarks     string                   `json:"remarks"`
	IsAnonymous bool                     `json:"is_anonymous"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// TrackComplaintResponse is the public tracking view. It omits the
// owner to keep anonymous and authored complaints indistinguishable
// to outside callers.
type TrackComplaintResponse struct {
	Reference string                   `json:"reference"`
	Title     string                   `json:"title"`
	Category  domain.ComplaintCategory `json:"category"`
	Status    domain.ComplaintStatus   `json:"status"`
	Remarks   string                   `json:"remarks"`
	CreatedAt time.Time                `json:"created_at"`
}

// ComplaintHistoryResponse is one audit trail entry.
type ComplaintHistoryResponse struct {
	ID          string                     `json:"id"`
	ChangeType  domain.ComplaintChangeType `json:"change_type"`
	ChangedByID *string                    `json:"changed_by_id"`
	OldValue    map[string]any             `json:"old_value"`
	NewValue    map[string]any             `json:"new_value"`
	CreatedAt   time.Time                  `json:"created_at"`
}
