package dto

import "time"

// NotificationResponse is the viewer-facing notification view.
type NotificationResponse struct {
	ID             string    `json:"id"`
	ComplaintID    string    `json:"complaint_id"`
	ComplaintTitle string    `json:"complaint_title"`
	Message        string    `json:"message"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}
