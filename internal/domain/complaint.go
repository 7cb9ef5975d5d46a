package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "PENDING"
	ComplaintStatusInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintStatusResolved   ComplaintStatus = "RESOLVED"
)

// Label returns the human-readable status label used in stored
// notification messages. Kept in English regardless of viewer locale.
func (s ComplaintStatus) Label() string {
	switch s {
	case ComplaintStatusPending:
		return "Pending"
	case ComplaintStatusInProgress:
		return "In Progress"
	case ComplaintStatusResolved:
		return "Resolved"
	}
	return string(s)
}

// Valid reports whether the status is a known lifecycle state.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved:
		return true
	}
	return false
}

// ComplaintStatuses lists all lifecycle states in progression order.
var ComplaintStatuses = []ComplaintStatus{
	ComplaintStatusPending,
	ComplaintStatusInProgress,
	ComplaintStatusResolved,
}

// ComplaintCategory enumerates the fixed civic issue categories.
type ComplaintCategory string

const (
	CategoryStreetlight  ComplaintCategory = "STREETLIGHT"
	CategoryWaterSupply  ComplaintCategory = "WATER_SUPPLY"
	CategoryRoadPotholes ComplaintCategory = "ROAD_POTHOLES"
	CategoryGarbage      ComplaintCategory = "GARBAGE"
	CategoryOther        ComplaintCategory = "OTHER"
)

// ComplaintCategories lists all accepted categories in display order.
var ComplaintCategories = []ComplaintCategory{
	CategoryStreetlight,
	CategoryWaterSupply,
	CategoryRoadPotholes,
	CategoryGarbage,
	CategoryOther,
}

// Valid reports whether the category is part of the fixed set.
func (c ComplaintCategory) Valid() bool {
	for _, known := range ComplaintCategories {
		if c == known {
			return true
		}
	}
	return false
}

// GeoPoint is an optional complaint location.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// Complaint is the aggregate for citizen-filed civic issues.
// UserID is nil for anonymous complaints and is never populated
// retroactively. Status and Remarks are mutated only by admins.
type Complaint struct {
	ID          string
	Reference   string
	UserID      *string
	Title       string
	Description string
	Category    ComplaintCategory
	PhotoURL    *string
	VoiceURL    *string
	Location    *GeoPoint
	Status      ComplaintStatus
	Remarks     string
	IsAnonymous bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
