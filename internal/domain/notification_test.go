package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatusNotification(t *testing.T) {
	ownerID := "7c1c3a08-1fbc-4c2b-9a20-0b0f8f5a31a2"
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	complaint := &Complaint{
		ID:        "2d4f9e6a-5b1c-4d3e-8f7a-1a2b3c4d5e6f",
		Reference: "CMP-3F2A9B61",
		UserID:    &ownerID,
		Title:     "Broken light",
		Category:  CategoryStreetlight,
		Status:    ComplaintStatusInProgress,
	}

	n := NewStatusNotification(complaint, now)
	require.NotNil(t, n)
	assert.Equal(t, ownerID, n.UserID)
	assert.Equal(t, complaint.ID, n.ComplaintID)
	assert.Equal(t, "Broken light", n.ComplaintTitle)
	assert.Equal(t, `The status of your complaint #CMP-3F2A9B61 has been updated to "In Progress".`, n.Message)
	assert.False(t, n.IsRead)
	assert.Equal(t, now, n.CreatedAt)
}

func TestNewStatusNotificationAnonymous(t *testing.T) {
	complaint := &Complaint{
		ID:          "b1d3c5e7-9a8b-4c6d-8e0f-2a4b6c8d0e1f",
		Reference:   "CMP-0D11C2AF",
		UserID:      nil,
		IsAnonymous: true,
		Status:      ComplaintStatusResolved,
	}
	assert.Nil(t, NewStatusNotification(complaint, time.Now()))
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Pending", ComplaintStatusPending.Label())
	assert.Equal(t, "In Progress", ComplaintStatusInProgress.Label())
	assert.Equal(t, "Resolved", ComplaintStatusResolved.Label())
}

func TestCategoryValid(t *testing.T) {
	for _, c := range ComplaintCategories {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, ComplaintCategory("NOISE").Valid())
	assert.False(t, ComplaintStatus("CLOSED").Valid())
}
