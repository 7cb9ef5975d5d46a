package memory

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/civic-complaints/internal/domain"
)

func TestComplaintRoundTrip(t *testing.T) {
	store := NewStore()
	repo := store.Complaints()
	ctx := context.Background()

	owner := "u1"
	complaint := &domain.Complaint{
		Reference: "CMP-AAAA0001",
		UserID:    &owner,
		Title:     "Broken light",
		Category:  domain.CategoryStreetlight,
		Status:    domain.ComplaintStatusPending,
	}
	require.NoError(t, repo.Create(ctx, complaint))
	require.NotEmpty(t, complaint.ID)

	got, err := repo.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, "Broken light", got.Title)

	byRef, err := repo.GetByReference(ctx, "CMP-AAAA0001")
	require.NoError(t, err)
	assert.Equal(t, complaint.ID, byRef.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestComplaintUpdateOnlyStatusAndRemarks(t *testing.T) {
	store := NewStore()
	repo := store.Complaints()
	ctx := context.Background()

	complaint := &domain.Complaint{
		Reference: "CMP-AAAA0002",
		Title:     "Pothole",
		Category:  domain.CategoryRoadPotholes,
		Status:    domain.ComplaintStatusPending,
	}
	require.NoError(t, repo.Create(ctx, complaint))

	complaint.Status = domain.ComplaintStatusInProgress
	complaint.Remarks = "crew dispatched"
	complaint.Title = "tampered"
	require.NoError(t, repo.Update(ctx, complaint))

	got, err := repo.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusInProgress, got.Status)
	assert.Equal(t, "crew dispatched", got.Remarks)
	assert.Equal(t, "Pothole", got.Title, "update must not touch immutable fields")
}

func TestNotificationListOrderAndMarkRead(t *testing.T) {
	store := NewStore()
	repo := store.Notifications()
	ctx := context.Background()

	base := time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		n := &domain.Notification{
			UserID:      "u1",
			ComplaintID: "c1",
			Message:     "update",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, n))
	}

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))
	assert.True(t, list[1].CreatedAt.After(list[2].CreatedAt))

	require.NoError(t, repo.MarkRead(ctx, list[0].ID))
	require.NoError(t, repo.MarkRead(ctx, list[0].ID))

	got, err := repo.GetByID(ctx, list[0].ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)

	assert.ErrorIs(t, repo.MarkRead(ctx, "missing"), pgx.ErrNoRows)
}

func TestUserLookupByEmailOrPhone(t *testing.T) {
	store := NewStore()
	repo := store.Users()
	ctx := context.Background()

	phone := "1112223333"
	user := &domain.User{
		Name:  "John Doe",
		Email: "john@example.com",
		Phone: &phone,
		Role:  domain.RoleUser,
	}
	require.NoError(t, repo.Create(ctx, user))

	byEmail, err := repo.GetByEmailOrPhone(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byPhone, err := repo.GetByEmailOrPhone(ctx, "1112223333")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byPhone.ID)

	_, err = repo.GetByEmailOrPhone(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
