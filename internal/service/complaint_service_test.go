package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/civic-complaints/internal/domain"
	"github.com/spec-kit/civic-complaints/internal/events"
	"github.com/spec-kit/civic-complaints/internal/repository/memory"
	apperrors "github.com/spec-kit/civic-complaints/pkg/util/errorutil"
)

type complaintFixture struct {
	store      *memory.Store
	service    *ComplaintService
	dispatcher events.Dispatcher
	published  *[]events.Event
}

func newComplaintFixture(t *testing.T) *complaintFixture {
	t.Helper()
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher()

	var published []events.Event
	record := func(ctx context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	}
	dispatcher.Subscribe(events.EventComplaintSubmitted, record)
	dispatcher.Subscribe(events.EventComplaintStatusChanged, record)

	svc := NewComplaintService(ComplaintDependencies{
		ComplaintRepo:    store.Complaints(),
		NotificationRepo: store.Notifications(),
		HistoryRepo:      store.History(),
		TxRunner:         store.TxRunner(),
		Dispatcher:       dispatcher,
	})
	return &complaintFixture{store: store, service: svc, dispatcher: dispatcher, published: &published}
}

func strPtr(s string) *string { return &s }

func TestSubmitAssignsPendingAndOwner(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()

	complaint, err := f.service.Submit(ctx, strPtr("u1"), ComplaintSubmitInput{
		Title:       "Broken light",
		Description: "The streetlight at 5th and Main is out.",
		Category:    domain.CategoryStreetlight,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ComplaintStatusPending, complaint.Status)
	assert.NotEmpty(t, complaint.ID)
	assert.NotEmpty(t, complaint.Reference)
	assert.Empty(t, complaint.Remarks)
	require.NotNil(t, complaint.UserID)
	assert.Equal(t, "u1", *complaint.UserID)

	mine, err := f.service.ListByUser(ctx, "u1", 0, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, complaint.ID, mine[0].ID)

	require.Len(t, *f.published, 1)
	assert.Equal(t, events.EventComplaintSubmitted, (*f.published)[0].Type)
}

func TestSubmitValidation(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input ComplaintSubmitInput
	}{
		{"empty title", ComplaintSubmitInput{Description: "d", Category: domain.CategoryOther}},
		{"empty description", ComplaintSubmitInput{Title: "t", Category: domain.CategoryOther}},
		{"whitespace only", ComplaintSubmitInput{Title: "  ", Description: "\t", Category: domain.CategoryOther}},
		{"bad category", ComplaintSubmitInput{Title: "t", Description: "d", Category: "NOISE"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Submit(ctx, strPtr("u1"), tc.input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperrors.ToDomainError(err).Code)
		})
	}
}

func TestSubmitAnonymousNeverRecordsOwner(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()

	// Authenticated caller filing anonymously: the author is dropped.
	complaint, err := f.service.Submit(ctx, strPtr("u1"), ComplaintSubmitInput{
		Title:       "Overflowing bin",
		Description: "Garbage bin on Elm St has not been emptied.",
		Category:    domain.CategoryGarbage,
		Anonymous:   true,
	})
	require.NoError(t, err)
	assert.Nil(t, complaint.UserID)
	assert.True(t, complaint.IsAnonymous)

	mine, err := f.service.ListByUser(ctx, "u1", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestUpdateStatusChangeCreatesExactlyOneNotification(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()

	complaint, err := f.service.Submit(ctx, strPtr("u1"), ComplaintSubmitInput{
		Title:       "Broken light",
		Description: "Streetlight out.",
		Category:    domain.CategoryStreetlight,
	})
	require.NoError(t, err)

	updated, err := f.service.Update(ctx, "admin1", complaint.ID, domain.ComplaintStatusInProgress, "crew assigned")
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusInProgress, updated.Status)
	assert.Equal(t, "crew assigned", updated.Remarks)

	list, err := f.store.Notifications().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, complaint.ID, list[0].ComplaintID)
	assert.Contains(t, list[0].Message, complaint.Reference)
	assert.Contains(t, list[0].Message, `"In Progress"`)
	assert.False(t, list[0].IsRead)

	history, err := f.service.ListHistory(ctx, complaint.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.ChangeTypeStatus, history[0].ChangeType)
}

func TestUpdateRemarksOnlyCreatesNoNotification(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()

	complaint, err := f.service.Submit(ctx, strPtr("u1"), ComplaintSubmitInput{
		Title:       "Pothole",
		Description: "Deep pothole near the school.",
		Category:    domain.CategoryRoadPotholes,
	})
	require.NoError(t, err)

	updated, err := f.service.Update(ctx, "admin1", complaint.ID, domain.ComplaintStatusPending, "under review")
	require.NoError(t, err)
	assert.Equal(t, "under review", updated.Remarks)

	list, err := f.store.Notifications().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	history, err := f.service.ListHistory(ctx, complaint.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.ChangeTypeRemarks, history[0].ChangeType)

	// Remarks-only updates emit no status-changed event either.
	for _, e := range *f.published {
		assert.NotEqual(t, events.EventComplaintStatusChanged, e.Type)
	}
}

func TestUpdateAnonymousComplaintNeverNotifies(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()

	complaint, err := f.service.Submit(ctx, nil, ComplaintSubmitInput{
		Title:       "No water",
		Description: "No water supply since morning.",
		Category:    domain.CategoryWaterSupply,
		Anonymous:   true,
	})
	require.NoError(t, err)

	for _, status := range []domain.ComplaintStatus{
		domain.ComplaintStatusInProgress,
		domain.ComplaintStatusResolved,
		domain.ComplaintStatusPending,
	} {
		_, err := f.service.Update(ctx, "admin1", complaint.ID, status, "")
		require.NoError(t, err)
	}

	for _, userID := range []string{"u1", "admin1", ""} {
		list, err := f.store.Notifications().ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, list)
	}
}

func TestUpdatePermissiveTransitionGraph(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()

	complaint, err := f.service.Submit(ctx, strPtr("u1"), ComplaintSubmitInput{
		Title:       "Garbage pileup",
		Description: "Pileup behind the market.",
		Category:    domain.CategoryGarbage,
	})
	require.NoError(t, err)

	// Admin may set any status from any status, including reopening a
	// resolved complaint back to pending.
	_, err = f.service.Update(ctx, "admin1", complaint.ID, domain.ComplaintStatusResolved, "done")
	require.NoError(t, err)
	updated, err := f.service.Update(ctx, "admin1", complaint.ID, domain.ComplaintStatusPending, "reopened")
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusPending, updated.Status)

	list, err := f.store.Notifications().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUpdateUnknownComplaint(t *testing.T) {
	f := newComplaintFixture(t)

	_, err := f.service.Update(context.Background(), "admin1", "no-such-id", domain.ComplaintStatusResolved, "")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestUpdateInvalidStatus(t *testing.T) {
	f := newComplaintFixture(t)

	_, err := f.service.Update(context.Background(), "admin1", "any", "CLOSED", "")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperrors.ToDomainError(err).Code)
}

func TestTrackByReference(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()

	complaint, err := f.service.Submit(ctx, nil, ComplaintSubmitInput{
		Title:       "Streetlight flickers",
		Description: "Flickering all night.",
		Category:    domain.CategoryStreetlight,
		Anonymous:   true,
	})
	require.NoError(t, err)

	got, err := f.service.GetByReference(ctx, complaint.Reference)
	require.NoError(t, err)
	assert.Equal(t, complaint.ID, got.ID)

	_, err = f.service.GetByReference(ctx, "CMP-DOESNOTX")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
