package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civic-complaints/internal/domain"
	"github.com/spec-kit/civic-complaints/internal/events"
	"github.com/spec-kit/civic-complaints/internal/observability"
	"github.com/spec-kit/civic-complaints/internal/repository"
	apperrors "github.com/spec-kit/civic-complaints/pkg/util/errorutil"
)

// ComplaintService is the sole authority for complaint creation and
// status/remarks mutation. A status change and its derived
// notification commit as one unit: callers never observe the first
// without the second for a non-anonymous complaint.
type ComplaintService struct {
	complaints    repository.ComplaintRepository
	notifications repository.NotificationRepository
	history       repository.ComplaintHistoryRepository
	tx            repository.TxRunner
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	now           func() time.Time
}

// ComplaintDependencies bundles requirements for the service.
type ComplaintDependencies struct {
	ComplaintRepo    repository.ComplaintRepository
	NotificationRepo repository.NotificationRepository
	HistoryRepo      repository.ComplaintHistoryRepository
	TxRunner         repository.TxRunner
	Dispatcher       events.Dispatcher
	Metrics          *observability.Metrics
}

// ComplaintSubmitInput describes a citizen filing.
type ComplaintSubmitInput struct {
	Title       string
	Description string
	Category    domain.ComplaintCategory
	PhotoURL    *string
	VoiceURL    *string
	Location    *domain.GeoPoint
	Anonymous   bool
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints:    deps.ComplaintRepo,
		notifications: deps.NotificationRepo,
		history:       deps.HistoryRepo,
		tx:            deps.TxRunner,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		now:           time.Now,
	}
}

// Submit files a complaint. authorID may be nil only for anonymous
// filings; an anonymous complaint never records an author, even when
// the caller is authenticated.
func (s *ComplaintService) Submit(ctx context.Context, authorID *string, input ComplaintSubmitInput) (*domain.Complaint, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	if !input.Category.Valid() {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}
	if !input.Anonymous && authorID == nil {
		return nil, apperrors.NewValidationError("authenticated author required for non-anonymous complaint", nil)
	}

	complaint := &domain.Complaint{
		Reference:   generateComplaintRef(),
		Title:       title,
		Description: description,
		Category:    input.Category,
		PhotoURL:    input.PhotoURL,
		VoiceURL:    input.VoiceURL,
		Location:    input.Location,
		Status:      domain.ComplaintStatusPending,
		Remarks:     "",
		IsAnonymous: input.Anonymous,
	}
	if !input.Anonymous {
		complaint.UserID = authorID
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.metrics.RecordComplaintSubmitted(string(complaint.Category))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventComplaintSubmitted,
		EntityID: complaint.ID,
		Actor:    citizenActor(complaint.UserID),
		Payload: events.ComplaintSubmittedPayload{
			Reference: complaint.Reference,
			Category:  complaint.Category,
			Title:     complaint.Title,
			Anonymous: complaint.IsAnonymous,
		},
	})
	return complaint, nil
}

// Update overwrites status and remarks unconditionally. Any status may
// be set from any status: the workflow is deliberately permissive and
// no transition graph is enforced. If and only if the status actually
// changed and the complaint has an owner, exactly one notification is
// persisted in the same transaction.
func (s *ComplaintService) Update(ctx context.Context, adminID, complaintID string, newStatus domain.ComplaintStatus, newRemarks string) (*domain.Complaint, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}

	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := complaint.Status
	oldRemarks := complaint.Remarks
	statusChanged := oldStatus != newStatus
	remarksChanged := oldRemarks != newRemarks
	complaint.Status = newStatus
	complaint.Remarks = newRemarks

	err = s.tx.WithinTx(ctx, func(db repository.DBTX) error {
		if err := s.complaints.WithTx(db).Update(ctx, complaint); err != nil {
			return err
		}
		if statusChanged && complaint.UserID != nil {
			notification := domain.NewStatusNotification(complaint, s.now())
			if err := s.notifications.WithTx(db).Create(ctx, notification); err != nil {
				return err
			}
		}
		if statusChanged {
			entry := &domain.ComplaintHistory{
				ComplaintID: complaint.ID,
				ChangedByID: &adminID,
				ChangeType:  domain.ChangeTypeStatus,
				OldValue:    map[string]any{"status": oldStatus},
				NewValue:    map[string]any{"status": newStatus, "remarks": newRemarks},
			}
			return s.history.WithTx(db).Create(ctx, entry)
		}
		if remarksChanged {
			entry := &domain.ComplaintHistory{
				ComplaintID: complaint.ID,
				ChangedByID: &adminID,
				ChangeType:  domain.ChangeTypeRemarks,
				OldValue:    map[string]any{"remarks": oldRemarks},
				NewValue:    map[string]any{"remarks": newRemarks},
			}
			return s.history.WithTx(db).Create(ctx, entry)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if statusChanged {
		s.metrics.RecordStatusChange(string(oldStatus), string(newStatus))
		if complaint.UserID != nil {
			s.metrics.RecordNotificationCreated()
		}
		s.publishEvent(ctx, events.Event{
			Type:     events.EventComplaintStatusChanged,
			EntityID: complaint.ID,
			Actor:    adminActor(adminID),
			Payload: events.ComplaintStatusChangedPayload{
				Reference: complaint.Reference,
				OldStatus: oldStatus,
				NewStatus: newStatus,
				Remarks:   newRemarks,
			},
		})
	}
	return complaint, nil
}

// GetByID fetches a complaint.
func (s *ComplaintService) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

// GetByReference resolves the public tracking reference. Used by the
// unauthenticated track-complaint flow.
func (s *ComplaintService) GetByReference(ctx context.Context, reference string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByReference(ctx, strings.TrimSpace(reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"reference": reference})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

// ListByUser returns the caller's complaints, newest first.
func (s *ComplaintService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Complaint, error) {
	complaints, err := s.complaints.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaints, nil
}

// ListAll returns every complaint, newest first. Admin only; the
// transport layer gates access.
func (s *ComplaintService) ListAll(ctx context.Context, limit, offset int) ([]domain.Complaint, error) {
	complaints, err := s.complaints.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaints, nil
}

// ListHistory returns the audit trail for a complaint.
func (s *ComplaintService) ListHistory(ctx context.Context, complaintID string, limit, offset int) ([]domain.ComplaintHistory, error) {
	if _, err := s.GetByID(ctx, complaintID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByComplaint(ctx, complaintID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func generateComplaintRef() string {
	return "CMP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func citizenActor(userID *string) events.Actor {
	return events.Actor{Role: domain.RoleUser, UserID: userID}
}

func adminActor(adminID string) events.Actor {
	return events.Actor{Role: domain.RoleAdmin, UserID: &adminID}
}
