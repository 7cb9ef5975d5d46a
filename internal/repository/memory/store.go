// Package memory provides a transient in-memory implementation of the
// repository contracts, used by tests. A write is visible to any read
// issued after it returns, and generated ids are unique.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civic-complaints/internal/domain"
	"github.com/spec-kit/civic-complaints/internal/repository"
)

// Store owns all entity collections behind one lock.
type Store struct {
	mu            sync.RWMutex
	users         map[string]domain.User
	usersByEmail  map[string]string
	complaints    map[string]domain.Complaint
	complaintRefs map[string]string
	notifications map[string]domain.Notification
	history       map[string]domain.ComplaintHistory
}

// NewStore initializes empty collections.
func NewStore() *Store {
	return &Store{
		users:         make(map[string]domain.User),
		usersByEmail:  make(map[string]string),
		complaints:    make(map[string]domain.Complaint),
		complaintRefs: make(map[string]string),
		notifications: make(map[string]domain.Notification),
		history:       make(map[string]domain.ComplaintHistory),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// Complaints returns the complaint repository view of the store.
func (s *Store) Complaints() repository.ComplaintRepository { return &complaintRepo{s} }

// Notifications returns the notification repository view of the store.
func (s *Store) Notifications() repository.NotificationRepository { return &notificationRepo{s} }

// History returns the audit trail repository view of the store.
func (s *Store) History() repository.ComplaintHistoryRepository { return &historyRepo{s} }

// TxRunner returns a runner that applies the function directly. Memory
// operations are infallible once input is valid, so the no-partial-write
// guarantee holds without rollback machinery.
func (s *Store) TxRunner() repository.TxRunner { return txRunner{} }

type txRunner struct{}

func (txRunner) WithinTx(ctx context.Context, fn func(db repository.DBTX) error) error {
	return fn(nil)
}

// newID generates a unique id. A collision would violate the store's
// uniqueness invariant, so it is fatal rather than retryable.
func newID(exists func(id string) bool) string {
	id := uuid.NewString()
	if exists(id) {
		panic("memory store: id collision for " + id)
	}
	return id
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.ID = newID(func(id string) bool { _, ok := r.s.users[id]; return ok })
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	r.s.usersByEmail[user.Email] = user.ID
	return nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	r.s.users[user.ID] = *user
	r.s.usersByEmail[user.Email] = user.ID
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.usersByEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user := r.s.users[id]
	return &user, nil
}

func (r *userRepo) GetByEmailOrPhone(ctx context.Context, identifier string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if id, ok := r.s.usersByEmail[identifier]; ok {
		user := r.s.users[id]
		return &user, nil
	}
	for _, user := range r.s.users {
		if user.Phone != nil && *user.Phone == identifier {
			found := user
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type complaintRepo struct{ s *Store }

func (r *complaintRepo) WithTx(db repository.DBTX) repository.ComplaintRepository { return r }

func (r *complaintRepo) Create(ctx context.Context, complaint *domain.Complaint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	complaint.ID = newID(func(id string) bool { _, ok := r.s.complaints[id]; return ok })
	now := time.Now()
	complaint.CreatedAt = stamp(complaint.CreatedAt)
	complaint.UpdatedAt = now
	r.s.complaints[complaint.ID] = *complaint
	r.s.complaintRefs[complaint.Reference] = complaint.ID
	return nil
}

func (r *complaintRepo) Update(ctx context.Context, complaint *domain.Complaint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.complaints[complaint.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = complaint.Status
	stored.Remarks = complaint.Remarks
	stored.UpdatedAt = time.Now()
	r.s.complaints[complaint.ID] = stored
	complaint.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *complaintRepo) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	complaint, ok := r.s.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &complaint, nil
}

func (r *complaintRepo) GetByReference(ctx context.Context, reference string) (*domain.Complaint, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.complaintRefs[reference]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	complaint := r.s.complaints[id]
	return &complaint, nil
}

func (r *complaintRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Complaint, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []domain.Complaint
	for _, complaint := range r.s.complaints {
		if complaint.UserID != nil && *complaint.UserID == userID {
			result = append(result, complaint)
		}
	}
	return window(sortComplaints(result), limit, offset), nil
}

func (r *complaintRepo) ListAll(ctx context.Context, limit, offset int) ([]domain.Complaint, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]domain.Complaint, 0, len(r.s.complaints))
	for _, complaint := range r.s.complaints {
		result = append(result, complaint)
	}
	return window(sortComplaints(result), limit, offset), nil
}

func sortComplaints(items []domain.Complaint) []domain.Complaint {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

func window[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

type notificationRepo struct{ s *Store }

func (r *notificationRepo) WithTx(db repository.DBTX) repository.NotificationRepository { return r }

func (r *notificationRepo) Create(ctx context.Context, notification *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	notification.ID = newID(func(id string) bool { _, ok := r.s.notifications[id]; return ok })
	notification.CreatedAt = stamp(notification.CreatedAt)
	r.s.notifications[notification.ID] = *notification
	return nil
}

func (r *notificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	notification, ok := r.s.notifications[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &notification, nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []domain.Notification
	for _, notification := range r.s.notifications {
		if notification.UserID == userID {
			result = append(result, notification)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	notification, ok := r.s.notifications[id]
	if !ok {
		return pgx.ErrNoRows
	}
	notification.IsRead = true
	r.s.notifications[id] = notification
	return nil
}

type historyRepo struct{ s *Store }

func (r *historyRepo) WithTx(db repository.DBTX) repository.ComplaintHistoryRepository { return r }

func (r *historyRepo) Create(ctx context.Context, entry *domain.ComplaintHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = newID(func(id string) bool { _, ok := r.s.history[id]; return ok })
	entry.CreatedAt = stamp(entry.CreatedAt)
	r.s.history[entry.ID] = *entry
	return nil
}

func (r *historyRepo) ListByComplaint(ctx context.Context, complaintID string, limit, offset int) ([]domain.ComplaintHistory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []domain.ComplaintHistory
	for _, entry := range r.s.history {
		if entry.ComplaintID == complaintID {
			result = append(result, entry)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return window(result, limit, offset), nil
}
