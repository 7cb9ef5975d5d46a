package repository

import (
	"context"

	"github.com/spec-kit/civic-complaints/internal/domain"
)

// ComplaintHistoryRepository stores immutable audit entries.
type ComplaintHistoryRepository interface {
	WithTx(db DBTX) ComplaintHistoryRepository
	Create(ctx context.Context, entry *domain.ComplaintHistory) error
	ListByComplaint(ctx context.Context, complaintID string, limit, offset int) ([]domain.ComplaintHistory, error)
}

type complaintHistoryRepository struct {
	db DBTX
}

// NewComplaintHistoryRepository instantiates repository.
func NewComplaintHistoryRepository(db DBTX) ComplaintHistoryRepository {
	return &complaintHistoryRepository{db: db}
}

func (r *complaintHistoryRepository) WithTx(db DBTX) ComplaintHistoryRepository {
	return &complaintHistoryRepository{db: db}
}

func (r *complaintHistoryRepository) Create(ctx context.Context, entry *domain.ComplaintHistory) error {
	const query = `
        INSERT INTO complaint_history (complaint_id, changed_by, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		entry.ComplaintID,
		entry.ChangedByID,
		entry.ChangeType,
		entry.OldValue,
		entry.NewValue,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *complaintHistoryRepository) ListByComplaint(ctx context.Context, complaintID string, limit, offset int) ([]domain.ComplaintHistory, error) {
	const query = `
        SELECT id, complaint_id, changed_by, change_type, old_value, new_value, created_at
        FROM complaint_history WHERE complaint_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, complaintID, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ComplaintHistory
	for rows.Next() {
		var entry domain.ComplaintHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.ComplaintID,
			&entry.ChangedByID,
			&entry.ChangeType,
			&entry.OldValue,
			&entry.NewValue,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
