package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civic-complaints/internal/domain"
)

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	WithTx(db DBTX) ComplaintRepository
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	GetByReference(ctx context.Context, reference string) (*domain.Complaint, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Complaint, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Complaint, error)
}

type complaintRepository struct {
	db DBTX
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(db DBTX) ComplaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) WithTx(db DBTX) ComplaintRepository {
	return &complaintRepository{db: db}
}

const complaintColumns = `id, reference, user_id, title, description, category,
               photo_url, voice_url, latitude, longitude, status, remarks,
               is_anonymous, created_at, updated_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (reference, user_id, title, description, category, photo_url, voice_url, latitude, longitude, status, remarks, is_anonymous)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	lat, lng := locationValues(complaint.Location)
	return r.db.QueryRow(ctx, query,
		complaint.Reference,
		complaint.UserID,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.PhotoURL,
		complaint.VoiceURL,
		lat,
		lng,
		complaint.Status,
		complaint.Remarks,
		complaint.IsAnonymous,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET status=$1, remarks=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query,
		complaint.Status,
		complaint.Remarks,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *complaintRepository) GetByReference(ctx context.Context, reference string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE reference=$1`
	return r.fetchSingle(ctx, query, reference)
}

func (r *complaintRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints
        WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints
        ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Complaint, error) {
	var (
		complaint domain.Complaint
		lat, lng  *float64
	)
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&complaint.ID,
		&complaint.Reference,
		&complaint.UserID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Category,
		&complaint.PhotoURL,
		&complaint.VoiceURL,
		&lat,
		&lng,
		&complaint.Status,
		&complaint.Remarks,
		&complaint.IsAnonymous,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	complaint.Location = locationFromValues(lat, lng)
	return &complaint, nil
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var (
			complaint domain.Complaint
			lat, lng  *float64
		)
		if err := rows.Scan(
			&complaint.ID,
			&complaint.Reference,
			&complaint.UserID,
			&complaint.Title,
			&complaint.Description,
			&complaint.Category,
			&complaint.PhotoURL,
			&complaint.VoiceURL,
			&lat,
			&lng,
			&complaint.Status,
			&complaint.Remarks,
			&complaint.IsAnonymous,
			&complaint.CreatedAt,
			&complaint.UpdatedAt,
		); err != nil {
			return nil, err
		}
		complaint.Location = locationFromValues(lat, lng)
		result = append(result, complaint)
	}
	return result, rows.Err()
}

func locationValues(loc *domain.GeoPoint) (*float64, *float64) {
	if loc == nil {
		return nil, nil
	}
	lat, lng := loc.Latitude, loc.Longitude
	return &lat, &lng
}

func locationFromValues(lat, lng *float64) *domain.GeoPoint {
	if lat == nil || lng == nil {
		return nil
	}
	return &domain.GeoPoint{Latitude: *lat, Longitude: *lng}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
