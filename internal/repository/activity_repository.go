package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-console/internal/domain"
)

// ActivityRecord joins an activity with its actor (when known) and enough
// complaint context for the notifications widget.
type ActivityRecord struct {
	Activity        domain.Activity
	ActorName       *string
	ComplaintNumber string
	Subject         string
}

// ActivityRepository stores the append-only audit trail.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	ListByComplaint(ctx context.Context, complaintID string) ([]ActivityRecord, error)
	ListRecent(ctx context.Context, limit int) ([]ActivityRecord, error)
}

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository builds repository.
func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	const query = `
        INSERT INTO activities (complaint_id, user_id, action, details)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		activity.ComplaintID,
		activity.UserID,
		activity.Action,
		activity.Details,
	).Scan(&activity.ID, &activity.CreatedAt)
}

func (r *activityRepository) ListByComplaint(ctx context.Context, complaintID string) ([]ActivityRecord, error) {
	const query = `
        SELECT a.id, a.complaint_id, a.user_id, a.action, a.details, a.created_at,
               u.name, c.complaint_number, c.subject
        FROM activities a
        LEFT JOIN users u ON u.id = a.user_id
        JOIN complaints c ON c.id = a.complaint_id
        WHERE a.complaint_id=$1
        ORDER BY a.created_at ASC`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivityRecords(rows)
}

func (r *activityRepository) ListRecent(ctx context.Context, limit int) ([]ActivityRecord, error) {
	if limit <= 0 {
		limit = 3
	}
	const query = `
        SELECT a.id, a.complaint_id, a.user_id, a.action, a.details, a.created_at,
               u.name, c.complaint_number, c.subject
        FROM activities a
        LEFT JOIN users u ON u.id = a.user_id
        JOIN complaints c ON c.id = a.complaint_id
        ORDER BY a.created_at DESC
        LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivityRecords(rows)
}

func scanActivityRecords(rows pgx.Rows) ([]ActivityRecord, error) {
	var result []ActivityRecord
	for rows.Next() {
		var record ActivityRecord
		if err := rows.Scan(
			&record.Activity.ID,
			&record.Activity.ComplaintID,
			&record.Activity.UserID,
			&record.Activity.Action,
			&record.Activity.Details,
			&record.Activity.CreatedAt,
			&record.ActorName,
			&record.ComplaintNumber,
			&record.Subject,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
