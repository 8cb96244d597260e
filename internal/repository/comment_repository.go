package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-console/internal/domain"
)

// CommentRecord joins a comment with its author for detail views.
type CommentRecord struct {
	Comment domain.Comment
	Author  domain.User
}

// CommentRepository encapsulates comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByComplaint(ctx context.Context, complaintID string) ([]CommentRecord, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository instantiates repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (complaint_id, user_id, content, is_internal)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.ComplaintID,
		comment.UserID,
		comment.Content,
		comment.IsInternal,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) ListByComplaint(ctx context.Context, complaintID string) ([]CommentRecord, error) {
	const query = `
        SELECT cm.id, cm.complaint_id, cm.user_id, cm.content, cm.is_internal, cm.created_at,
               u.name, u.email, u.role, u.created_at
        FROM comments cm
        JOIN users u ON u.id = cm.user_id
        WHERE cm.complaint_id=$1
        ORDER BY cm.created_at ASC`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCommentRecords(rows)
}

func scanCommentRecords(rows pgx.Rows) ([]CommentRecord, error) {
	var result []CommentRecord
	for rows.Next() {
		var record CommentRecord
		if err := rows.Scan(
			&record.Comment.ID,
			&record.Comment.ComplaintID,
			&record.Comment.UserID,
			&record.Comment.Content,
			&record.Comment.IsInternal,
			&record.Comment.CreatedAt,
			&record.Author.Name,
			&record.Author.Email,
			&record.Author.Role,
			&record.Author.CreatedAt,
		); err != nil {
			return nil, err
		}
		record.Author.ID = record.Comment.UserID
		result = append(result, record)
	}
	return result, rows.Err()
}
