package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-console/internal/domain"
)

// ComplaintRecord is a complaint joined with its category, reporter and
// (optional) assignee, the shape list and detail views consume.
type ComplaintRecord struct {
	Complaint domain.Complaint
	Category  domain.Category
	Reporter  domain.User
	Assignee  *domain.User
}

// ComplaintFilter captures list-view search parameters.
type ComplaintFilter struct {
	SearchTerm  *string
	Statuses    []domain.ComplaintStatus
	Overdue     bool
	Priorities  []domain.ComplaintPriority
	CategoryID  *string
	Assigned    *bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	GetRecord(ctx context.Context, id string) (*ComplaintRecord, error)
	ListRecords(ctx context.Context, filter ComplaintFilter) ([]ComplaintRecord, error)
	ListCreatedSince(ctx context.Context, since time.Time, limit int) ([]ComplaintRecord, error)
	StatusCounts(ctx context.Context) (map[domain.ComplaintStatus]int, error)
	CountOverdue(ctx context.Context, now time.Time) (int, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (complaint_number, subject, description, desired_outcome, category_id,
            priority, status, reporter_id, assigned_to_id, customer_name, customer_email, customer_phone, due_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.ComplaintNumber,
		complaint.Subject,
		complaint.Description,
		complaint.DesiredOutcome,
		complaint.CategoryID,
		complaint.Priority,
		complaint.Status,
		complaint.ReporterID,
		complaint.AssignedToID,
		complaint.CustomerName,
		complaint.CustomerEmail,
		complaint.CustomerPhone,
		complaint.DueDate,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET subject=$1, description=$2, desired_outcome=$3, category_id=$4,
            priority=$5, status=$6, assigned_to_id=$7, due_date=$8, resolved_at=$9, closed_at=$10,
            updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.Subject,
		complaint.Description,
		complaint.DesiredOutcome,
		complaint.CategoryID,
		complaint.Priority,
		complaint.Status,
		complaint.AssignedToID,
		complaint.DueDate,
		complaint.ResolvedAt,
		complaint.ClosedAt,
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
	const query = `
        SELECT id, complaint_number, subject, description, desired_outcome, category_id, priority, status,
               reporter_id, assigned_to_id, customer_name, customer_email, customer_phone, due_date,
               created_at, updated_at, resolved_at, closed_at
        FROM complaints WHERE id=$1`
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&complaint.ID,
		&complaint.ComplaintNumber,
		&complaint.Subject,
		&complaint.Description,
		&complaint.DesiredOutcome,
		&complaint.CategoryID,
		&complaint.Priority,
		&complaint.Status,
		&complaint.ReporterID,
		&complaint.AssignedToID,
		&complaint.CustomerName,
		&complaint.CustomerEmail,
		&complaint.CustomerPhone,
		&complaint.DueDate,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
		&complaint.ResolvedAt,
		&complaint.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

const recordColumns = `
        c.id, c.complaint_number, c.subject, c.description, c.desired_outcome, c.category_id, c.priority,
        c.status, c.reporter_id, c.assigned_to_id, c.customer_name, c.customer_email, c.customer_phone,
        c.due_date, c.created_at, c.updated_at, c.resolved_at, c.closed_at,
        cat.name, cat.description, cat.sla_hours, cat.created_at,
        rep.name, rep.email, rep.role, rep.created_at,
        asg.id, asg.name, asg.email, asg.role, asg.created_at`

const recordJoins = `
        FROM complaints c
        JOIN categories cat ON cat.id = c.category_id
        JOIN users rep ON rep.id = c.reporter_id
        LEFT JOIN users asg ON asg.id = c.assigned_to_id`

func (r *complaintRepository) GetRecord(ctx context.Context, id string) (*ComplaintRecord, error) {
	query := `SELECT` + recordColumns + recordJoins + ` WHERE c.id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	record, err := scanComplaintRecord(row)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// likeEscaper neutralizes LIKE metacharacters in user-supplied search input.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func buildComplaintClauses(filter ComplaintFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(*filter.SearchTerm))) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(c.complaint_number) LIKE %s OR LOWER(c.subject) LIKE %s OR LOWER(rep.name) LIKE %s)",
			placeholder, placeholder, placeholder))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("c.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Overdue {
		clauses = append(clauses, "c.due_date < NOW() AND c.status NOT IN ('Resolved','Closed')")
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("c.priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("c.category_id=$%d", len(args)))
	}
	if filter.Assigned != nil {
		if *filter.Assigned {
			clauses = append(clauses, "c.assigned_to_id IS NOT NULL")
		} else {
			clauses = append(clauses, "c.assigned_to_id IS NULL")
		}
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("c.created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("c.created_at <= $%d", len(args)))
	}

	return clauses, args
}

func (r *complaintRepository) ListRecords(ctx context.Context, filter ComplaintFilter) ([]ComplaintRecord, error) {
	clauses, args := buildComplaintClauses(filter)

	query := `SELECT` + recordColumns + recordJoins +
		` WHERE ` + strings.Join(clauses, " AND ") +
		` ORDER BY c.created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaintRecords(rows)
}

func (r *complaintRepository) ListCreatedSince(ctx context.Context, since time.Time, limit int) ([]ComplaintRecord, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `SELECT` + recordColumns + recordJoins +
		` WHERE c.created_at >= $1 ORDER BY c.created_at DESC LIMIT ` + fmt.Sprintf("%d", limit)
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaintRecords(rows)
}

func (r *complaintRepository) StatusCounts(ctx context.Context) (map[domain.ComplaintStatus]int, error) {
	const query = `SELECT status, COUNT(*) FROM complaints GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ComplaintStatus]int)
	for rows.Next() {
		var status domain.ComplaintStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *complaintRepository) CountOverdue(ctx context.Context, now time.Time) (int, error) {
	const query = `
        SELECT COUNT(*) FROM complaints
        WHERE due_date < $1 AND status NOT IN ('Resolved','Closed')`
	var count int
	if err := r.pool.QueryRow(ctx, query, now).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanComplaintRecords(rows pgx.Rows) ([]ComplaintRecord, error) {
	var result []ComplaintRecord
	for rows.Next() {
		record, err := scanComplaintRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *record)
	}
	return result, rows.Err()
}

func scanComplaintRecord(row pgx.Row) (*ComplaintRecord, error) {
	var record ComplaintRecord
	var (
		assigneeID        *string
		assigneeName      *string
		assigneeEmail     *string
		assigneeRole      *domain.UserRole
		assigneeCreatedAt *time.Time
	)
	if err := row.Scan(
		&record.Complaint.ID,
		&record.Complaint.ComplaintNumber,
		&record.Complaint.Subject,
		&record.Complaint.Description,
		&record.Complaint.DesiredOutcome,
		&record.Complaint.CategoryID,
		&record.Complaint.Priority,
		&record.Complaint.Status,
		&record.Complaint.ReporterID,
		&record.Complaint.AssignedToID,
		&record.Complaint.CustomerName,
		&record.Complaint.CustomerEmail,
		&record.Complaint.CustomerPhone,
		&record.Complaint.DueDate,
		&record.Complaint.CreatedAt,
		&record.Complaint.UpdatedAt,
		&record.Complaint.ResolvedAt,
		&record.Complaint.ClosedAt,
		&record.Category.Name,
		&record.Category.Description,
		&record.Category.SLAHours,
		&record.Category.CreatedAt,
		&record.Reporter.Name,
		&record.Reporter.Email,
		&record.Reporter.Role,
		&record.Reporter.CreatedAt,
		&assigneeID,
		&assigneeName,
		&assigneeEmail,
		&assigneeRole,
		&assigneeCreatedAt,
	); err != nil {
		return nil, err
	}
	record.Category.ID = record.Complaint.CategoryID
	record.Reporter.ID = record.Complaint.ReporterID
	if assigneeID != nil {
		record.Assignee = &domain.User{
			ID:    *assigneeID,
			Name:  *assigneeName,
			Email: *assigneeEmail,
			Role:  *assigneeRole,
		}
		if assigneeCreatedAt != nil {
			record.Assignee.CreatedAt = *assigneeCreatedAt
		}
	}
	return &record, nil
}
