package dto

import (
	"time"

	"github.com/spec-kit/complaint-console/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Subject        string                   `json:"subject"`
	Description    string                   `json:"description"`
	Category       string                   `json:"category"`
	CategoryOther  *string                  `json:"category_other,omitempty"`
	DesiredOutcome *string                  `json:"desired_outcome,omitempty"`
	Priority       domain.ComplaintPriority `json:"priority"`
	Branch         *string                  `json:"branch,omitempty"`
	Phone          *string                  `json:"phone,omitempty"`
	Email          *string                  `json:"email,omitempty"`
	DueDate        *time.Time               `json:"due_date,omitempty"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateAssigneeRequest payload. A null assignee_id unassigns the complaint.
type UpdateAssigneeRequest struct {
	AssigneeID *string `json:"assignee_id"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Message    string `json:"message"`
	IsInternal bool   `json:"is_internal"`
}

// CategorySummary response.
type CategorySummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	SLAHours    int       `json:"sla_hours"`
	CreatedAt   time.Time `json:"created_at"`
}

// ComplaintSummary is the list row: the complaint plus joined display names.
type ComplaintSummary struct {
	ID              string                   `json:"id"`
	ComplaintNumber string                   `json:"complaint_number"`
	Subject         string                   `json:"subject"`
	Category        CategorySummary          `json:"category"`
	Priority        domain.ComplaintPriority `json:"priority"`
	Status          domain.ComplaintStatus   `json:"status"`
	Overdue         bool                     `json:"overdue"`
	Reporter        UserSummary              `json:"reporter"`
	Assignee        *UserSummary             `json:"assignee,omitempty"`
	DueDate         time.Time                `json:"due_date"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// CommentResponse represents one entry of the comment thread.
type CommentResponse struct {
	ID         string      `json:"id"`
	Author     UserSummary `json:"author"`
	Message    string      `json:"message"`
	IsInternal bool        `json:"is_internal"`
	CreatedAt  time.Time   `json:"created_at"`
}

// ActivityResponse represents one audit trail entry.
type ActivityResponse struct {
	ID        string                `json:"id"`
	Action    domain.ActivityAction `json:"action"`
	ActorName *string               `json:"actor_name,omitempty"`
	Details   map[string]any        `json:"details,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// ComplaintDetailResponse provides full complaint info.
type ComplaintDetailResponse struct {
	ComplaintSummary
	Description    string             `json:"description"`
	DesiredOutcome *string            `json:"desired_outcome,omitempty"`
	CustomerName   *string            `json:"customer_name,omitempty"`
	CustomerEmail  *string            `json:"customer_email,omitempty"`
	CustomerPhone  *string            `json:"customer_phone,omitempty"`
	ResolvedAt     *time.Time         `json:"resolved_at,omitempty"`
	ClosedAt       *time.Time         `json:"closed_at,omitempty"`
	Comments       []CommentResponse  `json:"comments"`
	Activities     []ActivityResponse `json:"activities"`
}
