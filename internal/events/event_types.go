package events

import (
	"time"

	"github.com/spec-kit/complaint-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated EventType = "complaint_created"
	EventStatusChanged    EventType = "complaint_status_changed"
	EventAssigneeChanged  EventType = "complaint_assignee_changed"
	EventCommentAdded     EventType = "complaint_comment_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	ActorID     *string     `json:"actor_id,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload carries what the created notification renders.
type ComplaintCreatedPayload struct {
	ComplaintNumber string                   `json:"complaint_number"`
	Subject         string                   `json:"subject"`
	Description     string                   `json:"description"`
	CategoryName    string                   `json:"category_name"`
	Priority        domain.ComplaintPriority `json:"priority"`
	ReporterEmail   string                   `json:"reporter_email"`
	CreatedAt       time.Time                `json:"created_at"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	ComplaintNumber string                 `json:"complaint_number"`
	Subject         string                 `json:"subject"`
	OldStatus       domain.ComplaintStatus `json:"old_status"`
	NewStatus       domain.ComplaintStatus `json:"new_status"`
	ChangedAt       time.Time              `json:"changed_at"`
}

// AssigneeChangedPayload payload. AssigneeName/Email are set only when the
// complaint ended up assigned to someone.
type AssigneeChangedPayload struct {
	ComplaintNumber string                   `json:"complaint_number"`
	Subject         string                   `json:"subject"`
	Description     string                   `json:"description"`
	Priority        domain.ComplaintPriority `json:"priority"`
	DueDate         time.Time                `json:"due_date"`
	ReporterName    string                   `json:"reporter_name"`
	OldAssigneeID   *string                  `json:"old_assignee_id,omitempty"`
	AssigneeID      *string                  `json:"assignee_id,omitempty"`
	AssigneeName    string                   `json:"assignee_name,omitempty"`
	AssigneeEmail   string                   `json:"assignee_email,omitempty"`
	Changed         bool                     `json:"changed"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID       string `json:"comment_id"`
	ComplaintNumber string `json:"complaint_number"`
	Subject         string `json:"subject"`
	AuthorEmail     string `json:"author_email"`
	Body            string `json:"body"`
	IsInternal      bool   `json:"is_internal"`
}
