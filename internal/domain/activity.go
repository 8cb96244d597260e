package domain

import "time"

// ActivityAction identifies what a mutation did.
type ActivityAction string

const (
	ActionStatusChange     ActivityAction = "status_change"
	ActionAssignmentChange ActivityAction = "assignment_change"
	ActionComment          ActivityAction = "comment"
)

// Activity is an append-only audit record for a complaint mutation.
// Writes are best-effort: a failed insert never rolls back the mutation.
type Activity struct {
	ID          string
	ComplaintID string
	UserID      *string
	Action      ActivityAction
	Details     map[string]any
	CreatedAt   time.Time
}
