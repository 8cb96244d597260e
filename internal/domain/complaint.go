package domain

import "time"

// ComplaintStatus enumerates workflow states for complaints.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "Pending"
	StatusUnassigned ComplaintStatus = "Unassigned"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
	StatusClosed     ComplaintStatus = "Closed"
)

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "Low"
	PriorityMedium ComplaintPriority = "Medium"
	PriorityHigh   ComplaintPriority = "High"
	PriorityUrgent ComplaintPriority = "Urgent"
)

// DefaultDueDateOffset is added to the creation time when no explicit due
// date is supplied. Category sla_hours is deliberately not consulted here.
const DefaultDueDateOffset = 72 * time.Hour

// ValidStatus reports whether the value is one of the workflow states.
func ValidStatus(status ComplaintStatus) bool {
	switch status {
	case StatusPending, StatusUnassigned, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether the value is a known priority.
func ValidPriority(priority ComplaintPriority) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// statusTransitions lists the legal next states per current state.
// Repeating the current state is always allowed and is handled in
// CanTransition; Closed complaints may only be reopened to In Progress.
var statusTransitions = map[ComplaintStatus][]ComplaintStatus{
	StatusPending:    {StatusUnassigned, StatusInProgress, StatusResolved, StatusClosed},
	StatusUnassigned: {StatusPending, StatusInProgress, StatusResolved, StatusClosed},
	StatusInProgress: {StatusPending, StatusResolved, StatusClosed},
	StatusResolved:   {StatusInProgress, StatusClosed},
	StatusClosed:     {StatusInProgress},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to ComplaintStatus) bool {
	if from == to {
		return true
	}
	for _, candidate := range statusTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Complaint is the aggregate tracked through the console.
type Complaint struct {
	ID              string
	ComplaintNumber string
	Subject         string
	Description     string
	DesiredOutcome  *string
	CategoryID      string
	Priority        ComplaintPriority
	Status          ComplaintStatus
	ReporterID      string
	AssignedToID    *string
	CustomerName    *string
	CustomerEmail   *string
	CustomerPhone   *string
	DueDate         time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ResolvedAt      *time.Time
	ClosedAt        *time.Time
}

// IsOverdue reports the derived overdue state: past due and not yet
// resolved or closed.
func (c *Complaint) IsOverdue(now time.Time) bool {
	return c.DueDate.Before(now) && c.Status != StatusResolved && c.Status != StatusClosed
}
