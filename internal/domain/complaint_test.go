package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from ComplaintStatus
		to   ComplaintStatus
		want bool
	}{
		{"pending to in progress", StatusPending, StatusInProgress, true},
		{"pending to closed", StatusPending, StatusClosed, true},
		{"unassigned to in progress", StatusUnassigned, StatusInProgress, true},
		{"unassigned to pending", StatusUnassigned, StatusPending, true},
		{"in progress to resolved", StatusInProgress, StatusResolved, true},
		{"in progress to unassigned", StatusInProgress, StatusUnassigned, false},
		{"resolved to closed", StatusResolved, StatusClosed, true},
		{"resolved to in progress", StatusResolved, StatusInProgress, true},
		{"resolved to pending", StatusResolved, StatusPending, false},
		{"closed to in progress", StatusClosed, StatusInProgress, true},
		{"closed to resolved", StatusClosed, StatusResolved, false},
		{"closed to pending", StatusClosed, StatusPending, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestCanTransitionSameStatus(t *testing.T) {
	for _, status := range []ComplaintStatus{StatusPending, StatusUnassigned, StatusInProgress, StatusResolved, StatusClosed} {
		assert.True(t, CanTransition(status, status), "repeating %s should be legal", status)
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusInProgress))
	assert.False(t, ValidStatus(ComplaintStatus("Open")))
	assert.False(t, ValidStatus(ComplaintStatus("")))
}

func TestValidPriority(t *testing.T) {
	assert.True(t, ValidPriority(PriorityUrgent))
	assert.False(t, ValidPriority(ComplaintPriority("Critical")))
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name    string
		dueDate time.Time
		status  ComplaintStatus
		want    bool
	}{
		{"past due and open", past, StatusInProgress, true},
		{"past due and unassigned", past, StatusUnassigned, true},
		{"past due but resolved", past, StatusResolved, false},
		{"past due but closed", past, StatusClosed, false},
		{"not yet due", future, StatusInProgress, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Complaint{DueDate: tc.dueDate, Status: tc.status}
			assert.Equal(t, tc.want, c.IsOverdue(now))
		})
	}
}

func TestRoleAssignable(t *testing.T) {
	assert.True(t, RoleAdmin.Assignable())
	assert.True(t, RoleLeadAgent.Assignable())
	assert.True(t, RoleAgent.Assignable())
	assert.False(t, RoleStaff.Assignable())
}
