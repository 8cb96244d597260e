package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-console/internal/domain"
	"github.com/spec-kit/complaint-console/internal/feed"
	"github.com/spec-kit/complaint-console/internal/repository"
	apperrors "github.com/spec-kit/complaint-console/pkg/util"
)

// overdueStatusFilter is the virtual status value the list filter accepts
// alongside the real workflow statuses.
const overdueStatusFilter = "Overdue"

// QueryService serves the read side: complaint lists, detail views and the
// dashboard widgets. It never mutates complaint state.
type QueryService struct {
	complaints repository.ComplaintRepository
	comments   repository.CommentRepository
	activities repository.ActivityRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	feed       *feed.ActivityFeed
	logger     *zap.Logger
	now        func() time.Time
}

// QueryDependencies bundles collaborators for the read side.
type QueryDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	CommentRepo   repository.CommentRepository
	ActivityRepo  repository.ActivityRepository
	UserRepo      repository.UserRepository
	CategoryRepo  repository.CategoryRepository
	Feed          *feed.ActivityFeed
	Logger        *zap.Logger
	Now           func() time.Time
}

// NewQueryService constructs the read-side service.
func NewQueryService(deps QueryDependencies) *QueryService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{
		complaints: deps.ComplaintRepo,
		comments:   deps.CommentRepo,
		activities: deps.ActivityRepo,
		users:      deps.UserRepo,
		categories: deps.CategoryRepo,
		feed:       deps.Feed,
		logger:     logger,
		now:        now,
	}
}

// ComplaintListQuery is the console list filter. Status accepts the real
// workflow statuses plus the virtual "Overdue" value.
type ComplaintListQuery struct {
	Search      string
	Status      string
	Priority    string
	CategoryID  string
	Assigned    *bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// ComplaintListItem decorates a record with the derived overdue flag.
type ComplaintListItem struct {
	repository.ComplaintRecord
	Overdue bool
}

// ListComplaints returns filtered complaints, newest first.
func (s *QueryService) ListComplaints(ctx context.Context, query ComplaintListQuery) ([]ComplaintListItem, error) {
	filter := repository.ComplaintFilter{
		Limit:       query.Limit,
		Offset:      query.Offset,
		CreatedFrom: query.CreatedFrom,
		CreatedTo:   query.CreatedTo,
	}
	if query.Search != "" {
		filter.SearchTerm = &query.Search
	}
	switch query.Status {
	case "", "all":
	case overdueStatusFilter:
		filter.Overdue = true
	default:
		status := domain.ComplaintStatus(query.Status)
		if !domain.ValidStatus(status) {
			return nil, apperrors.NewValidationError("unknown status filter", map[string]any{"status": query.Status})
		}
		filter.Statuses = []domain.ComplaintStatus{status}
	}
	if query.Priority != "" && query.Priority != "all" {
		priority := domain.ComplaintPriority(query.Priority)
		if !domain.ValidPriority(priority) {
			return nil, apperrors.NewValidationError("unknown priority filter", map[string]any{"priority": query.Priority})
		}
		filter.Priorities = []domain.ComplaintPriority{priority}
	}
	if query.CategoryID != "" && query.CategoryID != "all" {
		filter.CategoryID = &query.CategoryID
	}
	filter.Assigned = query.Assigned

	records, err := s.complaints.ListRecords(ctx, filter)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list complaints", err)
	}
	now := s.now()
	items := make([]ComplaintListItem, 0, len(records))
	for _, record := range records {
		items = append(items, ComplaintListItem{
			ComplaintRecord: record,
			Overdue:         record.Complaint.IsOverdue(now),
		})
	}
	return items, nil
}

// ComplaintDetail is the full single-complaint view: the joined record, its
// comment thread and its audit trail.
type ComplaintDetail struct {
	Record     repository.ComplaintRecord
	Overdue    bool
	Comments   []repository.CommentRecord
	Activities []repository.ActivityRecord
}

// GetComplaint loads the detail view for one complaint.
func (s *QueryService) GetComplaint(ctx context.Context, id string) (*ComplaintDetail, error) {
	record, err := s.complaints.GetRecord(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	comments, err := s.comments.ListByComplaint(ctx, id)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list comments", err)
	}
	activities, err := s.activities.ListByComplaint(ctx, id)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list activities", err)
	}
	return &ComplaintDetail{
		Record:     *record,
		Overdue:    record.Complaint.IsOverdue(s.now()),
		Comments:   comments,
		Activities: activities,
	}, nil
}

// ListUsers returns all staff accounts ordered by name.
func (s *QueryService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list users", err)
	}
	return users, nil
}

// ListCategories returns all complaint categories.
func (s *QueryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list categories", err)
	}
	return categories, nil
}

// ActivityItem is one entry of the live notification widget.
type ActivityItem struct {
	ComplaintID     string                `json:"complaint_id"`
	ComplaintNumber string                `json:"complaint_number"`
	Subject         string                `json:"subject"`
	Action          domain.ActivityAction `json:"action"`
	Detail          string                `json:"detail"`
	ActorName       *string               `json:"actor_name,omitempty"`
	At              time.Time             `json:"at"`
}

// RecentActivities serves the notification widget. The Redis feed answers
// first; the database is the fallback when the feed is empty or unavailable.
func (s *QueryService) RecentActivities(ctx context.Context, limit int) ([]ActivityItem, error) {
	if limit <= 0 {
		limit = 3
	}
	if s.feed != nil {
		entries, err := s.feed.Recent(ctx, limit)
		if err != nil {
			s.logger.Warn("activity feed unavailable, falling back to database", zap.Error(err))
		} else if len(entries) > 0 {
			items := make([]ActivityItem, 0, len(entries))
			for _, entry := range entries {
				items = append(items, ActivityItem{
					ComplaintID:     entry.ComplaintID,
					ComplaintNumber: entry.ComplaintNumber,
					Subject:         entry.Subject,
					Action:          domain.ActivityAction(entry.Action),
					Detail:          entry.Detail,
					At:              entry.At,
				})
			}
			return items, nil
		}
	}

	records, err := s.activities.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list recent activities", err)
	}
	items := make([]ActivityItem, 0, len(records))
	for _, record := range records {
		items = append(items, ActivityItem{
			ComplaintID:     record.Activity.ComplaintID,
			ComplaintNumber: record.ComplaintNumber,
			Subject:         record.Subject,
			Action:          record.Activity.Action,
			Detail:          describeActivity(record.Activity.Action, record.Activity.Details),
			ActorName:       record.ActorName,
			At:              record.Activity.CreatedAt,
		})
	}
	return items, nil
}

// RecentComplaints returns complaints created inside the given window,
// newest first. Defaults: 60 minutes, 5 rows.
func (s *QueryService) RecentComplaints(ctx context.Context, windowMinutes, limit int) ([]ComplaintListItem, error) {
	if windowMinutes <= 0 {
		windowMinutes = 60
	}
	since := s.now().Add(-time.Duration(windowMinutes) * time.Minute)
	records, err := s.complaints.ListCreatedSince(ctx, since, limit)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list recent complaints", err)
	}
	now := s.now()
	items := make([]ComplaintListItem, 0, len(records))
	for _, record := range records {
		items = append(items, ComplaintListItem{
			ComplaintRecord: record,
			Overdue:         record.Complaint.IsOverdue(now),
		})
	}
	return items, nil
}

// DashboardSummary aggregates the headline counters.
type DashboardSummary struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Unassigned int `json:"unassigned"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
	Overdue    int `json:"overdue"`
}

// Summary computes the dashboard counters from live counts.
func (s *QueryService) Summary(ctx context.Context) (*DashboardSummary, error) {
	counts, err := s.complaints.StatusCounts(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("count complaints", err)
	}
	overdue, err := s.complaints.CountOverdue(ctx, s.now())
	if err != nil {
		return nil, apperrors.NewPersistenceError("count overdue complaints", err)
	}
	summary := &DashboardSummary{
		Pending:    counts[domain.StatusPending],
		Unassigned: counts[domain.StatusUnassigned],
		InProgress: counts[domain.StatusInProgress],
		Resolved:   counts[domain.StatusResolved],
		Closed:     counts[domain.StatusClosed],
		Overdue:    overdue,
	}
	for _, n := range counts {
		summary.Total += n
	}
	return summary, nil
}

func describeActivity(action domain.ActivityAction, details map[string]any) string {
	switch action {
	case domain.ActionStatusChange:
		if to, ok := details["to"].(string); ok {
			return fmt.Sprintf("Status changed to %s", to)
		}
		return "Status changed"
	case domain.ActionAssignmentChange:
		if to, ok := details["to"].(string); ok && to != "" {
			return "Complaint reassigned"
		}
		return "Assignment updated"
	case domain.ActionComment:
		return "New comment added"
	default:
		return string(action)
	}
}
