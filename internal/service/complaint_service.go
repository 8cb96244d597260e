package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-console/internal/domain"
	"github.com/spec-kit/complaint-console/internal/events"
	"github.com/spec-kit/complaint-console/internal/repository"
	apperrors "github.com/spec-kit/complaint-console/pkg/util"
)

// ComplaintService is the single mutation surface for complaints. Every
// mutation writes the primary row, appends a best-effort audit activity and
// publishes an event that may fan out to notifications. Primary failures
// abort; secondary failures are logged and swallowed.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	comments   repository.CommentRepository
	activities repository.ActivityRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// ComplaintDependencies bundles collaborators for the service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	CategoryRepo  repository.CategoryRepository
	UserRepo      repository.UserRepository
	CommentRepo   repository.CommentRepository
	ActivityRepo  repository.ActivityRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	Now           func() time.Time
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		categories: deps.CategoryRepo,
		users:      deps.UserRepo,
		comments:   deps.CommentRepo,
		activities: deps.ActivityRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        now,
	}
}

// CreateComplaintInput describes the creation payload.
type CreateComplaintInput struct {
	Subject        string
	Description    string
	Category       string
	CategoryOther  *string
	DesiredOutcome *string
	Priority       domain.ComplaintPriority
	Branch         *string
	Phone          *string
	Email          *string
	DueDate        *time.Time
}

// Create registers a new complaint for the acting user.
func (s *ComplaintService) Create(ctx context.Context, actor *domain.User, input CreateComplaintInput) (*domain.Complaint, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("you must be logged in to create a complaint")
	}
	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	if subject == "" || description == "" {
		return nil, apperrors.NewValidationError("subject and description are required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	category, err := s.resolveCategory(ctx, input.Category, input.CategoryOther)
	if err != nil {
		return nil, err
	}

	createdAt := s.now()
	dueDate := createdAt.Add(domain.DefaultDueDateOffset)
	if input.DueDate != nil {
		dueDate = *input.DueDate
	}

	complaint := &domain.Complaint{
		ComplaintNumber: generateComplaintNumber(),
		Subject:         subject,
		Description:     description,
		DesiredOutcome:  input.DesiredOutcome,
		CategoryID:      category.ID,
		Priority:        priority,
		Status:          domain.StatusUnassigned,
		ReporterID:      actor.ID,
		AssignedToID:    nil,
		CustomerName:    input.Branch,
		CustomerEmail:   input.Email,
		CustomerPhone:   input.Phone,
		DueDate:         dueDate,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.NewPersistenceError("create complaint", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		ActorID:     &actor.ID,
		Payload: events.ComplaintCreatedPayload{
			ComplaintNumber: complaint.ComplaintNumber,
			Subject:         complaint.Subject,
			Description:     complaint.Description,
			CategoryName:    category.Name,
			Priority:        complaint.Priority,
			ReporterEmail:   actor.Email,
			CreatedAt:       complaint.CreatedAt,
		},
	})
	return complaint, nil
}

// ChangeStatus moves a complaint through the workflow, enforcing the
// transition table. Repeating the current status is a legal no-op that
// still appends an activity row.
func (s *ComplaintService) ChangeStatus(ctx context.Context, actor *domain.User, complaintID string, newStatus domain.ComplaintStatus) (*domain.Complaint, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	if !domain.CanTransition(oldStatus, newStatus) {
		return nil, apperrors.NewIllegalTransition(string(oldStatus), string(newStatus))
	}

	if newStatus != oldStatus {
		now := s.now()
		switch newStatus {
		case domain.StatusResolved:
			complaint.ResolvedAt = &now
			complaint.ClosedAt = nil
		case domain.StatusClosed:
			complaint.ClosedAt = &now
		default:
			complaint.ResolvedAt = nil
			complaint.ClosedAt = nil
		}
	}
	complaint.Status = newStatus
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.NewPersistenceError("update status", err)
	}

	s.recordActivity(ctx, actor, complaint.ID, domain.ActionStatusChange, map[string]any{
		"from": oldStatus,
		"to":   newStatus,
	})
	s.publishEvent(ctx, events.Event{
		Type:        events.EventStatusChanged,
		ComplaintID: complaint.ID,
		ActorID:     actorID(actor),
		Payload: events.StatusChangedPayload{
			ComplaintNumber: complaint.ComplaintNumber,
			Subject:         complaint.Subject,
			OldStatus:       oldStatus,
			NewStatus:       newStatus,
			ChangedAt:       s.now(),
		},
	})
	return complaint, nil
}

// ChangeAssignee reassigns a complaint. A nil assignee unassigns it.
func (s *ComplaintService) ChangeAssignee(ctx context.Context, actor *domain.User, complaintID string, assigneeID *string) (*repository.ComplaintRecord, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	var assignee *domain.User
	if assigneeID != nil {
		assignee, err = s.users.GetByID(ctx, *assigneeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("assignee", map[string]any{"user_id": *assigneeID})
			}
			return nil, apperrors.MapError(err)
		}
		if !assignee.Role.Assignable() {
			return nil, apperrors.NewValidationError("user role cannot own complaints",
				map[string]any{"user_id": assignee.ID, "role": assignee.Role})
		}
	}

	previous := complaint.AssignedToID
	changed := !stringPtrEqual(previous, assigneeID)

	complaint.AssignedToID = assigneeID
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.NewPersistenceError("update assignee", err)
	}

	s.recordActivity(ctx, actor, complaint.ID, domain.ActionAssignmentChange, map[string]any{
		"from": previous,
		"to":   assigneeID,
	})

	record, err := s.complaints.GetRecord(ctx, complaint.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	payload := events.AssigneeChangedPayload{
		ComplaintNumber: complaint.ComplaintNumber,
		Subject:         complaint.Subject,
		Description:     complaint.Description,
		Priority:        complaint.Priority,
		DueDate:         complaint.DueDate,
		ReporterName:    record.Reporter.Name,
		OldAssigneeID:   previous,
		AssigneeID:      assigneeID,
		Changed:         changed,
	}
	if assignee != nil {
		payload.AssigneeName = assignee.Name
		payload.AssigneeEmail = assignee.Email
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventAssigneeChanged,
		ComplaintID: complaint.ID,
		ActorID:     actorID(actor),
		Payload:     payload,
	})
	return record, nil
}

// AddComment appends a comment to the complaint thread.
func (s *ComplaintService) AddComment(ctx context.Context, actor *domain.User, complaintID, message string, isInternal bool) (*domain.Comment, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("you must be logged in to add a comment")
	}
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.NewValidationError("comment message is required", nil)
	}
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ComplaintID: complaint.ID,
		UserID:      actor.ID,
		Content:     message,
		IsInternal:  isInternal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.NewPersistenceError("create comment", err)
	}

	commentType := "public"
	if isInternal {
		commentType = "internal"
	}
	s.recordActivity(ctx, actor, complaint.ID, domain.ActionComment, map[string]any{
		"type": commentType,
	})
	s.publishEvent(ctx, events.Event{
		Type:        events.EventCommentAdded,
		ComplaintID: complaint.ID,
		ActorID:     &actor.ID,
		Payload: events.CommentAddedPayload{
			CommentID:       comment.ID,
			ComplaintNumber: complaint.ComplaintNumber,
			Subject:         complaint.Subject,
			AuthorEmail:     actor.Email,
			Body:            comment.Content,
			IsInternal:      isInternal,
		},
	})
	return comment, nil
}

func (s *ComplaintService) getComplaint(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

// resolveCategory maps the form selector to a category row: fixed seeded
// ids first, then lookup-or-create by label.
func (s *ComplaintService) resolveCategory(ctx context.Context, selector string, other *string) (*domain.Category, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, apperrors.NewValidationError("category is required", nil)
	}

	if id, ok := domain.SeededCategoryIDs[selector]; ok {
		category, err := s.categories.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewConflict("seeded category missing; run the seeder",
					map[string]any{"category_id": id})
			}
			return nil, apperrors.MapError(err)
		}
		return category, nil
	}

	label := selector
	if known, ok := domain.CategoryLabels[selector]; ok {
		label = known
	} else if selector == "other" {
		label = "Other"
		if other != nil && strings.TrimSpace(*other) != "" {
			label = strings.TrimSpace(*other)
		}
	}

	existing, err := s.categories.GetByName(ctx, label)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	created := &domain.Category{
		Name:     label,
		SLAHours: domain.CreatedCategorySLAHours,
	}
	if err := s.categories.Create(ctx, created); err != nil {
		return nil, apperrors.NewPersistenceError("create category", err)
	}
	return created, nil
}

// recordActivity appends an audit row. Failures are logged, never surfaced.
func (s *ComplaintService) recordActivity(ctx context.Context, actor *domain.User, complaintID string, action domain.ActivityAction, details map[string]any) {
	activity := &domain.Activity{
		ComplaintID: complaintID,
		UserID:      actorID(actor),
		Action:      action,
		Details:     details,
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		s.logger.Error("failed to log activity",
			zap.Error(err),
			zap.String("complaint_id", complaintID),
			zap.String("action", string(action)))
	}
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateComplaintNumber() string {
	return "CMP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func actorID(actor *domain.User) *string {
	if actor == nil {
		return nil
	}
	return &actor.ID
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
