package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-console/internal/api/dto"
	"github.com/spec-kit/complaint-console/internal/auth"
	"github.com/spec-kit/complaint-console/internal/domain"
	"github.com/spec-kit/complaint-console/internal/repository"
	"github.com/spec-kit/complaint-console/internal/service"
	apperrors "github.com/spec-kit/complaint-console/pkg/util"
)

// ComplaintsHandler manages the complaint endpoints.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
	queries    *service.QueryService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaints *service.ComplaintService, queries *service.QueryService) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaints, queries: queries}
}

// CreateComplaint POST /api/complaints.
func (h *ComplaintsHandler) CreateComplaint(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthenticated("user required")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.complaints.Create(c.UserContext(), principal.User, service.CreateComplaintInput{
		Subject:        req.Subject,
		Description:    req.Description,
		Category:       req.Category,
		CategoryOther:  req.CategoryOther,
		DesiredOutcome: req.DesiredOutcome,
		Priority:       req.Priority,
		Branch:         req.Branch,
		Phone:          req.Phone,
		Email:          req.Email,
		DueDate:        req.DueDate,
	})
	if err != nil {
		return err
	}
	detail, err := h.queries.GetComplaint(c.UserContext(), complaint.ID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": complaintDetail(detail)})
}

// ListComplaints GET /api/complaints.
func (h *ComplaintsHandler) ListComplaints(c *fiber.Ctx) error {
	query := parseComplaintListQuery(c)
	items, err := h.queries.ListComplaints(c.UserContext(), query)
	if err != nil {
		return err
	}
	summaries := make([]dto.ComplaintSummary, 0, len(items))
	for i := range items {
		summaries = append(summaries, complaintSummary(&items[i].ComplaintRecord, items[i].Overdue))
	}
	return c.JSON(fiber.Map{"data": summaries})
}

// GetComplaint GET /api/complaints/:id.
func (h *ComplaintsHandler) GetComplaint(c *fiber.Ctx) error {
	detail, err := h.queries.GetComplaint(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintDetail(detail)})
}

// UpdateStatus PATCH /api/complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthenticated("user required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.complaints.ChangeStatus(c.UserContext(), principal.User, c.Params("id"), domain.ComplaintStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"id":          complaint.ID,
		"status":      complaint.Status,
		"resolved_at": complaint.ResolvedAt,
		"closed_at":   complaint.ClosedAt,
	}})
}

// UpdateAssignee PATCH /api/complaints/:id/assignee.
func (h *ComplaintsHandler) UpdateAssignee(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthenticated("user required")
	}
	var req dto.UpdateAssigneeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.complaints.ChangeAssignee(c.UserContext(), principal.User, c.Params("id"), req.AssigneeID)
	if err != nil {
		return err
	}
	overdue := record.Complaint.IsOverdue(time.Now())
	return c.JSON(fiber.Map{"data": complaintSummary(record, overdue)})
}

// AddComment POST /api/complaints/:id/comments.
func (h *ComplaintsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthenticated("user required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.complaints.AddComment(c.UserContext(), principal.User, c.Params("id"), req.Message, req.IsInternal)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CommentResponse{
		ID:         comment.ID,
		Author:     userSummary(*principal.User),
		Message:    comment.Content,
		IsInternal: comment.IsInternal,
		CreatedAt:  comment.CreatedAt,
	}})
}

func parseComplaintListQuery(c *fiber.Ctx) service.ComplaintListQuery {
	query := service.ComplaintListQuery{
		Search:     strings.TrimSpace(c.Query("search")),
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		CategoryID: c.Query("category_id"),
	}
	if assigned := c.Query("assigned"); assigned != "" {
		val := assigned == "true"
		query.Assigned = &val
	}
	if from := parseTime(c.Query("created_from")); from != nil {
		query.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		query.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	query.Offset = (page - 1) * pageSize
	query.Limit = pageSize
	return query
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func userSummary(user domain.User) dto.UserSummary {
	return dto.UserSummary{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

func categorySummary(category domain.Category) dto.CategorySummary {
	return dto.CategorySummary{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		SLAHours:    category.SLAHours,
		CreatedAt:   category.CreatedAt,
	}
}

func complaintSummary(record *repository.ComplaintRecord, overdue bool) dto.ComplaintSummary {
	summary := dto.ComplaintSummary{
		ID:              record.Complaint.ID,
		ComplaintNumber: record.Complaint.ComplaintNumber,
		Subject:         record.Complaint.Subject,
		Category:        categorySummary(record.Category),
		Priority:        record.Complaint.Priority,
		Status:          record.Complaint.Status,
		Overdue:         overdue,
		Reporter:        userSummary(record.Reporter),
		DueDate:         record.Complaint.DueDate,
		CreatedAt:       record.Complaint.CreatedAt,
		UpdatedAt:       record.Complaint.UpdatedAt,
	}
	if record.Assignee != nil {
		assignee := userSummary(*record.Assignee)
		summary.Assignee = &assignee
	}
	return summary
}

func complaintDetail(detail *service.ComplaintDetail) dto.ComplaintDetailResponse {
	comments := make([]dto.CommentResponse, 0, len(detail.Comments))
	for _, comment := range detail.Comments {
		comments = append(comments, dto.CommentResponse{
			ID:         comment.Comment.ID,
			Author:     userSummary(comment.Author),
			Message:    comment.Comment.Content,
			IsInternal: comment.Comment.IsInternal,
			CreatedAt:  comment.Comment.CreatedAt,
		})
	}
	activities := make([]dto.ActivityResponse, 0, len(detail.Activities))
	for _, activity := range detail.Activities {
		activities = append(activities, dto.ActivityResponse{
			ID:        activity.Activity.ID,
			Action:    activity.Activity.Action,
			ActorName: activity.ActorName,
			Details:   activity.Activity.Details,
			CreatedAt: activity.Activity.CreatedAt,
		})
	}
	return dto.ComplaintDetailResponse{
		ComplaintSummary: complaintSummary(&detail.Record, detail.Overdue),
		Description:      detail.Record.Complaint.Description,
		DesiredOutcome:   detail.Record.Complaint.DesiredOutcome,
		CustomerName:     detail.Record.Complaint.CustomerName,
		CustomerEmail:    detail.Record.Complaint.CustomerEmail,
		CustomerPhone:    detail.Record.Complaint.CustomerPhone,
		ResolvedAt:       detail.Record.Complaint.ResolvedAt,
		ClosedAt:         detail.Record.Complaint.ClosedAt,
		Comments:         comments,
		Activities:       activities,
	}
}
