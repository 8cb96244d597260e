package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-console/internal/api/dto"
	"github.com/spec-kit/complaint-console/internal/service"
)

// DashboardHandler serves the console dashboard widgets.
type DashboardHandler struct {
	queries *service.QueryService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(queries *service.QueryService) *DashboardHandler {
	return &DashboardHandler{queries: queries}
}

// Summary GET /api/dashboard/summary.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.queries.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// RecentActivities GET /api/dashboard/activities.
func (h *DashboardHandler) RecentActivities(c *fiber.Ctx) error {
	limit := parseInt(c.Query("limit"), 3)
	items, err := h.queries.RecentActivities(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": items})
}

// RecentComplaints GET /api/dashboard/recent-complaints.
func (h *DashboardHandler) RecentComplaints(c *fiber.Ctx) error {
	window := parseInt(c.Query("window_minutes"), 60)
	limit := parseInt(c.Query("limit"), 5)
	items, err := h.queries.RecentComplaints(c.UserContext(), window, limit)
	if err != nil {
		return err
	}
	summaries := make([]dto.ComplaintSummary, 0, len(items))
	for i := range items {
		summaries = append(summaries, complaintSummary(&items[i].ComplaintRecord, items[i].Overdue))
	}
	return c.JSON(fiber.Map{"data": summaries})
}
