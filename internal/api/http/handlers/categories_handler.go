package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-console/internal/api/dto"
	"github.com/spec-kit/complaint-console/internal/service"
)

// CategoriesHandler serves the complaint category list.
type CategoriesHandler struct {
	queries *service.QueryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(queries *service.QueryService) *CategoriesHandler {
	return &CategoriesHandler{queries: queries}
}

// ListCategories GET /api/categories.
func (h *CategoriesHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.queries.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CategorySummary, 0, len(categories))
	for _, category := range categories {
		items = append(items, categorySummary(category))
	}
	return c.JSON(fiber.Map{"data": items})
}
