package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-console/internal/api/dto"
	"github.com/spec-kit/complaint-console/internal/auth"
	"github.com/spec-kit/complaint-console/internal/domain"
	"github.com/spec-kit/complaint-console/internal/service"
	apperrors "github.com/spec-kit/complaint-console/pkg/util"
)

// UsersHandler manages staff listing and admin role changes.
type UsersHandler struct {
	queries *service.QueryService
	users   *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(queries *service.QueryService, users *service.UserService) *UsersHandler {
	return &UsersHandler{queries: queries, users: users}
}

// ListUsers GET /api/users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.queries.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserSummary, 0, len(users))
	for _, user := range users {
		items = append(items, userSummary(user))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateRole PATCH /api/admin/users/:id/role.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthenticated("user required")
	}
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.UpdateRole(c.UserContext(), principal.User, c.Params("id"), domain.UserRole(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userSummary(*user)})
}
