package dto

import (
	"time"

	"github.com/spec-kit/complaint-console/internal/domain"
)

// UserSummary response.
type UserSummary struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      domain.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

// UpdateRoleRequest payload.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}
