package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-console/internal/domain"
	"github.com/spec-kit/complaint-console/internal/repository"
	apperrors "github.com/spec-kit/complaint-console/pkg/util"
)

// UserService covers the admin-only staff management operations.
type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, logger: logger}
}

// UpdateRole changes a staff member's role. Admins cannot demote themselves,
// so the console always keeps at least the acting admin.
func (s *UserService) UpdateRole(ctx context.Context, actor *domain.User, userID string, role domain.UserRole) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}
	if actor != nil && actor.ID == userID && role != domain.RoleAdmin {
		return nil, apperrors.NewConflict("admins cannot demote themselves", nil)
	}
	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.NewPersistenceError("update user role", err)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("user role updated",
		zap.String("user_id", userID),
		zap.String("role", string(role)))
	return user, nil
}
