package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-console/internal/domain"
	"github.com/spec-kit/complaint-console/internal/repository"
	apperrors "github.com/spec-kit/complaint-console/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
}

// AuthMiddleware validates bearer tokens and loads principals, creating a
// user row with the default role the first time an identity is seen.
type AuthMiddleware struct {
	verifier *IdentityVerifier
	users    repository.UserRepository
	logger   *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(verifier *IdentityVerifier, users repository.UserRepository, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, users: users, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthenticated("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthenticated("invalid authorization header")
	}

	claims, err := m.verifier.Verify(parts[1])
	if err != nil {
		return apperrors.NewUnauthenticated("invalid session token")
	}

	user, err := m.ensureUser(c.Context(), claims)
	if err != nil {
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

// ensureUser loads the acting user, provisioning the row on first login.
func (m *AuthMiddleware) ensureUser(ctx context.Context, claims *Claims) (*domain.User, error) {
	user, err := m.users.GetByID(ctx, claims.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	created := &domain.User{
		ID:    claims.Subject,
		Name:  claims.DisplayName(),
		Email: claims.Email,
		Role:  domain.DefaultRole,
	}
	if err := m.users.Create(ctx, created); err != nil {
		// Another request may have provisioned the row concurrently.
		if existing, getErr := m.users.GetByID(ctx, claims.Subject); getErr == nil {
			return existing, nil
		}
		m.logger.Error("provision user", zap.Error(err), zap.String("user_id", claims.Subject))
		return nil, err
	}
	m.logger.Info("provisioned user on first login",
		zap.String("user_id", created.ID),
		zap.String("role", string(created.Role)))
	return created, nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
