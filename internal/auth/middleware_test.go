package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-console/internal/domain"
	apperrors "github.com/spec-kit/complaint-console/pkg/util"
)

type stubUserRepo struct {
	users   map[string]domain.User
	creates int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.creates++
	r.users[user.ID] = *user
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id string, role domain.UserRole) error {
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Role = role
	r.users[id] = user
	return nil
}

func newAuthTestApp(t *testing.T, repo *stubUserRepo) *fiber.App {
	t.Helper()
	verifier := NewIdentityVerifier("secret", "")
	middleware := NewAuthMiddleware(verifier, repo, zap.NewNop())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": domainErr.Code})
		},
	})
	app.Get("/me", middleware.Handle, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"id": principal.User.ID, "role": principal.User.Role})
	})
	return app
}

func authedRequest(t *testing.T, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	app := newAuthTestApp(t, newStubUserRepo())

	resp, err := app.Test(authedRequest(t, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareRejectsGarbageToken(t *testing.T) {
	app := newAuthTestApp(t, newStubUserRepo())

	resp, err := app.Test(authedRequest(t, "not-a-jwt"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareProvisionsUserOnFirstLogin(t *testing.T) {
	repo := newStubUserRepo()
	app := newAuthTestApp(t, repo)
	token := signToken(t, "secret", baseClaims())

	resp, err := app.Test(authedRequest(t, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	user, ok := repo.users["user-123"]
	require.True(t, ok)
	assert.Equal(t, "Sara Haddad", user.Name)
	assert.Equal(t, "sara@example.com", user.Email)
	assert.Equal(t, domain.DefaultRole, user.Role)

	// a second request reuses the provisioned row
	resp, err = app.Test(authedRequest(t, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, repo.creates)
}

func TestMiddlewareKeepsExistingRole(t *testing.T) {
	repo := newStubUserRepo()
	repo.users["user-123"] = domain.User{
		ID:    "user-123",
		Name:  "Sara Haddad",
		Email: "sara@example.com",
		Role:  domain.RoleAdmin,
	}
	app := newAuthTestApp(t, repo)

	resp, err := app.Test(authedRequest(t, signToken(t, "secret", baseClaims())))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, repo.creates)
	assert.Equal(t, domain.RoleAdmin, repo.users["user-123"].Role)
}
