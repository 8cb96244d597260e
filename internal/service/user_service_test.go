package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-console/internal/domain"
	apperrors "github.com/spec-kit/complaint-console/pkg/util"
)

func TestUpdateRole(t *testing.T) {
	store := newMemStore(testNow)
	admin := store.addUser(domain.User{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin})
	agent := store.addUser(domain.User{Name: "Agent", Email: "agent@example.com", Role: domain.RoleAgent})
	svc := NewUserService(&fakeUserRepo{s: store}, nil)

	user, err := svc.UpdateRole(context.Background(), &admin, agent.ID, domain.RoleLeadAgent)

	require.NoError(t, err)
	assert.Equal(t, domain.RoleLeadAgent, user.Role)
	assert.Equal(t, domain.RoleLeadAgent, store.users[agent.ID].Role)
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	store := newMemStore(testNow)
	admin := store.addUser(domain.User{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin})
	svc := NewUserService(&fakeUserRepo{s: store}, nil)

	_, err := svc.UpdateRole(context.Background(), &admin, admin.ID, domain.UserRole("Supervisor"))

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestUpdateRoleRejectsSelfDemotion(t *testing.T) {
	store := newMemStore(testNow)
	admin := store.addUser(domain.User{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin})
	svc := NewUserService(&fakeUserRepo{s: store}, nil)

	_, err := svc.UpdateRole(context.Background(), &admin, admin.ID, domain.RoleAgent)

	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestUpdateRoleUnknownUser(t *testing.T) {
	store := newMemStore(testNow)
	admin := store.addUser(domain.User{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin})
	svc := NewUserService(&fakeUserRepo{s: store}, nil)

	_, err := svc.UpdateRole(context.Background(), &admin, "missing", domain.RoleAgent)

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
