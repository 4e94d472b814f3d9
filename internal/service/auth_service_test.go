package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backoffice/internal/config"
	"github.com/storefront/backoffice/internal/domain"
	"github.com/storefront/backoffice/internal/events"
	apperrors "github.com/storefront/backoffice/pkg/util/errorutil"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer, err := env.auth.Register(ctx, "  Jane  ", "jane@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", customer.Name)
	assert.Equal(t, domain.RoleCustomer, customer.Role)
	assert.NotEqual(t, "secret1", customer.PasswordHash)
	assert.Equal(t, []events.EventType{events.EventCustomerRegistered}, env.recorder.types())

	_, err = env.auth.Register(ctx, "Jane Again", "jane@example.com", "secret2")
	requireDomainError(t, err, apperrors.CodeEmailAlreadyRegistered, http.StatusBadRequest)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "   ", "x@example.com", "secret1")
	requireDomainError(t, err, apperrors.CodeValidationFailed, http.StatusBadRequest)

	_, err = env.auth.Register(ctx, "Short", "short@example.com", "12345")
	requireDomainError(t, err, apperrors.CodeValidationFailed, http.StatusBadRequest)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer, err := env.auth.Register(ctx, "Jane", "jane@example.com", "secret1")
	require.NoError(t, err)

	token, exp, err := env.auth.Login(ctx, "jane@example.com", "secret1")
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	claims, err := env.auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, claims.CustomerID())
	assert.Equal(t, domain.RoleCustomer, claims.Role)

	_, _, wrongPassword := env.auth.Login(ctx, "jane@example.com", "nope-nope")
	_, _, unknownEmail := env.auth.Login(ctx, "ghost@example.com", "secret1")
	wrong := requireDomainError(t, wrongPassword, apperrors.CodeInvalidCredentials, http.StatusUnauthorized)
	unknown := requireDomainError(t, unknownEmail, apperrors.CodeInvalidCredentials, http.StatusUnauthorized)
	assert.Equal(t, wrong.Message, unknown.Message)
}

func TestCreateAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin, created, err := env.auth.CreateAdmin(ctx, "Root", "root@example.com", "rootpass")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	existing, err := env.auth.Register(ctx, "Jane", "jane@example.com", "secret1")
	require.NoError(t, err)
	promoted, created, err := env.auth.CreateAdmin(ctx, "ignored", "jane@example.com", "ignored-pass")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, promoted.ID)

	// promotion keeps the original password
	token, _, err := env.auth.Login(ctx, "jane@example.com", "secret1")
	require.NoError(t, err)
	_, err = env.auth.Authorize(token, domain.RoleAdmin)
	assert.NoError(t, err)
}

func TestSeedAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin, created, err := env.auth.SeedAdmin(ctx, config.AdminSeedConfig{})
	require.NoError(t, err)
	assert.Nil(t, admin)
	assert.False(t, created)

	seed := config.AdminSeedConfig{Name: "Dev Admin", Email: "dev-admin@example.com", Password: "devpass"}
	admin, created, err = env.auth.SeedAdmin(ctx, seed)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	// restarting with the same seed keeps the account
	again, created, err := env.auth.SeedAdmin(ctx, seed)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)

	token, _, err := env.auth.Login(ctx, seed.Email, seed.Password)
	require.NoError(t, err)
	_, err = env.auth.Authorize(token, domain.RoleAdmin)
	assert.NoError(t, err)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	assert.NoError(t, env.auth.Logout(context.Background()))
}
