package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backoffice/internal/auth"
	"github.com/storefront/backoffice/internal/config"
	"github.com/storefront/backoffice/internal/domain"
	"github.com/storefront/backoffice/internal/events"
	"github.com/storefront/backoffice/internal/repository"
	apperrors "github.com/storefront/backoffice/pkg/util/errorutil"
)

// AuthService coordinates registration, login and token checks.
type AuthService struct {
	customers  repository.CustomerRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
	// dummyHash is compared against on unknown emails so that login takes
	// the same time whether or not the account exists.
	dummyHash string
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	CustomerRepo repository.CustomerRepository
	Dispatcher   events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) (*AuthService, error) {
	dummy, err := auth.HashPassword(uuid.NewString(), cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		customers:  deps.CustomerRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
		dummyHash:  dummy,
	}, nil
}

// Register creates a customer account with the default role.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Customer, error) {
	customer, err := s.createCustomer(ctx, name, email, password, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventCustomerRegistered,
		EntityID: customer.ID,
		Actor:    events.Actor{CustomerID: customer.ID, Role: customer.Role},
		Payload:  events.CustomerRegisteredPayload{Email: customer.Email},
	})
	return customer, nil
}

// CreateAdmin creates an admin account, or promotes the account that already
// owns email. The boolean reports whether a new account was created.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*domain.Customer, bool, error) {
	existing, err := s.customers.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.customers.UpdateRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
			return nil, false, apperrors.NewInternalError(err)
		}
		existing.Role = domain.RoleAdmin
		return existing, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, apperrors.NewInternalError(err)
	}

	customer, err := s.createCustomer(ctx, name, email, password, domain.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	return customer, true, nil
}

// SeedAdmin ensures the configured seed admin exists. It is a no-op when no
// seed email is configured.
func (s *AuthService) SeedAdmin(ctx context.Context, seed config.AdminSeedConfig) (*domain.Customer, bool, error) {
	if seed.Email == "" {
		return nil, false, nil
	}
	return s.CreateAdmin(ctx, seed.Name, seed.Email, seed.Password)
}

func (s *AuthService) createCustomer(ctx context.Context, name, email, password string, role domain.Role) (*domain.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" || email == "" || password == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}

	if _, err := s.customers.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewEmailAlreadyRegistered()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrPasswordTooShort):
			return nil, apperrors.NewValidationError("password must be at least 6 characters", map[string]any{"password": "min"})
		case errors.Is(err, auth.ErrPasswordTooLong):
			return nil, apperrors.NewValidationError("password must be at most 72 bytes", map[string]any{"password": "max"})
		}
		return nil, apperrors.NewInternalError(err)
	}

	customer := &domain.Customer{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperrors.NewEmailAlreadyRegistered()
		}
		return nil, apperrors.NewInternalError(err)
	}
	return customer, nil
}

// Login authenticates a customer. Unknown email and wrong password fail
// with the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	customer, err := s.customers.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return "", time.Time{}, apperrors.NewInternalError(err)
		}
		_ = auth.ComparePassword(s.dummyHash, password)
		return "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	if err := auth.ComparePassword(customer.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			return "", time.Time{}, apperrors.NewInternalError(err)
		}
		return "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	return s.IssueToken(customer.ID, customer.Role)
}

// Logout is a no-op: tokens are stateless and expire on their own.
func (s *AuthService) Logout(_ context.Context) error {
	return nil
}

// IssueToken signs a token for the identity and role.
func (s *AuthService) IssueToken(customerID string, role domain.Role) (string, time.Time, error) {
	token, exp, err := s.tokenMgr.GenerateToken(customerID, role)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, exp, nil
}

// Verify validates a token and returns its claims.
func (s *AuthService) Verify(token string) (*auth.Claims, error) {
	return s.tokenMgr.Verify(token)
}

// Authorize validates a token and requires an exact role match.
func (s *AuthService) Authorize(token string, required domain.Role) (*auth.Claims, error) {
	return s.tokenMgr.Authorize(token, required)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
