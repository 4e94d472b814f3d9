package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/storefront/backoffice/internal/domain"
	apperrors "github.com/storefront/backoffice/pkg/util/errorutil"
)

const (
	unauthenticatedMessage = "Unauthorized"
	forbiddenMessage       = "Forbidden: Admins only"
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute, now: time.Now}
}

// WithClock returns a copy of the manager reading time from now.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	clone := *tm
	clone.now = now
	return &clone
}

// Claims describes JWT payload. The customer id travels in the registered
// "sub" claim.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// CustomerID returns the token subject.
func (c *Claims) CustomerID() string {
	return c.Subject
}

// GenerateToken builds and signs a JWT for the customer.
func (tm *TokenManager) GenerateToken(customerID string, role domain.Role) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   customerID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates signature, method and expiry and returns the claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q", claims.Role)
	}
	return claims, nil
}

// Verify returns the claims of a valid token or an UNAUTHORIZED error.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, unauthenticated(errors.New("missing token"))
	}
	claims, err := tm.ParseToken(tokenStr)
	if err != nil {
		return nil, unauthenticated(err)
	}
	return claims, nil
}

// Authorize verifies the token and requires its role to equal required.
func (tm *TokenManager) Authorize(tokenStr string, required domain.Role) (*Claims, error) {
	claims, err := tm.Verify(tokenStr)
	if err != nil {
		return nil, err
	}
	if err := CheckRole(claims.Role, required); err != nil {
		return nil, err
	}
	return claims, nil
}

// CheckRole is an exact-match role comparison.
func CheckRole(actual, required domain.Role) error {
	if actual != required {
		return apperrors.NewForbidden(forbiddenMessage)
	}
	return nil
}

func unauthenticated(cause error) error {
	return &apperrors.DomainError{
		Code:       apperrors.CodeUnauthorized,
		Message:    unauthenticatedMessage,
		HTTPStatus: http.StatusUnauthorized,
		Err:        cause,
	}
}
