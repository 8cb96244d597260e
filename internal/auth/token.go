package auth

import (
	"errors"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
)

// IdentityVerifier validates session tokens issued by the external identity
// provider. The console never issues tokens itself.
type IdentityVerifier struct {
	secret []byte
	issuer string
}

// NewIdentityVerifier builds a verifier for the provider's signing secret.
func NewIdentityVerifier(secret, issuer string) *IdentityVerifier {
	return &IdentityVerifier{secret: []byte(secret), issuer: issuer}
}

// Claims describes the provider's JWT payload.
type Claims struct {
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	jwt.RegisteredClaims
}

// Verify validates the token and returns its claims.
func (v *IdentityVerifier) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, errors.New("token missing subject or email")
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, errors.New("unexpected issuer")
	}
	return claims, nil
}

// DisplayName derives a name for first-login provisioning: the full_name
// claim when present, else the local part of the email.
func (c *Claims) DisplayName() string {
	if c.FullName != "" {
		return c.FullName
	}
	if idx := strings.Index(c.Email, "@"); idx > 0 {
		return c.Email[:idx]
	}
	return "User"
}
