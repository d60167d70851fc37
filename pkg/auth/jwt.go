package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgerrors "ripple-backend/pkg/errors"
)

// Claims are the token claims the backend cares about
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// JWTConfig configures token validation
type JWTConfig struct {
	SecretKey string
	Issuer    string
}

// JWTValidator validates bearer credentials and resolves them to a user ID
type JWTValidator struct {
	config JWTConfig
}

// NewJWTValidator creates a validator for HS256-signed tokens
func NewJWTValidator(config JWTConfig) (*JWTValidator, error) {
	if config.SecretKey == "" {
		return nil, fmt.Errorf("jwt secret key is required")
	}
	return &JWTValidator{config: config}, nil
}

// Validate parses and verifies a token string and returns its claims.
// Returns an Unauthorized AppError for every failure mode so callers can
// map it straight to a connection refusal.
func (v *JWTValidator) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.config.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(v.config.SecretKey), nil
	}, parserOpts...)
	if err != nil {
		return nil, pkgerrors.NewUnauthorizedError("invalid authentication token").WithCause(err)
	}
	if !token.Valid {
		return nil, pkgerrors.NewUnauthorizedError("invalid authentication token")
	}
	if claims.UserID == "" {
		// Some issuers put the user ID in the subject claim instead
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, pkgerrors.NewUnauthorizedError("token carries no user identity")
	}
	return claims, nil
}

// IssueToken mints a token for the given user. Credential issuance is
// normally an external concern; this exists for tests and local tooling.
func (v *JWTValidator) IssueToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    v.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(v.config.SecretKey))
}

// ExtractBearerToken pulls a bearer token out of an Authorization header
// value. Returns empty string when the header is absent or malformed.
func ExtractBearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

type contextKey string

const userContextKey contextKey = "auth_user"

// UserContext is the authenticated identity attached to a request context
type UserContext struct {
	UserID string
}

// WithUser attaches the authenticated identity to a context
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the authenticated identity from a context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, pkgerrors.NewUnauthorizedError("no authenticated user in context")
	}
	return user, nil
}
