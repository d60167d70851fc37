package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ripple-backend/pkg/auth"
)

func newAuthedRequest(t *testing.T, validator *auth.JWTValidator, userID string) *http.Request {
	t.Helper()
	token, err := validator.IssueToken(userID, time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthenticate_ResolvesIdentity(t *testing.T) {
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "test-secret"})
	require.NoError(t, err)

	var seenUser string
	handler := Authenticate(validator, auth.NewIPRateLimiter(100), auth.NewUserRateLimiter(100), zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userCtx, err := auth.GetUserFromContext(r.Context())
			require.NoError(t, err)
			seenUser = userCtx.UserID
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newAuthedRequest(t, validator, "alice"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", seenUser)
}

func TestAuthenticate_MissingAndInvalidToken(t *testing.T) {
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "test-secret"})
	require.NoError(t, err)

	handler := Authenticate(validator, auth.NewIPRateLimiter(100), auth.NewUserRateLimiter(100), zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_PerUserLimitApplied(t *testing.T) {
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "test-secret"})
	require.NoError(t, err)

	handler := Authenticate(validator, auth.NewIPRateLimiter(100), auth.NewUserRateLimiter(1), zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newAuthedRequest(t, validator, "alice"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, newAuthedRequest(t, validator, "alice"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// The user limit is per identity: another user on the same IP is
	// unaffected.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, newAuthedRequest(t, validator, "bob"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_PerIPLimitAppliedBeforeCredential(t *testing.T) {
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "test-secret"})
	require.NoError(t, err)

	handler := Authenticate(validator, auth.NewIPRateLimiter(1), auth.NewUserRateLimiter(100), zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	// First request consumes the IP budget; the second is throttled even
	// without any credential attached.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newAuthedRequest(t, validator, "alice"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
