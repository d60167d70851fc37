package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
	"ripple-backend/infrastructure/persistence/memory"
	"ripple-backend/pkg/auth"
	"ripple-backend/pkg/common"
)

func newGatewayFixture(t *testing.T, userIDs ...string) (*Gateway, *auth.JWTValidator) {
	t.Helper()
	logger := zap.NewNop()
	users := memory.NewUserRepository()
	for _, id := range userIDs {
		uid, err := valueobjects.NewUserID(id)
		require.NoError(t, err)
		users.Put(entities.User{ID: uid, Username: id, Name: id, LastActiveAt: time.Now()})
	}

	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "test-secret"})
	require.NoError(t, err)

	hub := NewHub(logger)
	rooms := NewRooms(logger)
	router := NewRouter(hub, rooms, logger)
	opts := testOptions()
	opts.AllowedOrigins = []string{"*"}
	return NewGateway(hub, rooms, router, validator, users, opts, logger), validator
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var response common.APIResponse
	require.NoError(t, json.Unmarshal(body, &response))
	require.NotNil(t, response.Error)
	return response.Error.Message
}

func TestGateway_MissingTokenRejectedBeforeUpgrade(t *testing.T) {
	gateway, _ := newGatewayFixture(t, "alice")

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	gateway.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing authentication token", errorMessage(t, rec.Body.Bytes()))
}

func TestGateway_InvalidTokenRejectedBeforeUpgrade(t *testing.T) {
	gateway, _ := newGatewayFixture(t, "alice")

	req := httptest.NewRequest(http.MethodGet, "/ws?token=garbage", nil)
	rec := httptest.NewRecorder()
	gateway.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid authentication token", errorMessage(t, rec.Body.Bytes()))
}

func TestGateway_ExpiredTokenRejected(t *testing.T) {
	gateway, validator := newGatewayFixture(t, "alice")

	token, err := validator.IssueToken("alice", -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	rec := httptest.NewRecorder()
	gateway.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid authentication token", errorMessage(t, rec.Body.Bytes()))
}

func TestGateway_UnknownSubjectRejected(t *testing.T) {
	gateway, validator := newGatewayFixture(t, "alice")

	token, err := validator.IssueToken("ghost", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	rec := httptest.NewRecorder()
	gateway.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid authentication token", errorMessage(t, rec.Body.Bytes()))
}

func TestGateway_BearerHeaderAccepted(t *testing.T) {
	gateway, validator := newGatewayFixture(t, "alice")

	token, err := validator.IssueToken("alice", time.Minute)
	require.NoError(t, err)

	// A valid credential clears authentication; the handshake itself then
	// fails because the recorder cannot be hijacked, which is fine here.
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	gateway.ServeHTTP(rec, req)

	assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
}
