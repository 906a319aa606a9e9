// FilePath: api/middleware/api.middleware.auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func runAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, *UserContext) {
	t.Helper()
	auth := NewAuthMiddleware(AuthConfig{JWTSecret: testSecret})

	var captured *UserContext
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/readings/latest", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, captured
}

func TestAuthenticateValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":      "user1",
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	rec, user := runAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, user)
	assert.Equal(t, "user1", user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestAuthenticateMissingToken(t *testing.T) {
	rec, user := runAuth(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}

func TestAuthenticateWrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "user1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	rec, user := runAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	rec, user := runAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}

func TestAuthenticateMissingSubject(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	rec, user := runAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	rec, _ := runAuth(t, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
