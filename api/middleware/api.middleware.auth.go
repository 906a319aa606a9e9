package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agrisense/farmwatch/internal/errors"
)

// AuthConfig carries bearer token verification settings. Token issuance
// lives outside this service; the middleware only verifies and extracts
// the authenticated principal.
type AuthConfig struct {
	JWTSecret string
}

type AuthMiddleware struct {
	secret []byte
}

// UserContext is the authenticated principal injected into the request
// context. Farm memberships are resolved per request from the directory,
// never trusted from the token.
type UserContext struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type userClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type contextKey string

const userContextKey contextKey = "user"

func NewAuthMiddleware(config AuthConfig) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(config.JWTSecret)}
}

// Authenticate validates the bearer token and adds user info to context
func (a *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			handleError(w, errors.NewAuthError("no token provided", nil))
			return
		}

		claims := &userClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.NewAuthError("unexpected signing method", nil)
			}
			return a.secret, nil
		})
		if err != nil || !parsed.Valid || claims.Subject == "" {
			handleError(w, errors.NewAuthError("invalid or expired token", err))
			return
		}

		user := &UserContext{
			ID:       claims.Subject,
			Username: claims.Username,
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated principal, if any.
func UserFromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

func extractToken(r *http.Request) string {
	bearerToken := r.Header.Get("Authorization")
	parts := strings.Split(bearerToken, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func handleError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*errors.APIError)
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Code)
	json.NewEncoder(w).Encode(apiErr)
}
