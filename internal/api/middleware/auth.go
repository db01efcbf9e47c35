package middleware

import (
	"context"
	"net/http"
	"strings"

	apiContext "shortlink/internal/api/context"
	"shortlink/internal/pkg/errors"
	"shortlink/internal/platform/auth"
	"shortlink/internal/platform/models"
	"shortlink/internal/platform/repositories"
)

type AuthMiddleware struct {
	tokenSvc *auth.TokenService
	users    *repositories.UserRepository
}

func NewAuthMiddleware(tokenSvc *auth.TokenService, users *repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, users: users}
}

// Handle rejects the request unless a valid bearer token resolves to a known
// user. Expired, malformed and bad-signature tokens all produce the same
// generic 401.
func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := m.resolveUser(r)
		if !ok {
			errors.WriteUnauthorized(w, "Could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.User, user)
		next(w, r.WithContext(ctx))
	}
}

// HandleOptional resolves the caller's identity when a valid token is
// present; any failure collapses to anonymous instead of an error.
func (m *AuthMiddleware) HandleOptional(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if user, ok := m.resolveUser(r); ok {
			ctx := context.WithValue(r.Context(), apiContext.User, user)
			r = r.WithContext(ctx)
		}
		next(w, r)
	}
}

func (m *AuthMiddleware) resolveUser(r *http.Request) (*models.User, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := m.tokenSvc.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}

	user, err := m.users.GetByUsername(claims.Subject)
	if err != nil || user == nil {
		return nil, false
	}

	return user, true
}

// UserFrom extracts the authenticated user from the request context; nil
// means anonymous.
func UserFrom(r *http.Request) *models.User {
	user, _ := r.Context().Value(apiContext.User).(*models.User)
	return user
}
