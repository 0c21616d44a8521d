package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/skinx/blog-api/internal/httputil"
	"github.com/skinx/blog-api/internal/logging"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const IdentityContextKey ContextKey = "identity"

// Identity is the authenticated caller attached to a request
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
}

func NewMiddleware(tokenService TokenService) *Middleware {
	return &Middleware{tokenService: tokenService}
}

// RequireAuth validates the bearer token and stores the caller's Identity in
// the request context. Requests without a usable token never reach next.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			httputil.RespondErrorWithCode(w, r, "Missing or invalid authorization header", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
			return
		}

		claims, err := m.tokenService.VerifyToken(token)
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingSecret):
				httputil.RespondMisconfigured(w, r, err)
			case errors.Is(err, ErrExpiredToken):
				httputil.RespondErrorWithCode(w, r, "Token expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
			default:
				httputil.RespondErrorWithCode(w, r, "Invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			}
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			httputil.RespondErrorWithCode(w, r, "Invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		ctx := WithIdentity(r.Context(), Identity{UserID: userID, Email: claims.Email})
		ctx = logging.WithLogger(ctx, logging.GetLoggerFromContext(ctx).WithFields(map[string]any{
			"user_id": userID,
		}))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithIdentity stores the caller in ctx
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, id)
}

// IdentityFromContext extracts the caller placed by RequireAuth
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityContextKey).(Identity)
	return id, ok
}
