package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinx/blog-api/internal/auth"
	"github.com/skinx/blog-api/internal/config"
	"github.com/skinx/blog-api/internal/httputil"
)

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewJWTService([]byte("secret"))
	id := uuid.New()

	valid, err := tokens.CreateToken(id, "demo@skinx.dev", time.Hour)
	require.NoError(t, err)
	expired, err := tokens.CreateToken(id, "demo@skinx.dev", -time.Hour)
	require.NoError(t, err)

	var seen auth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})
	handler := auth.NewMiddleware(tokens).RequireAuth(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
		wantCode   string
	}{
		{"no header", "", http.StatusUnauthorized, "Missing or invalid authorization header", httputil.CodeInvalidAuthHeader},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Missing or invalid authorization header", httputil.CodeInvalidAuthHeader},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "Missing or invalid authorization header", httputil.CodeInvalidAuthHeader},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, "Invalid token", httputil.CodeInvalidToken},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, "Token expired", httputil.CodeTokenExpired},
		{"valid token", "Bearer " + valid, http.StatusTeapot, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = auth.Identity{}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError == "" {
				assert.Equal(t, id, seen.UserID)
				assert.Equal(t, "demo@skinx.dev", seen.Email)
				return
			}

			var resp httputil.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantError, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, uuid.Nil, seen.UserID, "next must not run")
		})
	}
}

func TestRequireAuth_MissingSecret(t *testing.T) {
	tokens, err := auth.NewTokenService(config.AuthConfig{TokenFormat: "jwt"})
	require.NoError(t, err)

	handler := auth.NewMiddleware(tokens).RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer something")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Server configuration error", resp.Error)
}
