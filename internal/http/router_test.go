package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/skinx/blog-api/internal/auth"
	"github.com/skinx/blog-api/internal/config"
	"github.com/skinx/blog-api/internal/health"
	"github.com/skinx/blog-api/internal/httputil"
	"github.com/skinx/blog-api/internal/logging"
	"github.com/skinx/blog-api/internal/post"
	"github.com/skinx/blog-api/internal/testutil"
	"github.com/skinx/blog-api/internal/validation"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{Server: config.ServerConfig{
		Env:                "test",
		FrontendURL:        "http://localhost:3000",
		MaxRequestBodySize: 1 << 20,
	}}
	logger := logging.Discard()
	v := validation.New()
	tokens := auth.NewJWTService([]byte("router-test-secret"))

	authSvc := auth.NewService(testutil.NewUserStore(), tokens, auth.BcryptHasher{Cost: bcrypt.MinCost}, logger)
	postSvc := post.NewService(testutil.NewPostStore(), logger)

	router := NewRouter(cfg, Handlers{
		Auth:           auth.NewHandler(authSvc, v, nil, false),
		AuthMiddleware: auth.NewMiddleware(tokens),
		Posts:          post.NewHandler(postSvc, v, false),
		Health:         health.NewHandler(health.PingFunc(func(context.Context) error { return nil }), nil),
	}, logger)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token, body string, out any) int {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func register(t *testing.T, srv *httptest.Server, email string) auth.Session {
	t.Helper()
	var session auth.Session
	status := call(t, srv, http.MethodPost, "/auth/register", "", `{"email":"`+email+`","password":"password123"}`, &session)
	require.Equal(t, http.StatusCreated, status)
	return session
}

func TestRouter_PostLifecycle(t *testing.T) {
	srv := newTestServer(t)

	owner := register(t, srv, "demo@skinx.dev")
	other := register(t, srv, "other@skinx.dev")

	var created post.Post
	status := call(t, srv, http.MethodPost, "/posts", owner.Token,
		`{"title":"Hello","content":"<p>Hi</p>","tags":["intro"]}`, &created)
	require.Equal(t, http.StatusCreated, status)

	var list post.ListResult
	status = call(t, srv, http.MethodGet, "/posts?tag=intro", owner.Token, "", &list)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, created.ID, list.Items[0].ID)

	var errResp httputil.ErrorResponse
	status = call(t, srv, http.MethodDelete, "/posts/"+created.ID.String(), other.Token, "", &errResp)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You can only delete your own posts", errResp.Error)

	status = call(t, srv, http.MethodDelete, "/posts/"+created.ID.String(), owner.Token, "", nil)
	assert.Equal(t, http.StatusNoContent, status)

	status = call(t, srv, http.MethodGet, "/posts/"+created.ID.String(), owner.Token, "", &errResp)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_AuthGate(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/posts", "/auth/me"} {
		var errResp httputil.ErrorResponse
		status := call(t, srv, http.MethodGet, path, "", "", &errResp)
		assert.Equal(t, http.StatusUnauthorized, status, path)
		assert.Equal(t, "Missing or invalid authorization header", errResp.Error)
	}

	session := register(t, srv, "demo@skinx.dev")
	var me auth.MeResponse
	status := call(t, srv, http.MethodGet, "/auth/me", session.Token, "", &me)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, session.User.ID, me.ID)
}

func TestRouter_PublicRoutes(t *testing.T) {
	srv := newTestServer(t)

	var healthResp health.Response
	status := call(t, srv, http.MethodGet, "/health", "", "", &healthResp)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, healthResp.OK)

	var errResp httputil.ErrorResponse
	status = call(t, srv, http.MethodGet, "/nope", "", "", &errResp)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Route not found", errResp.Error)

	status = call(t, srv, http.MethodGet, "/swagger/index.html", "", "", &errResp)
	assert.Equal(t, http.StatusNotFound, status, "swagger is development only")
}

func TestRouter_SecurityHeadersAndCORS(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/posts", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, err = srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'none'", resp.Header.Get("Content-Security-Policy"))
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(false)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Internal server error", resp.Error)
	assert.Equal(t, "Something went wrong", resp.Message)
}

func TestMaxBodySize(t *testing.T) {
	v := validation.New()
	h := MaxBodySize(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := v.DecodeJSON(r, &body); err != nil {
			httputil.RespondRequestError(w, r, err, false)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"`+strings.Repeat("a", 64)+`"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

type recordingLimiter struct {
	clients []string
}

func (l *recordingLimiter) Allow(_ context.Context, _, clientID string) (bool, error) {
	l.clients = append(l.clients, clientID)
	return true, nil
}

func TestRouter_RateLimitKeyIgnoresSpoofedHeaders(t *testing.T) {
	for _, trust := range []bool{false, true} {
		cfg := &config.Config{Server: config.ServerConfig{
			Env:                "test",
			MaxRequestBodySize: 1 << 20,
			TrustProxyHeaders:  trust,
		}}
		logger := logging.Discard()
		tokens := auth.NewJWTService([]byte("router-test-secret"))
		authSvc := auth.NewService(testutil.NewUserStore(), tokens, auth.BcryptHasher{Cost: bcrypt.MinCost}, logger)
		limiter := &recordingLimiter{}

		router := NewRouter(cfg, Handlers{
			Auth:           auth.NewHandler(authSvc, validation.New(), limiter, false),
			AuthMiddleware: auth.NewMiddleware(tokens),
			Posts:          post.NewHandler(post.NewService(testutil.NewPostStore(), logger), validation.New(), false),
			Health:         health.NewHandler(health.PingFunc(func(context.Context) error { return nil }), nil),
		}, logger)

		for _, forwarded := range []string{"198.51.100.1", "198.51.100.2"} {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.co","password":"password123"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Forwarded-For", forwarded)
			req.RemoteAddr = "203.0.113.7:52100"
			router.ServeHTTP(httptest.NewRecorder(), req)
		}

		if trust {
			assert.Equal(t, []string{"198.51.100.1", "198.51.100.2"}, limiter.clients)
		} else {
			assert.Equal(t, []string{"203.0.113.7", "203.0.113.7"}, limiter.clients)
		}
	}
}
