package auth

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/skinx/blog-api/internal/httputil"
	"github.com/skinx/blog-api/internal/logging"
	"github.com/skinx/blog-api/internal/user"
	"github.com/skinx/blog-api/internal/validation"
)

// RateLimiter throttles credential endpoints per client.
type RateLimiter interface {
	Allow(ctx context.Context, purpose, clientID string) (bool, error)
}

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service       *Service
	validator     *validation.Validator
	rateLimiter   RateLimiter
	exposeDetails bool
}

// NewHandler wires the auth endpoints. rateLimiter may be nil.
func NewHandler(service *Service, validator *validation.Validator, rateLimiter RateLimiter, exposeDetails bool) *Handler {
	return &Handler{
		service:       service,
		validator:     validator,
		rateLimiter:   rateLimiter,
		exposeDetails: exposeDetails,
	}
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create an account and receive a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration credentials"
// @Success      201 {object} Session
// @Failure      400 {object} httputil.ErrorResponse "Validation failed"
// @Failure      409 {object} httputil.ErrorResponse "User already exists"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allow(w, r, "register") {
		return
	}

	var req RegisterRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid registration request", "error", err.Error())
		httputil.RespondRequestError(w, r, err, h.exposeDetails)
		return
	}

	session, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists):
			logger.Warn("registration failed: user already exists")
			httputil.RespondErrorWithCode(w, r, "User already exists", httputil.CodeUserExists, http.StatusConflict)
		case errors.Is(err, ErrMissingSecret):
			httputil.RespondMisconfigured(w, r, err)
		default:
			httputil.RespondInternalError(w, r, err, h.exposeDetails)
		}
		return
	}

	httputil.RespondJSON(w, r, session, http.StatusCreated)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate with email and password and receive a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} Session
// @Failure      400 {object} httputil.ErrorResponse "Validation failed"
// @Failure      401 {object} httputil.ErrorResponse "Invalid email or password"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allow(w, r, "login") {
		return
	}

	var req LoginRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid login request", "error", err.Error())
		httputil.RespondRequestError(w, r, err, h.exposeDetails)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			logger.Warn("login failed: invalid credentials")
			httputil.RespondErrorWithCode(w, r, "Invalid email or password", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
		case errors.Is(err, ErrMissingSecret):
			httputil.RespondMisconfigured(w, r, err)
		default:
			httputil.RespondInternalError(w, r, err, h.exposeDetails)
		}
		return
	}

	logger.Info("user logged in", "user_id", session.User.ID)
	httputil.RespondJSON(w, r, session, http.StatusOK)
}

// Me returns the authenticated user's profile
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MeResponse
// @Failure      401 {object} httputil.ErrorResponse "Missing, invalid or expired token"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, r, "Missing or invalid authorization header", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
		return
	}

	me, err := h.service.Me(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			httputil.RespondErrorWithCode(w, r, "User not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		httputil.RespondInternalError(w, r, err, h.exposeDetails)
		return
	}

	httputil.RespondJSON(w, r, me, http.StatusOK)
}

// allow consults the rate limiter. Limiter failures let the request through.
func (h *Handler) allow(w http.ResponseWriter, r *http.Request, purpose string) bool {
	if h.rateLimiter == nil {
		return true
	}

	logger := logging.GetLoggerFromContext(r.Context())
	ip := clientIP(r)

	allowed, err := h.rateLimiter.Allow(r.Context(), purpose, ip)
	if err != nil {
		logger.Error("failed to check rate limit", "purpose", purpose, "error", err.Error())
		return true
	}
	if !allowed {
		logger.Warn("rate limit exceeded", "purpose", purpose, "ip", ip)
		httputil.RespondErrorWithCode(w, r, "Too many requests, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return false
	}
	return true
}

// clientIP strips the port from RemoteAddr. Proxy headers only reach
// RemoteAddr when the router trusts them (TRUST_PROXY_HEADERS).
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
