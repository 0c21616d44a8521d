package post

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skinx/blog-api/internal/auth"
	"github.com/skinx/blog-api/internal/httputil"
	"github.com/skinx/blog-api/internal/logging"
	"github.com/skinx/blog-api/internal/validation"
)

// Handler contains HTTP handlers for post endpoints. Every route sits behind
// auth.Middleware.RequireAuth.
type Handler struct {
	service       *Service
	validator     *validation.Validator
	exposeDetails bool
}

func NewHandler(service *Service, validator *validation.Validator, exposeDetails bool) *Handler {
	return &Handler{service: service, validator: validator, exposeDetails: exposeDetails}
}

// List handles listing posts
// @Summary      List posts
// @Description  Newest first, optionally filtered by exact tag and free-text search
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        tag      query string false "Exact tag"
// @Param        q        query string false "Case-insensitive substring of title or content"
// @Param        page     query int    false "Page number (default 1)"
// @Param        pageSize query int    false "Page size (default 10, max 100)"
// @Success      200 {object} ListResult
// @Failure      400 {object} httputil.ErrorResponse "Validation failed"
// @Failure      401 {object} httputil.ErrorResponse "Missing, invalid or expired token"
// @Router       /posts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := DefaultListQuery()
	if err := h.validator.DecodeQuery(r.URL.Query(), &query); err != nil {
		httputil.RespondRequestError(w, r, err, h.exposeDetails)
		return
	}

	result, err := h.service.List(r.Context(), query.Filter())
	if err != nil {
		httputil.RespondInternalError(w, r, err, h.exposeDetails)
		return
	}

	httputil.RespondJSON(w, r, result, http.StatusOK)
}

// Get handles fetching a single post
// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200 {object} Post
// @Failure      401 {object} httputil.ErrorResponse "Missing, invalid or expired token"
// @Failure      404 {object} httputil.ErrorResponse "Post not found"
// @Router       /posts/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondPostError(w, r, err, "")
		return
	}

	httputil.RespondJSON(w, r, p, http.StatusOK)
}

// Create handles creating a post
// @Summary      Create post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreatePostRequest true "Post"
// @Success      201 {object} Post
// @Failure      400 {object} httputil.ErrorResponse "Validation failed"
// @Failure      401 {object} httputil.ErrorResponse "Missing, invalid or expired token"
// @Router       /posts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondUnauthenticated(w, r)
		return
	}

	var req CreatePostRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		logging.GetLoggerFromContext(r.Context()).Warn("invalid create post request", "error", err.Error())
		httputil.RespondRequestError(w, r, err, h.exposeDetails)
		return
	}

	created, err := h.service.Create(r.Context(), Author{ID: identity.UserID, Email: identity.Email}, req)
	if err != nil {
		httputil.RespondInternalError(w, r, err, h.exposeDetails)
		return
	}

	httputil.RespondJSON(w, r, created, http.StatusCreated)
}

// Update handles partial updates of a post
// @Summary      Update post
// @Description  Only the author may update a post. Absent fields are unchanged.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string            true "Post ID"
// @Param        request body UpdatePostRequest true "Fields to change"
// @Success      200 {object} Post
// @Failure      400 {object} httputil.ErrorResponse "Validation failed"
// @Failure      401 {object} httputil.ErrorResponse "Missing, invalid or expired token"
// @Failure      403 {object} httputil.ErrorResponse "Not the author"
// @Failure      404 {object} httputil.ErrorResponse "Post not found"
// @Router       /posts/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondUnauthenticated(w, r)
		return
	}

	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		httputil.RespondRequestError(w, r, err, h.exposeDetails)
		return
	}

	updated, err := h.service.Update(r.Context(), identity.UserID, id, req)
	if err != nil {
		h.respondPostError(w, r, err, "You can only update your own posts")
		return
	}

	httputil.RespondJSON(w, r, updated, http.StatusOK)
}

// Delete handles deleting a post
// @Summary      Delete post
// @Description  Only the author may delete a post.
// @Tags         posts
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      204
// @Failure      401 {object} httputil.ErrorResponse "Missing, invalid or expired token"
// @Failure      403 {object} httputil.ErrorResponse "Not the author"
// @Failure      404 {object} httputil.ErrorResponse "Post not found"
// @Router       /posts/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondUnauthenticated(w, r)
		return
	}

	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, id); err != nil {
		h.respondPostError(w, r, err, "You can only delete your own posts")
		return
	}

	httputil.RespondNoContent(w)
}

// postID parses the {id} URL parameter. An id that cannot exist is reported
// the same way as one that does not.
func (h *Handler) postID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondNotFound(w, r)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respondPostError(w http.ResponseWriter, r *http.Request, err error, forbiddenMessage string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respondNotFound(w, r)
	case errors.Is(err, ErrForbidden):
		logging.GetLoggerFromContext(r.Context()).Warn("post ownership check failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, r, forbiddenMessage, httputil.CodeForbidden, http.StatusForbidden)
	default:
		httputil.RespondInternalError(w, r, err, h.exposeDetails)
	}
}

func respondNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.RespondErrorWithCode(w, r, "Post not found", httputil.CodeNotFound, http.StatusNotFound)
}

func respondUnauthenticated(w http.ResponseWriter, r *http.Request) {
	httputil.RespondErrorWithCode(w, r, "Missing or invalid authorization header", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
}
