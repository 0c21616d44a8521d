package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skinx/blog-api/internal/logging"
	"github.com/skinx/blog-api/internal/validation"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Encoding errors are logged with the request's logger.
func RespondJSON(w http.ResponseWriter, r *http.Request, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

// RespondNoContent writes a bare 204.
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondErrorWithCode sends a JSON error response with a machine-readable error code.
func RespondErrorWithCode(w http.ResponseWriter, r *http.Request, message string, code string, statusCode int) {
	RespondJSON(w, r, ErrorResponse{Error: message, Code: code}, statusCode)
}

// RespondValidationError sends a 400 carrying field-level violations.
func RespondValidationError(w http.ResponseWriter, r *http.Request, details any) {
	RespondJSON(w, r, ErrorResponse{
		Error:   "Validation failed",
		Code:    CodeValidationFailed,
		Details: details,
	}, http.StatusBadRequest)
}

// RespondInternalError is the single sink for unexpected failures. The error is
// logged with the request logger; the real message is only echoed back when
// exposeDetails is set (development).
func RespondInternalError(w http.ResponseWriter, r *http.Request, err error, exposeDetails bool) {
	logging.GetLoggerFromContext(r.Context()).Error("unhandled error", "error", err)

	message := "Something went wrong"
	if exposeDetails && err != nil {
		message = err.Error()
	}

	RespondJSON(w, r, ErrorResponse{
		Error:   "Internal server error",
		Code:    CodeInternalError,
		Message: message,
	}, http.StatusInternalServerError)
}

// RespondMisconfigured reports a server configuration problem such as a
// missing signing secret.
func RespondMisconfigured(w http.ResponseWriter, r *http.Request, err error) {
	logging.GetLoggerFromContext(r.Context()).Error("server misconfiguration", "error", err)
	RespondErrorWithCode(w, r, "Server configuration error", CodeServerMisconfigured, http.StatusInternalServerError)
}

// RespondRequestError maps a failure from validation.DecodeJSON or
// validation.DecodeQuery to the matching 4xx response.
func RespondRequestError(w http.ResponseWriter, r *http.Request, err error, exposeDetails bool) {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		RespondValidationError(w, r, vErr.Violations)
	case errors.Is(err, validation.ErrBodyTooLarge):
		RespondErrorWithCode(w, r, "Request body too large", CodeRequestTooLarge, http.StatusRequestEntityTooLarge)
	case errors.Is(err, validation.ErrInvalidBody):
		RespondErrorWithCode(w, r, "Invalid request body", CodeInvalidRequestBody, http.StatusBadRequest)
	default:
		RespondInternalError(w, r, err, exposeDetails)
	}
}
