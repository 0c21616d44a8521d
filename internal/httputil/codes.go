package httputil

// Machine-readable error codes returned alongside error messages.
const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
	CodeRequestTooLarge     = "REQUEST_TOO_LARGE"
	CodeInvalidAuthHeader   = "INVALID_AUTH_HEADER"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeUserExists          = "USER_EXISTS"
	CodeTooManyRequests     = "TOO_MANY_REQUESTS"
	CodeServerMisconfigured = "SERVER_MISCONFIGURED"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeRouteNotFound       = "ROUTE_NOT_FOUND"
)
