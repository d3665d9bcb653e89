package httputil

// Machine-readable error codes returned alongside error messages so
// clients can branch without parsing human-readable text.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeNameRequired       = "NAME_REQUIRED"
	CodeEmailRequired      = "EMAIL_REQUIRED"
	CodePasswordRequired   = "PASSWORD_REQUIRED"
	CodeUserAlreadyExists  = "USER_ALREADY_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidID          = "INVALID_ID"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)
