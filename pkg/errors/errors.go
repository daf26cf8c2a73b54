package errors

import "errors"

// Codes shared by the domain services. The HTTP layer maps them to status codes.
const (
	CodeInvalidInput       = "invalid_input"
	CodeNotFound           = "not_found"
	CodeUnsupportedFormat  = "unsupported_format"
	CodeLLM                = "llm_error"
	CodeStorage            = "storage_error"
	CodeExport             = "export_error"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidToken       = "invalid_token"
	CodeUsernameExists     = "username_exists"
	CodeEmailExists        = "email_exists"
	CodeAuth               = "auth_error"
	CodeAuthNotConfigured  = "auth_not_configured"
	CodeUnauthorized       = "unauthorized"
	CodeOAuthExchange      = "oauth_exchange_failed"
	CodeLinkingDisabled    = "account_linking_disabled"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode helps handler differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost AppError, or "" for foreign errors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
