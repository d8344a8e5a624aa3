package errors

import "errors"

// Error codes shared across domains. Handlers map these to HTTP statuses;
// the matcher and services use them to keep "no match" distinct from
// "the system is broken".
const (
	CodeInvalidInput       = "invalid_input"
	CodeCorpusUnavailable  = "corpus_unavailable"
	CodeEmbeddingFailed    = "embedding_failed"
	CodeCatalogError       = "catalog_error"
	CodeTriageError        = "triage_error"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidToken       = "invalid_token"
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

// IsCode helps handlers differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Code extracts the code from an AppError chain, empty when absent.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Message extracts the AppError message without the wrapped cause, empty
// when absent. Handlers use it to keep upstream error text out of
// responses.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}
