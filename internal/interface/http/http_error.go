package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/charityfund/faqbot/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// domainError translates an application error into its transport shape.
func domainError(err error) *HTTPError {
	code := apperrors.Code(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.CodeInvalidCredentials:
		status = http.StatusUnauthorized
	case apperrors.CodeInvalidToken:
		status = http.StatusForbidden
	case apperrors.CodeCorpusUnavailable:
		status = http.StatusServiceUnavailable
	case apperrors.CodeEmbeddingFailed:
		status = http.StatusBadGateway
	case apperrors.CodeCatalogError, apperrors.CodeTriageError:
		status = http.StatusInternalServerError
	case "":
		code = "internal_error"
	}
	// Only the AppError message crosses the wire. The wrapped cause may
	// carry connection strings or upstream internals and stays in the
	// server log.
	message := apperrors.Message(err)
	if message == "" {
		message = "something went wrong"
	}
	return NewHTTPError(status, code, message, err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
