package handler

import (
	"net/http"

	"github.com/mcoot/webgame/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest    = apierr.CodeInvalidRequest
	CodeValidationFailed  = apierr.CodeValidationFailed
	CodeUserNotFound      = apierr.CodeUserNotFound
	CodeGameNotFound      = apierr.CodeGameNotFound
	CodeGameNotJoinable   = apierr.CodeGameNotJoinable
	CodeAlreadyInGame     = apierr.CodeAlreadyInGame
	CodeNotEnoughPlayers  = apierr.CodeNotEnoughPlayers
	CodeInvalidGameStatus = apierr.CodeInvalidGameStatus
	CodeInternalError     = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NotFound handles requests that match no route
func NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, apierr.NewNotFoundError())
}

// MethodNotAllowed handles requests whose path matches but method does not
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, apierr.NewMethodNotAllowedError())
}
