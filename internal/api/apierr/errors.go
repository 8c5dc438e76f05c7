package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/webgame/internal/codec"
	"github.com/mcoot/webgame/internal/model"
	"github.com/mcoot/webgame/internal/services/user"
	"github.com/mcoot/webgame/internal/validation"
)

// APIError represents an API error response
type APIError struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeAlreadyExists     = "ALREADY_EXISTS"
	CodeGameNotFound      = "GAME_NOT_FOUND"
	CodeGameNotJoinable   = "GAME_NOT_JOINABLE"
	CodeAlreadyInGame     = "ALREADY_IN_GAME"
	CodeNotEnoughPlayers  = "NOT_ENOUGH_PLAYERS"
	CodeInvalidGameStatus = "INVALID_GAME_STATUS"
	CodeNotFound          = "NOT_FOUND"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeValidationFailed, "Validation failed", verr.Fields}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeUserNotFound, Message: "User not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeGameNotFound, Message: "Game not found"}}
	case errors.Is(err, model.ErrUserAlreadyExists), errors.Is(err, model.ErrGameAlreadyExists):
		return &httpError{http.StatusConflict, APIError{Code: CodeAlreadyExists, Message: err.Error()}}
	case errors.Is(err, model.ErrGameNotJoinable):
		return &httpError{http.StatusConflict, APIError{Code: CodeGameNotJoinable, Message: "Game is not accepting players"}}
	case errors.Is(err, model.ErrAlreadyInGame):
		return &httpError{http.StatusConflict, APIError{Code: CodeAlreadyInGame, Message: "User is already in a game"}}
	case errors.Is(err, model.ErrNotEnoughPlayers):
		return &httpError{http.StatusConflict, APIError{Code: CodeNotEnoughPlayers, Message: "Not enough players to start"}}
	case errors.Is(err, model.ErrInvalidGameStatus):
		return &httpError{http.StatusConflict, APIError{Code: CodeInvalidGameStatus, Message: "Game is not in the required status"}}

	// Map service errors
	case errors.Is(err, user.ErrInvalidPatch):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: err.Error()}}

	// Stored documents that no longer decode are a server fault
	case errors.Is(err, codec.ErrDecode):
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Stored document is corrupt"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewNotFoundError creates a route not found error
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound, Message: "Resource not found"}}
}

// NewMethodNotAllowedError creates a method not allowed error
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, APIError{Code: CodeMethodNotAllowed, Message: "Method not allowed"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}

// NewInternalErrorForRequest creates an internal server error that quotes
// the request ID so callers can correlate it with server logs
func NewInternalErrorForRequest(requestID string) error {
	if requestID == "" {
		return NewInternalError()
	}
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error (request " + requestID + ")"}}
}
