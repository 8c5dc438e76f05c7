package apierr

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/webgame/internal/codec"
	"github.com/mcoot/webgame/internal/model"
	"github.com/mcoot/webgame/internal/services/user"
	"github.com/mcoot/webgame/internal/validation"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{model.ErrUserNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", model.ErrGameNotFound), http.StatusNotFound},
		{model.ErrUserAlreadyExists, http.StatusConflict},
		{fmt.Errorf("insert: %w", model.ErrGameAlreadyExists), http.StatusConflict},
		{model.ErrGameNotJoinable, http.StatusConflict},
		{model.ErrAlreadyInGame, http.StatusConflict},
		{model.ErrNotEnoughPlayers, http.StatusConflict},
		{model.ErrInvalidGameStatus, http.StatusConflict},
		{user.ErrInvalidPatch, http.StatusBadRequest},
		{validation.NewError("login", "bad"), http.StatusUnprocessableEntity},
		{NewInvalidRequestError("bad"), http.StatusBadRequest},
		{codec.ErrDecode, http.StatusInternalServerError},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, Status(tt.err))
		})
	}
}

func TestWriteValidationError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, validation.NewError("login", "Login must contains only letters or digits"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, CodeValidationFailed, body.Error.Code)
	assert.Equal(t, []validation.FieldError{{Field: "login", Message: "Login must contains only letters or digits"}}, body.Error.Fields)
}

func TestWriteErrorOmitsEmptyFields(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, model.ErrUserNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"USER_NOT_FOUND","message":"User not found"}}`, rec.Body.String())
}
