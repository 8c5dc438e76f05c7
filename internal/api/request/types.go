package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// MaxBodyBytes bounds every request body
const MaxBodyBytes = 1 << 20

// ErrEmptyBody is returned when a body is required but missing or JSON null
var ErrEmptyBody = errors.New("request body is required")

// AddPlayerRequest is the request body for joining a game
type AddPlayerRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

// DecodeJSON strictly decodes the request body into dst. An empty body or a
// literal null is rejected with ErrEmptyBody.
func DecodeJSON(r *http.Request, dst any) error {
	body, err := ReadBody(r)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("malformed JSON body: trailing data")
	}
	return nil
}

// ReadBody reads the whole request body, rejecting empty and null bodies
func ReadBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrEmptyBody
	}
	return trimmed, nil
}

// PathUUID parses a UUID route variable. ok is false when the variable is
// missing or not a UUID.
func PathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// QueryInt reads an integer query parameter, returning def when it is absent
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s must be an integer", name)
	}
	return n, nil
}
