package cli

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/webgame/internal/testutil"
)

func TestClientDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"error":{"code":"VALIDATION_FAILED","message":"Validation failed","fields":[{"field":"login","message":"login is required"}]}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", testutil.NopLogger())
	err := c.Post("/api/users", userFields{}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "VALIDATION_FAILED")
	assert.Contains(t, err.Error(), "login: login is required")
}

func TestClientFallsBackToRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, testutil.NopLogger()).Get("/api/health", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestClientPatchSendsJSONPatch(t *testing.T) {
	var contentType, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	patch := []byte(`[{"op":"replace","path":"/login","value":"bob"}]`)
	require.NoError(t, NewClient(srv.URL, testutil.NopLogger()).Patch("/api/users/1", patch))

	assert.Equal(t, JSONPatchContentType, contentType)
	assert.Equal(t, string(patch), body)
}

func TestClientPutReturnsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		w.Header().Set("Location", "http://example.com/api/users/1")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `"1"`)
	}))
	defer srv.Close()

	var id string
	headers, err := NewClient(srv.URL, testutil.NopLogger()).Put("/api/users/1", userFields{Login: "bob"}, &id)

	require.NoError(t, err)
	assert.Equal(t, "1", id)
	assert.Equal(t, "http://example.com/api/users/1", headers.Get("Location"))
}
