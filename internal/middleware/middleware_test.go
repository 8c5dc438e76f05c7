package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/webgame/internal/testutil"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, levelFor(http.StatusOK))
	assert.Equal(t, slog.LevelInfo, levelFor(http.StatusNotModified))
	assert.Equal(t, slog.LevelWarn, levelFor(http.StatusNotFound))
	assert.Equal(t, slog.LevelError, levelFor(http.StatusServiceUnavailable))
}

func TestLoggingRecordsStatusAndSize(t *testing.T) {
	logger, logs := testutil.CaptureLogger()

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/users?pageSize=5", nil))

	entries := logs.Entries()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "/api/users", entry["path"])
	assert.Equal(t, "pageSize=5", entry["query"])
	assert.EqualValues(t, http.StatusNotFound, entry["status"])
	assert.EqualValues(t, len("missing"), entry["size"])
}

func TestRecoveryInvokesHandler(t *testing.T) {
	var recovered any
	h := Recovery(testutil.NopLogger(), func(w http.ResponseWriter, _ *http.Request, err any) {
		recovered = err
		w.WriteHeader(http.StatusTeapot)
	})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "boom", recovered)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRecoveryRepanicsOnAbort(t *testing.T) {
	h := Recovery(testutil.NopLogger(), func(http.ResponseWriter, *http.Request, any) {
		t.Fatal("handler should not run for aborted requests")
	})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
