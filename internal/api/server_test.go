package api

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/webgame/internal/factory"
	"github.com/mcoot/webgame/internal/testutil"
)

func TestServerServesRouterOnFreePort(t *testing.T) {
	app := factory.NewTestApp()
	router := NewRouter(RouterConfig{
		Logger:         testutil.NopLogger(),
		Clock:          app.Clock,
		Validator:      app.Validator,
		UserService:    app.UserService,
		GameController: app.GameController,
	})

	cfg := DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.ShutdownTimeout = time.Second
	server := NewServer(router, cfg, testutil.NopLogger())
	require.NoError(t, server.Listen())
	assert.NotEqual(t, "127.0.0.1:0", server.Addr())

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	resp, err := http.Get("http://" + server.Addr() + "/api/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)

	require.NoError(t, server.Shutdown(context.Background()))
	assert.NoError(t, <-errCh)
}
