package handler

import (
	"net/http"
	"time"

	"github.com/mcoot/webgame/internal/api/response"
	"github.com/mcoot/webgame/internal/dependencies/clock"
)

// HealthHandler reports liveness and uptime
type HealthHandler struct {
	clock     clock.Clock
	startedAt time.Time
}

// NewHealthHandler creates a health handler that measures uptime from now
func NewHealthHandler(clock clock.Clock) *HealthHandler {
	return &HealthHandler{
		clock:     clock,
		startedAt: clock.Now(),
	}
}

// Get handles GET /api/health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	uptime := h.clock.Since(h.startedAt)
	response.JSON(w, http.StatusOK, response.Health{
		Status:        "ok",
		UptimeSeconds: int64(uptime / time.Second),
	})
}
