package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyreuse/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Pinger is a dependency whose liveness can be probed
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthHandler reports whether the service and its dependencies are up
type HealthHandler struct {
	version string
	timeout time.Duration
	checks  map[string]Pinger
}

// NewHealthHandler creates a health handler. The database check is required;
// others may be added with AddCheck.
func NewHealthHandler(version string, db Pinger) *HealthHandler {
	return &HealthHandler{
		version: version,
		timeout: 2 * time.Second,
		checks:  map[string]Pinger{"database": db},
	}
}

// AddCheck registers another dependency probe
func (h *HealthHandler) AddCheck(name string, p Pinger) {
	h.checks[name] = p
}

// Health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Version: h.version, Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			logger.FromContext(ctx).Warn("Health check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = "down"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "up"
	}
	c.JSON(status, resp)
}
