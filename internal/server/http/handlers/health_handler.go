package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ordernotify/internal/server/http/dto"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	facade HealthFacade
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(facade HealthFacade) *HealthHandler {
	return &HealthHandler{facade: facade}
}

// Check handles GET /healthz. The database is mandatory; an unreachable chat
// transport degrades the status but deliveries fall back to the webhook, so
// it does not fail the probe on its own.
func (h *HealthHandler) Check(c *gin.Context) {
	resp := dto.HealthResponse{Status: "ok", Database: "ok", Transport: "ok"}
	code := http.StatusOK

	if err := h.facade.DatabaseHealthy(c.Request.Context()); err != nil {
		resp.Status = "unhealthy"
		resp.Database = err.Error()
		code = http.StatusServiceUnavailable
	}
	if !h.facade.TransportHealthy(c.Request.Context()) {
		resp.Transport = "unreachable"
		if resp.Status == "ok" {
			resp.Status = "degraded"
		}
	}

	c.JSON(code, resp)
}
