package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ordernotify/internal/server/http/dto"
)

// StatusHandler serves runtime counters.
type StatusHandler struct {
	facade StatusFacade
}

// NewStatusHandler constructs StatusHandler.
func NewStatusHandler(facade StatusFacade) *StatusHandler {
	return &StatusHandler{facade: facade}
}

// Summary handles GET /status.
func (h *StatusHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{
		UptimeSeconds:       int64(h.facade.Uptime().Seconds()),
		ProcessedOrders:     h.facade.ProcessedOrders(),
		ActiveConversations: h.facade.ActiveConversations(),
		PollIterations:      h.facade.PollIterations(),
		LastPoll:            h.facade.LastPoll(),
	})
}
