package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/neuracontrol/pkg/api/types"
	"github.com/urmzd/neuracontrol/pkg/dispatch"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	orchestrator *dispatch.Orchestrator
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(orchestrator *dispatch.Orchestrator) *HealthHandler {
	return &HealthHandler{orchestrator: orchestrator}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the API status and the actuator in use. With probe=true the serial port is opened and closed, which takes the settle delay.
// @Tags         health
// @Produce      json
// @Param        probe  query  bool  false  "Open the actuator port to check it is reachable"
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "Actuator unreachable"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	act := h.orchestrator.Actuator()
	_, simulated := act.(*dispatch.SimulatedActuator)

	resp := types.HealthResponse{
		Status:    "healthy",
		Actuator:  act.Name(),
		Simulated: simulated,
		Timestamp: time.Now(),
	}
	httpStatus := http.StatusOK

	if c.Query("probe") == "true" && !simulated {
		reachable := h.orchestrator.Reachable(c.Request.Context())
		resp.Reachable = &reachable
		if !reachable {
			resp.Status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	c.JSON(httpStatus, resp)
}
