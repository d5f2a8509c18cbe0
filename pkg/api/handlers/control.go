package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/neuracontrol/pkg/api/types"
	"github.com/urmzd/neuracontrol/pkg/db"
	"github.com/urmzd/neuracontrol/pkg/device"
	"github.com/urmzd/neuracontrol/pkg/device/schema"
	"github.com/urmzd/neuracontrol/pkg/dispatch"
)

// ControlHandler handles device state control endpoints
type ControlHandler struct {
	orchestrator *dispatch.Orchestrator
	states       db.DeviceStateStore
	validator    *schema.Validator
}

// NewControlHandler creates a new control handler
func NewControlHandler(orchestrator *dispatch.Orchestrator, states db.DeviceStateStore, validator *schema.Validator) *ControlHandler {
	return &ControlHandler{orchestrator: orchestrator, states: states, validator: validator}
}

// GetState handles GET /devices/:id/state
// @Summary      Get device state
// @Description  Returns the last recorded state of a device. The board has no read-back so this is the state of the last successful command.
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "Device id"
// @Success      200  {object}  types.StateResponse
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Failure      500  {object}  types.ErrorResponse  "Storage error"
// @Router       /devices/{id}/state [get]
func (h *ControlHandler) GetState(c *gin.Context) {
	d, err := h.orchestrator.Registry().Lookup(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "not_found", "Device not found")
		return
	}

	st, err := lookupState(c.Request.Context(), h.states, d.ID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}

	resp := types.StateResponse{
		Device:    d.ID,
		State:     device.StateOff,
		Timestamp: time.Now(),
	}
	if st != nil {
		resp.State = device.StateString(st.On)
	}
	c.JSON(http.StatusOK, resp)
}

// SetState handles POST /devices/:id/state
// @Summary      Set device state
// @Description  Sends the device's on or off code directly, without the language model. The body is validated against the device's state schema.
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Device id"
// @Param        request  body      types.SetStateRequest   true  "State to set"
// @Success      200      {object}  types.StateResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      404      {object}  types.ErrorResponse  "Device not found"
// @Failure      502      {object}  types.StateResponse  "Code could not be delivered"
// @Router       /devices/{id}/state [post]
func (h *ControlHandler) SetState(c *gin.Context) {
	ctx := c.Request.Context()

	d, err := h.orchestrator.Registry().Lookup(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "not_found", "Device not found")
		return
	}

	var req map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	on, err := h.validator.DesiredState(d, req)
	if err != nil {
		if errors.Is(err, device.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "schema_error", err.Error())
		return
	}

	outcome, err := h.orchestrator.Actuate(ctx, d.ID, on)
	if err != nil {
		abortWithError(c, http.StatusNotFound, "not_found", err.Error())
		return
	}

	if err := h.states.Record(ctx, []dispatch.Outcome{outcome}); err != nil {
		log.Error().Err(err).Str("device", d.ID).Msg("Failed to record device state")
	}

	resp := types.StateResponse{
		Device:    d.ID,
		State:     device.StateString(on),
		Outcome:   &outcome,
		Timestamp: time.Now(),
	}
	if !outcome.Success {
		c.JSON(http.StatusBadGateway, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
