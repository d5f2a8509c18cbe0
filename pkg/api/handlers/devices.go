package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/neuracontrol/pkg/api/types"
	"github.com/urmzd/neuracontrol/pkg/db"
	"github.com/urmzd/neuracontrol/pkg/device"
)

// DevicesHandler handles device listing endpoints
type DevicesHandler struct {
	registry *device.Registry
	states   db.DeviceStateStore
}

// NewDevicesHandler creates a new devices handler
func NewDevicesHandler(registry *device.Registry, states db.DeviceStateStore) *DevicesHandler {
	return &DevicesHandler{registry: registry, states: states}
}

// ListDevices handles GET /devices
// @Summary      List all devices
// @Description  Returns the device table in definition order with the last recorded state of each device
// @Tags         devices
// @Produce      json
// @Success      200  {object}  types.ListDevicesResponse
// @Failure      500  {object}  types.ErrorResponse  "Storage error"
// @Router       /devices [get]
func (h *DevicesHandler) ListDevices(c *gin.Context) {
	ctx := c.Request.Context()

	stored, err := h.states.List(ctx)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	byID := make(map[string]*db.DeviceState, len(stored))
	for _, st := range stored {
		byID[st.DeviceID] = st
	}

	result := make([]types.DeviceWithState, 0, h.registry.Len())
	active := 0
	for _, d := range h.registry.All() {
		dws := toDeviceWithState(d, h.registry.Index(d.ID), byID[d.ID])
		if dws.State == device.StateOn {
			active++
		}
		result = append(result, dws)
	}

	c.JSON(http.StatusOK, types.ListDevicesResponse{
		Devices: result,
		Count:   len(result),
		Active:  active,
	})
}

// GetDevice handles GET /devices/:id
// @Summary      Get device details
// @Description  Returns a device's phrases, codes and last recorded state
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "Device id (led, fan, heater, lights)"
// @Success      200  {object}  types.DeviceResponse
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Failure      500  {object}  types.ErrorResponse  "Storage error"
// @Router       /devices/{id} [get]
func (h *DevicesHandler) GetDevice(c *gin.Context) {
	d, err := h.registry.Lookup(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "not_found", "Device not found")
		return
	}

	st, err := lookupState(c.Request.Context(), h.states, d.ID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, types.DeviceResponse{
		Device: toDeviceWithState(d, h.registry.Index(d.ID), st),
	})
}

func lookupState(ctx context.Context, states db.DeviceStateStore, id string) (*db.DeviceState, error) {
	st, err := states.Get(ctx, id)
	if errors.Is(err, db.ErrDeviceStateNotFound) {
		log.Debug().Str("device", id).Msg("No stored state, assuming OFF")
		return nil, nil
	}
	return st, err
}

func toDeviceWithState(d device.Device, index int, st *db.DeviceState) types.DeviceWithState {
	dws := types.DeviceWithState{
		ID:          d.ID,
		Name:        d.Name,
		Index:       index,
		OnPhrase:    d.OnPhrase,
		OffPhrase:   d.OffPhrase,
		OnCode:      string(d.OnCode),
		OffCode:     string(d.OffCode),
		StateSchema: d.StateSchema(),
		State:       device.StateOff,
	}
	if st != nil {
		dws.State = device.StateString(st.On)
		dws.Simulated = st.Simulated
		updated := st.UpdatedAt
		dws.UpdatedAt = &updated
	}
	return dws
}
