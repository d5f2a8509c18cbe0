package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/neuracontrol/pkg/api/types"
	"github.com/urmzd/neuracontrol/pkg/db"
	"github.com/urmzd/neuracontrol/pkg/serial"
)

// PortTester opens and closes a serial port to check that it is usable.
type PortTester interface {
	TestPort(ctx context.Context, port string) error
}

// PortLister enumerates the host's serial ports.
type PortLister func() ([]serial.PortInfo, error)

// PortsHandler handles serial port discovery and connection tests
type PortsHandler struct {
	tester     PortTester
	lister     PortLister
	settings   db.SettingStore
	configured string
}

// NewPortsHandler creates a new ports handler. A nil lister uses the host's
// port enumerator.
func NewPortsHandler(tester PortTester, lister PortLister, settings db.SettingStore, configured string) *PortsHandler {
	if lister == nil {
		lister = serial.ListPortDetails
	}
	return &PortsHandler{tester: tester, lister: lister, settings: settings, configured: configured}
}

// ListPorts handles GET /ports
// @Summary      List serial ports
// @Description  Returns the serial ports on the host, the configured port and the last port that passed a connection test
// @Tags         serial
// @Produce      json
// @Success      200  {object}  types.PortsResponse
// @Failure      500  {object}  types.ErrorResponse  "Enumeration failed"
// @Router       /ports [get]
func (h *PortsHandler) ListPorts(c *gin.Context) {
	ports, err := h.lister()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "enumeration_error", err.Error())
		return
	}

	out := make([]types.PortInfo, 0, len(ports))
	for _, p := range ports {
		out = append(out, types.PortInfo{
			Name:    p.Name,
			IsUSB:   p.IsUSB,
			VID:     p.VID,
			PID:     p.PID,
			Product: p.Product,
		})
	}

	resp := types.PortsResponse{Ports: out, Configured: h.configured}
	selected, err := h.settings.Get(c.Request.Context(), db.SettingSelectedPort)
	if err == nil {
		resp.Selected = selected
	} else if !errors.Is(err, db.ErrSettingNotFound) {
		log.Warn().Err(err).Msg("Failed to read selected port")
	}

	c.JSON(http.StatusOK, resp)
}

// TestConnection handles POST /connection/test
// @Summary      Test a serial connection
// @Description  Opens and closes the port, waiting for the board to settle. Defaults to the configured port.
// @Tags         serial
// @Accept       json
// @Produce      json
// @Param        request  body      types.ConnectionTestRequest  false  "Port to test"
// @Success      200      {object}  types.ConnectionTestResponse
// @Router       /connection/test [post]
func (h *PortsHandler) TestConnection(c *gin.Context) {
	var req types.ConnectionTestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
			return
		}
	}
	port := req.Port
	if port == "" {
		port = h.configured
	}

	ctx := c.Request.Context()
	resp := types.ConnectionTestResponse{Port: port}

	if err := h.tester.TestPort(ctx, port); err != nil {
		resp.Reason = "connection"
		var connErr *serial.ConnectionError
		if errors.As(err, &connErr) {
			resp.Reason = connErr.Reason()
		}
		resp.Message = err.Error()
		c.JSON(http.StatusOK, resp)
		return
	}

	resp.Connected = true
	resp.Message = "connection successful"
	if err := h.settings.Set(ctx, db.SettingSelectedPort, port); err != nil {
		log.Warn().Err(err).Str("port", port).Msg("Failed to remember selected port")
	}
	c.JSON(http.StatusOK, resp)
}
