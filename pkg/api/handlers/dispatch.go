package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/neuracontrol/pkg/api/types"
	"github.com/urmzd/neuracontrol/pkg/db"
	"github.com/urmzd/neuracontrol/pkg/dispatch"
	"github.com/urmzd/neuracontrol/pkg/llm"
)

// DispatchHandler handles natural-language dispatches
type DispatchHandler struct {
	orchestrator *dispatch.Orchestrator
	database     *db.DB
}

// NewDispatchHandler creates a new dispatch handler
func NewDispatchHandler(orchestrator *dispatch.Orchestrator, database *db.DB) *DispatchHandler {
	return &DispatchHandler{orchestrator: orchestrator, database: database}
}

// Dispatch handles POST /dispatch
// @Summary      Dispatch a prompt
// @Description  Sends the prompt to the language model, extracts device commands from its reply and sends the matching codes to the board
// @Tags         dispatch
// @Accept       json
// @Produce      json
// @Param        request  body      types.DispatchRequest    true  "Prompt"
// @Success      200      {object}  types.DispatchResponse
// @Failure      400      {object}  types.ErrorResponse      "Missing prompt"
// @Failure      502      {object}  types.DispatchResponse   "Language model error"
// @Router       /dispatch [post]
func (h *DispatchHandler) Dispatch(c *gin.Context) {
	var req types.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		abortWithError(c, http.StatusBadRequest, "invalid_request", "prompt is required")
		return
	}

	ctx := c.Request.Context()
	res, dispatchErr := h.orchestrator.Dispatch(ctx, req.Prompt)

	if err := h.database.Dispatches().Save(ctx, res, dispatchErr); err != nil {
		log.Error().Err(err).Str("dispatch", res.ID).Msg("Failed to save dispatch")
	}

	if dispatchErr != nil {
		status := http.StatusInternalServerError
		if errors.Is(dispatchErr, llm.ErrLLM) {
			status = http.StatusBadGateway
		}
		c.JSON(status, types.NewDispatchResponse(res, dispatchErr.Error()))
		return
	}

	if err := h.database.DeviceStates().Record(ctx, res.Outcomes); err != nil {
		log.Error().Err(err).Str("dispatch", res.ID).Msg("Failed to record device states")
	}

	c.JSON(http.StatusOK, types.NewDispatchResponse(res, ""))
}
