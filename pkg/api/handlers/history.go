package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/neuracontrol/pkg/api/types"
	"github.com/urmzd/neuracontrol/pkg/db"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// HistoryHandler serves the dispatch history
type HistoryHandler struct {
	dispatches db.DispatchStore
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(dispatches db.DispatchStore) *HistoryHandler {
	return &HistoryHandler{dispatches: dispatches}
}

// ListHistory handles GET /history
// @Summary      List dispatch history
// @Description  Returns recent dispatches, newest first
// @Tags         history
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of dispatches (default 20, max 200)"
// @Success      200    {object}  types.HistoryResponse
// @Failure      400    {object}  types.ErrorResponse  "Invalid limit"
// @Failure      500    {object}  types.ErrorResponse  "Storage error"
// @Router       /history [get]
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			abortWithError(c, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	ctx := c.Request.Context()
	records, err := h.dispatches.Recent(ctx, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	total, err := h.dispatches.Count(ctx)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}

	out := make([]types.DispatchResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, types.NewDispatchResponse(rec.Result, rec.Err))
	}

	c.JSON(http.StatusOK, types.HistoryResponse{
		Dispatches: out,
		Count:      len(out),
		Total:      total,
	})
}

// GetDispatch handles GET /history/:id
// @Summary      Get a dispatch
// @Tags         history
// @Produce      json
// @Param        id   path      string  true  "Dispatch id"
// @Success      200  {object}  types.DispatchResponse
// @Failure      404  {object}  types.ErrorResponse  "Dispatch not found"
// @Router       /history/{id} [get]
func (h *HistoryHandler) GetDispatch(c *gin.Context) {
	rec, err := h.dispatches.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrDispatchNotFound) {
			abortWithError(c, http.StatusNotFound, "not_found", "Dispatch not found")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	c.JSON(http.StatusOK, types.NewDispatchResponse(rec.Result, rec.Err))
}

// ClearHistory handles DELETE /history
// @Summary      Clear dispatch history
// @Tags         history
// @Success      204
// @Failure      500  {object}  types.ErrorResponse  "Storage error"
// @Router       /history [delete]
func (h *HistoryHandler) ClearHistory(c *gin.Context) {
	if err := h.dispatches.Clear(c.Request.Context()); err != nil {
		abortWithError(c, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
