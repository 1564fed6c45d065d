package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vbbs/blood-bank-api/internal/service"
	appErrors "github.com/vbbs/blood-bank-api/pkg/errors"
	"github.com/vbbs/blood-bank-api/pkg/response"
)

// InventoryHandler exposes the stock ledger endpoints.
type InventoryHandler struct {
	inventory *service.InventoryService
}

// NewInventoryHandler constructs InventoryHandler.
func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// List godoc
// @Summary List blood inventory
// @Tags Inventory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	rows, err := h.inventory.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

// Restock godoc
// @Summary Add units to a blood group
// @Tags Inventory
// @Accept json
// @Produce json
// @Param payload body service.StockChangeRequest true "Restock payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /inventory/restock [post]
func (h *InventoryHandler) Restock(c *gin.Context) {
	var req service.StockChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	inv, err := h.inventory.Restock(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inv)
}

// Deduct godoc
// @Summary Remove units from a blood group
// @Tags Inventory
// @Accept json
// @Produce json
// @Param payload body service.StockChangeRequest true "Deduction payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /inventory/deduct [post]
func (h *InventoryHandler) Deduct(c *gin.Context) {
	var req service.StockChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	inv, err := h.inventory.Deduct(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inv)
}
