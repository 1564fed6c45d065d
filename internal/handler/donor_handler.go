package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vbbs/blood-bank-api/internal/models"
	"github.com/vbbs/blood-bank-api/internal/service"
	appErrors "github.com/vbbs/blood-bank-api/pkg/errors"
	"github.com/vbbs/blood-bank-api/pkg/response"
)

// DonorHandler exposes donor directory endpoints.
type DonorHandler struct {
	donors *service.DonorService
}

// NewDonorHandler constructs DonorHandler.
func NewDonorHandler(donors *service.DonorService) *DonorHandler {
	return &DonorHandler{donors: donors}
}

// Register godoc
// @Summary Register a donor
// @Tags Donors
// @Accept json
// @Produce json
// @Param payload body service.RegisterDonorRequest true "Donor payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /donors [post]
func (h *DonorHandler) Register(c *gin.Context) {
	var req service.RegisterDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	donor, err := h.donors.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, donor)
}

// List godoc
// @Summary List all donors
// @Tags Donors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /donors [get]
func (h *DonorHandler) List(c *gin.Context) {
	donors, err := h.donors.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donors)
}

// ListByGroup godoc
// @Summary List donors by blood group
// @Tags Donors
// @Produce json
// @Param group path string true "Blood group"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /donors/group/{group} [get]
func (h *DonorHandler) ListByGroup(c *gin.Context) {
	group := models.BloodGroup(c.Param("group"))
	donors, err := h.donors.ListByGroup(c.Request.Context(), group)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donors)
}

// SetAvailability godoc
// @Summary Update donor availability
// @Tags Donors
// @Accept json
// @Produce json
// @Param id path string true "Donor ID"
// @Param payload body service.SetAvailabilityRequest true "Availability payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /donors/{id}/availability [patch]
func (h *DonorHandler) SetAvailability(c *gin.Context) {
	var req service.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	donor, err := h.donors.SetAvailability(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donor)
}
