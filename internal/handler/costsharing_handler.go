package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aastu-sis/registration-api/internal/service"
	appErrors "github.com/aastu-sis/registration-api/pkg/errors"
	"github.com/aastu-sis/registration-api/pkg/response"
)

// CostSharingHandler exposes the cost-sharing form endpoints.
type CostSharingHandler struct {
	costSharing *service.CostSharingService
}

// NewCostSharingHandler constructs CostSharingHandler.
func NewCostSharingHandler(costSharing *service.CostSharingService) *CostSharingHandler {
	return &CostSharingHandler{costSharing: costSharing}
}

// Submit godoc
// @Summary Submit a completed cost-sharing form
// @Tags CostSharing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.SubmitCostSharingRequest true "Form payload"
// @Success 200 {object} response.Envelope
// @Router /cost-sharing [post]
func (h *CostSharingHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SubmitCostSharingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	form, err := h.costSharing.Submit(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form)
}

// FormForSlip godoc
// @Summary Fetch the cost-sharing form attached to a slip
// @Tags CostSharing
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slip ID"
// @Success 200 {object} response.Envelope
// @Router /registrations/{id}/cost-sharing [get]
func (h *CostSharingHandler) FormForSlip(c *gin.Context) {
	slipID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid slip id"))
		return
	}

	form, err := h.costSharing.FormForSlip(c.Request.Context(), slipID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form)
}

// Verify godoc
// @Summary Verify a cost-sharing form
// @Tags CostSharing
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 200 {object} response.Envelope
// @Router /cost-sharing/{id}/verify [put]
func (h *CostSharingHandler) Verify(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	formID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid form id"))
		return
	}

	if err := h.costSharing.Verify(c.Request.Context(), formID, claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
