package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aastu-sis/registration-api/internal/service"
	appErrors "github.com/aastu-sis/registration-api/pkg/errors"
	"github.com/aastu-sis/registration-api/pkg/response"
)

// RegistrationHandler exposes the registration slip workflow endpoints.
type RegistrationHandler struct {
	registrations *service.RegistrationService
	documents     *service.DocumentService
}

// NewRegistrationHandler constructs RegistrationHandler.
func NewRegistrationHandler(registrations *service.RegistrationService, documents *service.DocumentService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, documents: documents}
}

type rejectRequest struct {
	Comment string `json:"comment" binding:"required"`
}

type approveRequest struct {
	Comment *string `json:"comment"`
}

func slipIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid slip id")
	}
	return id, nil
}

// Create godoc
// @Summary Open a registration slip for a student
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateSlipRequest true "Slip payload"
// @Success 201 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateSlipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	slip, err := h.registrations.CreateSlip(c.Request.Context(), claims.Actor(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slip)
}

// Get godoc
// @Summary Fetch one registration slip
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slip ID"
// @Success 200 {object} response.Envelope
// @Router /registrations/{id} [get]
func (h *RegistrationHandler) Get(c *gin.Context) {
	id, err := slipIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	slip, err := h.registrations.GetSlip(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slip)
}

// PDF godoc
// @Summary Download a registration slip as PDF
// @Tags Registrations
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "Slip ID"
// @Success 200 {file} binary
// @Router /registrations/{id}/pdf [get]
func (h *RegistrationHandler) PDF(c *gin.Context) {
	id, err := slipIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	slip, err := h.registrations.GetSlip(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, err := h.documents.SlipPDF(*slip)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="registration-slip.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// Pending godoc
// @Summary List slips awaiting the caller's role
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /registrations/pending [get]
func (h *RegistrationHandler) Pending(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	slips, err := h.registrations.PendingForRole(c.Request.Context(), claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slips)
}

// StudentHistory godoc
// @Summary List a student's registration slips
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{studentId}/registrations [get]
func (h *RegistrationHandler) StudentHistory(c *gin.Context) {
	slips, err := h.registrations.StudentSlips(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slips)
}

// Approve godoc
// @Summary Approve a slip as advisor
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slip ID"
// @Param payload body approveRequest false "Optional comment"
// @Success 200 {object} response.Envelope
// @Router /registrations/{id}/approve [put]
func (h *RegistrationHandler) Approve(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := slipIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req approveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}

	if err := h.registrations.Approve(c.Request.Context(), id, claims.UserID, req.Comment); err != nil {
		response.Error(c, err)
		return
	}
	slip, err := h.registrations.GetSlip(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slip)
}

// Reject godoc
// @Summary Reject a slip as advisor
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slip ID"
// @Param payload body rejectRequest true "Rejection reason"
// @Success 200 {object} response.Envelope
// @Router /registrations/{id}/reject [put]
func (h *RegistrationHandler) Reject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := slipIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "rejection requires a comment"))
		return
	}

	if err := h.registrations.Reject(c.Request.Context(), id, claims.UserID, req.Comment); err != nil {
		response.Error(c, err)
		return
	}
	slip, err := h.registrations.GetSlip(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slip)
}

// Verify godoc
// @Summary Verify cost sharing for a slip
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slip ID"
// @Success 200 {object} response.Envelope
// @Router /registrations/{id}/verify [put]
func (h *RegistrationHandler) Verify(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := slipIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.registrations.VerifyCostSharing(c.Request.Context(), id, claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	slip, err := h.registrations.GetSlip(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slip)
}

// Finalize godoc
// @Summary Finalize a slip as registrar
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slip ID"
// @Success 200 {object} response.Envelope
// @Router /registrations/{id}/finalize [put]
func (h *RegistrationHandler) Finalize(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := slipIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.registrations.Finalize(c.Request.Context(), id, claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	slip, err := h.registrations.GetSlip(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slip)
}
