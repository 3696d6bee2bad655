package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aastu-sis/registration-api/internal/service"
	appErrors "github.com/aastu-sis/registration-api/pkg/errors"
	"github.com/aastu-sis/registration-api/pkg/response"
)

// GradeReportHandler exposes the grade report endpoints.
type GradeReportHandler struct {
	reports   *service.GradeReportService
	documents *service.DocumentService
}

// NewGradeReportHandler constructs GradeReportHandler.
func NewGradeReportHandler(reports *service.GradeReportService, documents *service.DocumentService) *GradeReportHandler {
	return &GradeReportHandler{reports: reports, documents: documents}
}

func reportIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid grade report id")
	}
	return id, nil
}

// Create godoc
// @Summary Create a grade report
// @Tags GradeReports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateGradeReportRequest true "Report payload"
// @Success 201 {object} response.Envelope
// @Router /grade-reports [post]
func (h *GradeReportHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateGradeReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	report, err := h.reports.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}

// Get godoc
// @Summary Fetch one grade report
// @Tags GradeReports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /grade-reports/{id} [get]
func (h *GradeReportHandler) Get(c *gin.Context) {
	id, err := reportIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// PDF godoc
// @Summary Download a grade report as PDF
// @Tags GradeReports
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Success 200 {file} binary
// @Router /grade-reports/{id}/pdf [get]
func (h *GradeReportHandler) PDF(c *gin.Context) {
	id, err := reportIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, err := h.documents.GradeReportPDF(*report)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="grade-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// Pending godoc
// @Summary List grade reports awaiting department head review
// @Tags GradeReports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /grade-reports/pending [get]
func (h *GradeReportHandler) Pending(c *gin.Context) {
	reports, err := h.reports.Pending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports)
}

// Approve godoc
// @Summary Approve or reject a grade report
// @Tags GradeReports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Param payload body service.ApproveGradeReportRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Router /grade-reports/{id}/approve [put]
func (h *GradeReportHandler) Approve(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := reportIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.ApproveGradeReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.reports.Approve(c.Request.Context(), id, claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}
