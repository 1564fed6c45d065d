package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vbbs/blood-bank-api/internal/service"
	"github.com/vbbs/blood-bank-api/pkg/response"
)

// ReportHandler serves rendered admin reports.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Donors godoc
// @Summary Download the donor roster
// @Tags Reports
// @Produce application/pdf
// @Param format query string false "pdf or csv" default(pdf)
// @Success 200 {file} binary
// @Router /reports/donors [get]
func (h *ReportHandler) Donors(c *gin.Context) {
	h.serve(c, func(format service.ReportFormat) (*service.Report, error) {
		return h.reports.DonorRoster(c.Request.Context(), format)
	})
}

// Inventory godoc
// @Summary Download the inventory report
// @Tags Reports
// @Produce application/pdf
// @Param format query string false "pdf or csv" default(pdf)
// @Success 200 {file} binary
// @Router /reports/inventory [get]
func (h *ReportHandler) Inventory(c *gin.Context) {
	h.serve(c, func(format service.ReportFormat) (*service.Report, error) {
		return h.reports.InventoryReport(c.Request.Context(), format)
	})
}

func (h *ReportHandler) serve(c *gin.Context, render func(service.ReportFormat) (*service.Report, error)) {
	format := service.ReportFormat(c.DefaultQuery("format", string(service.FormatPDF)))

	report, err := render(format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	c.Data(http.StatusOK, report.ContentType, report.Body)
}
