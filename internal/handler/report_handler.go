package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"bizledger/internal/errors"
	"bizledger/internal/service"
)

// ReportHandler serves financial reporting endpoints.
type ReportHandler struct {
	paymentService service.PaymentService
	reportService  service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(paymentService service.PaymentService, reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		paymentService: paymentService,
		reportService:  reportService,
	}
}

// Summary godoc
// @Summary Financial summary
// @Description Totals received, expected and overdue across all payments.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.FinancialSummary
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.paymentService.Summary(c.Request().Context()))
}

// Monthly godoc
// @Summary Monthly revenue series
// @Description Twelve buckets for the requested year, defaulting to the
// @Description current year. Months without activity are zero-filled.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year (defaults to current)"
// @Success 200 {array} service.MonthlyBucket
// @Failure 400 {object} errors.ErrorResponse
// @Router /reports/monthly [get]
func (h *ReportHandler) Monthly(c echo.Context) error {
	year := time.Now().Year()
	if v := c.QueryParam("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1970 || parsed > 9999 {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid year",
				Code:  "INVALID_YEAR",
			})
		}
		year = parsed
	}
	return c.JSON(http.StatusOK, h.reportService.MonthlyRevenue(c.Request().Context(), year))
}

// StatusDistribution godoc
// @Summary Payment status distribution
// @Description Counts per effective status. Statuses with zero payments are
// @Description omitted.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.StatusCount
// @Router /reports/status-distribution [get]
func (h *ReportHandler) StatusDistribution(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reportService.StatusDistribution(c.Request().Context()))
}

// Upcoming godoc
// @Summary Upcoming payments
// @Description Unpaid payments due within the next 30 days, soonest first.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Payment
// @Router /reports/upcoming [get]
func (h *ReportHandler) Upcoming(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reportService.UpcomingPayments(c.Request().Context()))
}
