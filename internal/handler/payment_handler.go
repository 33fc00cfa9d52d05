package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"bizledger/internal/errors"
	"bizledger/internal/model"
	"bizledger/internal/service"
)

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePaymentRequest represents a payment creation request.
type CreatePaymentRequest struct {
	ClientID      string `json:"client_id" validate:"required,uuid"`
	ServiceID     string `json:"service_id" validate:"required,uuid"`
	Amount        string `json:"amount" validate:"required"`
	DueDate       string `json:"due_date" validate:"required"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

// UpdatePaymentRequest carries the editable payment fields. Status and
// payment date are not accepted here; use the pay endpoint.
type UpdatePaymentRequest struct {
	Amount        *string `json:"amount"`
	DueDate       *string `json:"due_date"`
	PaymentMethod *string `json:"payment_method"`
	Notes         *string `json:"notes"`
}

// MarkPaidRequest represents a mark-as-paid request.
type MarkPaidRequest struct {
	PaymentDate *string `json:"payment_date"`
}

// ReconcileResponse reports the outcome of an overdue sweep.
type ReconcileResponse struct {
	Promoted int64 `json:"promoted"`
}

// Create godoc
// @Summary Create a payment
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePaymentRequest true "Payment data"
// @Success 201 {object} model.Payment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /payments [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	clientID, _ := uuid.Parse(req.ClientID)
	serviceID, _ := uuid.Parse(req.ServiceID)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid amount",
			Code:  "INVALID_AMOUNT",
		})
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid due_date, expected YYYY-MM-DD",
			Code:  "INVALID_DATE",
		})
	}

	payment := &model.Payment{
		ClientID:      clientID,
		ServiceID:     serviceID,
		Amount:        amount,
		DueDate:       dueDate,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	if err := h.paymentService.Create(c.Request().Context(), payment); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, payment)
}

// List godoc
// @Summary List payments
// @Description Optionally filter by client_id, service_id or status query
// @Description parameters. The status filter uses the effective status, so a
// @Description pending payment past its due date matches status=overdue.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param client_id query string false "Filter by client"
// @Param service_id query string false "Filter by service"
// @Param status query string false "Filter by effective status (pending, paid, overdue)"
// @Success 200 {array} model.Payment
// @Failure 401 {object} errors.ErrorResponse
// @Router /payments [get]
func (h *PaymentHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var payments []model.Payment
	switch {
	case c.QueryParam("client_id") != "":
		clientID, err := uuid.Parse(c.QueryParam("client_id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid client_id",
				Code:  "INVALID_UUID",
			})
		}
		payments = h.paymentService.ListByClient(ctx, clientID)
	case c.QueryParam("service_id") != "":
		serviceID, err := uuid.Parse(c.QueryParam("service_id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid service_id",
				Code:  "INVALID_UUID",
			})
		}
		payments = h.paymentService.ListByService(ctx, serviceID)
	default:
		payments = h.paymentService.List(ctx)
	}

	if v := c.QueryParam("status"); v != "" {
		status := model.PaymentStatus(v)
		switch status {
		case model.PaymentStatusPending, model.PaymentStatusPaid, model.PaymentStatusOverdue:
		default:
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "status must be one of pending, paid, overdue",
				Code:  "INVALID_STATUS",
			})
		}
		today := time.Now()
		filtered := make([]model.Payment, 0, len(payments))
		for _, p := range payments {
			if p.AuthoritativeStatus(today) == status {
				filtered = append(filtered, p)
			}
		}
		payments = filtered
	}

	return c.JSON(http.StatusOK, payments)
}

// Get godoc
// @Summary Get a payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} model.Payment
// @Failure 404 {object} errors.ErrorResponse
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	payment, err := h.paymentService.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, payment)
}

// Update godoc
// @Summary Update a payment's editable fields
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param request body UpdatePaymentRequest true "Fields to update"
// @Success 200 {object} model.Payment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /payments/{id} [put]
func (h *PaymentHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req UpdatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	var update service.PaymentUpdate
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid amount",
				Code:  "INVALID_AMOUNT",
			})
		}
		update.Amount = &amount
	}
	if req.DueDate != nil {
		dueDate, err := parseDate(*req.DueDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid due_date, expected YYYY-MM-DD",
				Code:  "INVALID_DATE",
			})
		}
		update.DueDate = &dueDate
	}
	update.PaymentMethod = req.PaymentMethod
	update.Notes = req.Notes

	payment, err := h.paymentService.Update(c.Request().Context(), id, update)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, payment)
}

// Delete godoc
// @Summary Delete a payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 204 "deleted"
// @Failure 404 {object} errors.ErrorResponse
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.paymentService.Delete(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkPaid godoc
// @Summary Mark a payment as paid
// @Description Allowed from pending or overdue. Payment date defaults to today.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param request body MarkPaidRequest false "Optional payment date"
// @Success 200 {object} model.Payment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /payments/{id}/pay [post]
func (h *PaymentHandler) MarkPaid(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req MarkPaidRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	var paymentDate *time.Time
	if req.PaymentDate != nil {
		parsed, err := parseDate(*req.PaymentDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid payment_date, expected YYYY-MM-DD",
				Code:  "INVALID_DATE",
			})
		}
		paymentDate = &parsed
	}

	payment, err := h.paymentService.MarkAsPaid(c.Request().Context(), id, paymentDate)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, payment)
}

// Reconcile godoc
// @Summary Run the overdue reconciliation sweep
// @Description Promotes every pending payment past its due date to overdue.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ReconcileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /payments/reconcile [post]
func (h *PaymentHandler) Reconcile(c echo.Context) error {
	promoted, err := h.paymentService.PromoteOverduePayments(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, ReconcileResponse{Promoted: promoted})
}

// Summary godoc
// @Summary Get the financial summary
// @Description Recomputed from the full payment set on every request.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.FinancialSummary
// @Failure 401 {object} errors.ErrorResponse
// @Router /payments/summary [get]
func (h *PaymentHandler) Summary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.paymentService.Summary(c.Request().Context()))
}
