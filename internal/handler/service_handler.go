package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"bizledger/internal/errors"
	"bizledger/internal/model"
	"bizledger/internal/service"
)

// ServiceHandler handles contracted-service endpoints.
type ServiceHandler struct {
	clientService service.ClientService
}

// NewServiceHandler creates a new service handler.
func NewServiceHandler(clientService service.ClientService) *ServiceHandler {
	return &ServiceHandler{clientService: clientService}
}

// ServiceRequest represents a service create/update payload.
type ServiceRequest struct {
	ClientID    string `json:"client_id" validate:"required,uuid"`
	ServiceType string `json:"service_type" validate:"required"`
	Price       string `json:"price" validate:"required"`
	AccessLink  string `json:"access_link"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive pending"`
}

func (r *ServiceRequest) toModel() (*model.Service, error) {
	clientID, _ := uuid.Parse(r.ClientID)
	price, err := decimal.NewFromString(r.Price)
	if err != nil || price.IsNegative() {
		return nil, errors.ErrInvalidAmount
	}
	return &model.Service{
		ClientID:    clientID,
		ServiceType: r.ServiceType,
		Price:       price,
		AccessLink:  r.AccessLink,
		Username:    r.Username,
		Password:    r.Password,
		Status:      model.ServiceStatus(r.Status),
	}, nil
}

// Create godoc
// @Summary Create a service
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ServiceRequest true "Service data"
// @Success 201 {object} model.Service
// @Failure 400 {object} errors.ErrorResponse
// @Router /services [post]
func (h *ServiceHandler) Create(c echo.Context) error {
	var req ServiceRequest
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

	svc, err := req.toModel()
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if err := h.clientService.CreateService(c.Request().Context(), svc); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, svc)
}

// List godoc
// @Summary List services
// @Tags services
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Service
// @Router /services [get]
func (h *ServiceHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.clientService.ListServices(c.Request().Context()))
}

// Get godoc
// @Summary Get a service
// @Tags services
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Success 200 {object} model.Service
// @Failure 404 {object} errors.ErrorResponse
// @Router /services/{id} [get]
func (h *ServiceHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	svc, err := h.clientService.GetService(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, svc)
}

// Update godoc
// @Summary Update a service
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Param request body ServiceRequest true "Service data"
// @Success 200 {object} model.Service
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /services/{id} [put]
func (h *ServiceHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req ServiceRequest
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

	existing, err := h.clientService.GetService(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	updated, err := req.toModel()
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if updated.Status == "" {
		updated.Status = existing.Status
	}

	if err := h.clientService.UpdateService(c.Request().Context(), updated); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete a service
// @Tags services
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Success 204 "deleted"
// @Failure 404 {object} errors.ErrorResponse
// @Router /services/{id} [delete]
func (h *ServiceHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.clientService.DeleteService(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}
