package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"bizledger/internal/errors"
)

// dateLayout is the wire format for date-only fields.
const dateLayout = "2006-01-02"

// parseIDParam parses the :id route parameter as a UUID.
func parseIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid id",
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}

// parseDate parses a date-only value, normalized to UTC midnight.
func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
