package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"bizledger/internal/errors"
	"bizledger/internal/model"
	"bizledger/internal/service"
)

// AttachmentHandler handles file attachment endpoints.
type AttachmentHandler struct {
	attachmentService service.AttachmentService
}

// NewAttachmentHandler creates a new attachment handler.
func NewAttachmentHandler(attachmentService service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// AttachmentResponse is an attachment record plus its download URL.
type AttachmentResponse struct {
	model.Attachment
	URL string `json:"url"`
}

func ownerFromQuery(c echo.Context) (model.RelatedType, uuid.UUID, error) {
	relatedType := model.RelatedType(c.QueryParam("related_type"))
	if !model.ValidRelatedType(relatedType) {
		return "", uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "related_type must be one of client, project, service, task",
			Code:  "INVALID_RELATED_TYPE",
		})
	}
	relatedID, err := uuid.Parse(c.QueryParam("related_id"))
	if err != nil {
		return "", uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid related_id",
			Code:  "INVALID_UUID",
		})
	}
	return relatedType, relatedID, nil
}

// Upload godoc
// @Summary Upload an attachment
// @Description Accepts a multipart file and associates it with the owning
// @Description entity given by the related_type and related_id form fields.
// @Tags attachments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Param related_type formData string true "Owner type (client, project, service, task)"
// @Param related_id formData string true "Owner ID"
// @Success 201 {object} AttachmentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /attachments [post]
func (h *AttachmentHandler) Upload(c echo.Context) error {
	relatedType := model.RelatedType(c.FormValue("related_type"))
	if !model.ValidRelatedType(relatedType) {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "related_type must be one of client, project, service, task",
			Code:  "INVALID_RELATED_TYPE",
		})
	}
	relatedID, err := uuid.Parse(c.FormValue("related_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid related_id",
			Code:  "INVALID_UUID",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "missing file",
			Code:  "MISSING_FILE",
		})
	}

	attachment, url, err := h.attachmentService.Upload(c.Request().Context(), relatedType, relatedID, fileHeader)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, AttachmentResponse{Attachment: *attachment, URL: url})
}

// List godoc
// @Summary List an entity's attachments
// @Tags attachments
// @Produce json
// @Security BearerAuth
// @Param related_type query string true "Owner type (client, project, service, task)"
// @Param related_id query string true "Owner ID"
// @Success 200 {array} AttachmentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /attachments [get]
func (h *AttachmentHandler) List(c echo.Context) error {
	relatedType, relatedID, err := ownerFromQuery(c)
	if err != nil {
		return err
	}

	attachments := h.attachmentService.ListByOwner(c.Request().Context(), relatedType, relatedID)
	out := make([]AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		out = append(out, AttachmentResponse{
			Attachment: attachments[i],
			URL:        h.attachmentService.PublicURL(&attachments[i]),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Delete godoc
// @Summary Delete an attachment
// @Description Removes the record and the stored file.
// @Tags attachments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attachment ID"
// @Success 204 "deleted"
// @Failure 404 {object} errors.ErrorResponse
// @Router /attachments/{id} [delete]
func (h *AttachmentHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.attachmentService.Delete(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}
