package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorhive/tutorhive-api/internal/service"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
	"github.com/tutorhive/tutorhive-api/pkg/response"
)

// AvailabilityHandler exposes tutor schedule endpoints.
type AvailabilityHandler struct {
	availabilities *service.AvailabilityService
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(availabilities *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilities: availabilities}
}

// List godoc
// @Summary List a tutor's availability windows
// @Tags Availability
// @Produce json
// @Param id path string true "Tutor id"
// @Success 200 {object} response.Envelope
// @Router /tutors/{id}/availabilities [get]
func (h *AvailabilityHandler) List(c *gin.Context) {
	windows, err := h.availabilities.ListByTutor(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, windows, nil)
}

// Replace godoc
// @Summary Replace a tutor's weekly schedule
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Tutor id"
// @Param payload body service.ReplaceAvailabilityRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tutors/{id}/availabilities [put]
func (h *AvailabilityHandler) Replace(c *gin.Context) {
	var req service.ReplaceAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	windows, err := h.availabilities.Replace(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, windows, nil)
}
