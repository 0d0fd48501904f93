package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorhive/tutorhive-api/internal/middleware"
	"github.com/tutorhive/tutorhive-api/internal/service"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
	"github.com/tutorhive/tutorhive-api/pkg/response"
)

// Cancellation outcome messages, part of the delete contract.
const (
	MsgCanceledNotified     = "Lesson canceled and email sent successfully."
	MsgCanceledNotifyFailed = "Lesson canceled but email sending failed."
)

// BookingHandler exposes the lesson booking endpoints. Unlike the rest of
// the API these return the booking form's flat contract ({success}, {queued,
// position}, {errors}) rather than the response envelope.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler constructs handler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create godoc
// @Summary Book a lesson
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body service.CreateBookingRequest true "Booking payload"
// @Success 200 {object} map[string]bool
// @Success 202 {object} service.BookingResult
// @Failure 400 {object} map[string][]string
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"invalid payload"}})
		return
	}

	result, err := h.bookings.Create(c.Request.Context(), actor, req)
	if err != nil {
		bookingError(c, err)
		return
	}
	if result.Queued {
		c.JSON(http.StatusAccepted, gin.H{"queued": true, "position": result.Position})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Modify godoc
// @Summary Reschedule a lesson
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Lesson id"
// @Param payload body service.ModifyBookingRequest true "Booking payload"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string][]string
// @Router /bookings/{id} [put]
func (h *BookingHandler) Modify(c *gin.Context) {
	var req service.ModifyBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"invalid payload"}})
		return
	}

	if _, err := h.bookings.Modify(c.Request.Context(), c.Param("id"), req); err != nil {
		bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Delete godoc
// @Summary Cancel a lesson
// @Tags Bookings
// @Produce json
// @Param id path string true "Lesson id"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Delete(c *gin.Context) {
	result, err := h.bookings.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		bookingError(c, err)
		return
	}

	// The lesson is gone either way; a failed notification only downgrades
	// the reported outcome.
	if !result.Notified {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": MsgCanceledNotifyFailed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": MsgCanceledNotified})
}

func bookingError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, gin.H{"errors": []string{appErr.Message}})
}
