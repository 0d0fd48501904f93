package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tutorhive/tutorhive-api/internal/models"
	"github.com/tutorhive/tutorhive-api/internal/service"
	"github.com/tutorhive/tutorhive-api/pkg/response"
)

// TutorHandler exposes the tutor directory endpoints.
type TutorHandler struct {
	tutors  *service.TutorService
	lessons *service.LessonService
	reviews *service.ReviewService
}

// NewTutorHandler constructs handler.
func NewTutorHandler(tutors *service.TutorService, lessons *service.LessonService, reviews *service.ReviewService) *TutorHandler {
	return &TutorHandler{tutors: tutors, lessons: lessons, reviews: reviews}
}

// List godoc
// @Summary List top-rated tutors
// @Tags Tutors
// @Produce json
// @Param limit query int false "Max tutors"
// @Success 200 {object} response.Envelope
// @Router /tutors [get]
func (h *TutorHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	tutors, err := h.tutors.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tutors, nil)
}

// Search godoc
// @Summary Search tutors
// @Tags Tutors
// @Produce json
// @Param subject_id query string false "Subject id"
// @Param min_rate query number false "Minimum hourly rate"
// @Param max_rate query number false "Maximum hourly rate"
// @Param location query string false "Location substring"
// @Param min_rating query number false "Minimum average rating"
// @Param min_experience query int false "Minimum years of experience"
// @Param day query string false "Available on weekday"
// @Param from query string false "Available from (HH:MM)"
// @Param to query string false "Available to (HH:MM)"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /tutors/search [get]
func (h *TutorHandler) Search(c *gin.Context) {
	filter := models.TutorFilter{
		SubjectID:      c.Query("subject_id"),
		Location:       c.Query("location"),
		AvailableOnDay: c.Query("day"),
		AvailableFrom:  c.Query("from"),
		AvailableTo:    c.Query("to"),
	}
	if v, err := strconv.ParseFloat(c.Query("min_rate"), 64); err == nil {
		filter.MinHourlyRate = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_rate"), 64); err == nil {
		filter.MaxHourlyRate = &v
	}
	if v, err := strconv.ParseFloat(c.Query("min_rating"), 64); err == nil {
		filter.MinRating = &v
	}
	if v, err := strconv.Atoi(c.Query("min_experience")); err == nil {
		filter.MinExperience = &v
	}
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.PageSize, _ = strconv.Atoi(c.Query("page_size"))

	result, err := h.tutors.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Tutors, &result.Pagination)
}

// Get godoc
// @Summary Get a tutor profile
// @Tags Tutors
// @Produce json
// @Param id path string true "Tutor id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tutors/{id} [get]
func (h *TutorHandler) Get(c *gin.Context) {
	profile, err := h.tutors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Lessons godoc
// @Summary List a tutor's lessons
// @Tags Tutors
// @Produce json
// @Param id path string true "Tutor id"
// @Success 200 {object} response.Envelope
// @Router /tutors/{id}/lessons [get]
func (h *TutorHandler) Lessons(c *gin.Context) {
	actor, _ := middlewareUser(c)
	lessons, err := h.lessons.ListForUser(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, nil)
}

// Reviews godoc
// @Summary List a tutor's reviews
// @Tags Tutors
// @Produce json
// @Param id path string true "Tutor id"
// @Success 200 {object} response.Envelope
// @Router /tutors/{id}/reviews [get]
func (h *TutorHandler) Reviews(c *gin.Context) {
	reviews, err := h.reviews.ListByTutor(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reviews, nil)
}
