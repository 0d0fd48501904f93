package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/middleware"
	"github.com/tutorhive/tutorhive-api/internal/models"
	"github.com/tutorhive/tutorhive-api/internal/service"
)

type stubLessonRepo struct {
	lessons  map[string]*models.Lesson
	conflict *models.Lesson
}

func (s *stubLessonRepo) FindByID(_ context.Context, id string) (*models.Lesson, error) {
	if l, ok := s.lessons[id]; ok {
		return l, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubLessonRepo) CreateIfFree(_ context.Context, lesson *models.Lesson) (*models.Lesson, error) {
	if s.conflict != nil {
		return s.conflict, nil
	}
	lesson.ID = "lesson-new"
	lesson.Status = models.LessonBooked
	return nil, nil
}

func (s *stubLessonRepo) UpdateIfFree(_ context.Context, lesson *models.Lesson) (*models.Lesson, error) {
	if s.conflict != nil {
		return s.conflict, nil
	}
	return nil, nil
}

func (s *stubLessonRepo) Delete(_ context.Context, id string) error {
	delete(s.lessons, id)
	return nil
}

type stubAvailabilityRepo struct{}

func (stubAvailabilityRepo) FindWindow(_ context.Context, _, _, _, _ string) (*models.TutorAvailability, error) {
	return &models.TutorAvailability{StartTime: "09:00", EndTime: "17:00", IsAvailable: true}, nil
}

type stubTutorRepo struct{}

func (stubTutorRepo) FindByID(_ context.Context, id string) (*models.Tutor, error) {
	return &models.Tutor{ID: id, UserID: "user-t1", FullName: "Tina Tutor", Email: "tina@example.com"}, nil
}

type stubUserRepo struct{}

func (stubUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	return &models.User{ID: id, FullName: "Sam Student", Email: "sam@example.com"}, nil
}

type stubWaitlist struct {
	position int
	queued   []string
}

func (s *stubWaitlist) Enqueue(_ context.Context, _ models.Slot, contactID string) (int, error) {
	s.queued = append(s.queued, contactID)
	if s.position > 0 {
		return s.position, nil
	}
	return len(s.queued), nil
}

func (s *stubWaitlist) DequeueNext(_ context.Context, _ models.Slot) (string, error) {
	return "", nil
}

type stubNotifier struct {
	failSync bool
}

func (s *stubNotifier) Send(_ context.Context, _, _ string, _ []string) error {
	if s.failSync {
		return errors.New("smtp unreachable")
	}
	return nil
}

func (s *stubNotifier) SendAsync(_, _ string, _ []string) {}

type bookingRouterFixture struct {
	router   *gin.Engine
	lessons  *stubLessonRepo
	waitlist *stubWaitlist
	notifier *stubNotifier
}

func newBookingRouter(t *testing.T) *bookingRouterFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &bookingRouterFixture{
		lessons:  &stubLessonRepo{lessons: map[string]*models.Lesson{}},
		waitlist: &stubWaitlist{},
		notifier: &stubNotifier{},
	}

	svc := service.NewBookingService(f.lessons, stubAvailabilityRepo{}, stubTutorRepo{}, stubUserRepo{}, f.waitlist, f.notifier, nil, nil, zap.NewNop())
	h := NewBookingHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, models.UserInfo{
			ID: "student-1", Email: "sam@example.com", FullName: "Sam Student", Role: models.RoleStudent,
		})
	})
	router.POST("/bookings", h.Create)
	router.PUT("/bookings/:id", h.Modify)
	router.DELETE("/bookings/:id", h.Delete)
	f.router = router
	return f
}

func performRequest(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func bookingPayload() []byte {
	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	payload, _ := json.Marshal(map[string]string{
		"tutor_id":     "tutor-1",
		"subject_id":   "subject-1",
		"booking_date": date,
		"start_time":   "10:00",
		"end_time":     "11:00",
	})
	return payload
}

func TestCreateBookingEndpoint_Success(t *testing.T) {
	f := newBookingRouter(t)

	resp := performRequest(f.router, http.MethodPost, "/bookings", bookingPayload())
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"success":true}`, resp.Body.String())
}

func TestCreateBookingEndpoint_ConflictQueues(t *testing.T) {
	f := newBookingRouter(t)
	f.lessons.conflict = &models.Lesson{ID: "lesson-taken"}
	f.waitlist.position = 2

	resp := performRequest(f.router, http.MethodPost, "/bookings", bookingPayload())
	require.Equal(t, http.StatusAccepted, resp.Code)
	assert.JSONEq(t, `{"queued":true,"position":2}`, resp.Body.String())
}

func TestCreateBookingEndpoint_PastDate(t *testing.T) {
	f := newBookingRouter(t)

	payload, _ := json.Marshal(map[string]string{
		"tutor_id":     "tutor-1",
		"subject_id":   "subject-1",
		"booking_date": "2020-01-01",
		"start_time":   "10:00",
		"end_time":     "11:00",
	})
	resp := performRequest(f.router, http.MethodPost, "/bookings", payload)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var body struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, service.MsgPastDate, body.Errors[0])
}

func TestModifyBookingEndpoint_Conflict(t *testing.T) {
	f := newBookingRouter(t)
	f.lessons.lessons["lesson-1"] = &models.Lesson{
		ID: "lesson-1", StudentID: "student-1", TutorID: "tutor-1", SubjectID: "subject-1",
		BookingDate: "2026-09-02", StartTime: "10:00", EndTime: "11:00", Status: models.LessonBooked,
	}
	f.lessons.conflict = &models.Lesson{ID: "lesson-other"}

	resp := performRequest(f.router, http.MethodPut, "/bookings/lesson-1", bookingPayload())
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), service.MsgSlotTaken)
	assert.Empty(t, f.waitlist.queued)
}

func TestDeleteBookingEndpoint_Messages(t *testing.T) {
	tests := []struct {
		name       string
		failNotify bool
		wantStatus int
		wantBody   string
	}{
		{
			name:       "notified",
			wantStatus: http.StatusOK,
			wantBody:   fmt.Sprintf(`{"success":true,"message":%q}`, MsgCanceledNotified),
		},
		{
			name:       "notification failed",
			failNotify: true,
			wantStatus: http.StatusInternalServerError,
			wantBody:   fmt.Sprintf(`{"success":false,"message":%q}`, MsgCanceledNotifyFailed),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingRouter(t)
			f.notifier.failSync = tt.failNotify
			f.lessons.lessons["lesson-1"] = &models.Lesson{
				ID: "lesson-1", StudentID: "student-1", TutorID: "tutor-1", SubjectID: "subject-1",
				BookingDate: "2026-09-02", StartTime: "10:00", EndTime: "11:00", Status: models.LessonBooked,
			}

			resp := performRequest(f.router, http.MethodDelete, "/bookings/lesson-1", nil)
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.JSONEq(t, tt.wantBody, resp.Body.String())

			// lesson gone either way
			_, ok := f.lessons.lessons["lesson-1"]
			assert.False(t, ok)
		})
	}
}

func TestDeleteBookingEndpoint_NotFound(t *testing.T) {
	f := newBookingRouter(t)

	resp := performRequest(f.router, http.MethodDelete, "/bookings/lesson-missing", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}
