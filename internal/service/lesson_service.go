package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type lessonQueryRepository interface {
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Lesson, error)
	ListByTutor(ctx context.Context, tutorID string) ([]models.Lesson, error)
}

// LessonService serves read-only lesson views for dashboards. Mutations go
// through BookingService.
type LessonService struct {
	lessons lessonQueryRepository
}

// NewLessonService instantiates LessonService.
func NewLessonService(lessons lessonQueryRepository) *LessonService {
	return &LessonService{lessons: lessons}
}

// Get loads a single lesson.
func (s *LessonService) Get(ctx context.Context, id string) (*models.Lesson, error) {
	lesson, err := s.lessons.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	return lesson, nil
}

// ListForUser returns the lessons visible to the acting user: their own
// bookings for students, their teaching schedule for tutors.
func (s *LessonService) ListForUser(ctx context.Context, actor models.UserInfo, tutorID string) ([]models.Lesson, error) {
	var (
		lessons []models.Lesson
		err     error
	)
	if actor.Role == models.RoleTutor && tutorID != "" {
		lessons, err = s.lessons.ListByTutor(ctx, tutorID)
	} else {
		lessons, err = s.lessons.ListByStudent(ctx, actor.ID)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	if lessons == nil {
		lessons = []models.Lesson{}
	}
	return lessons, nil
}
