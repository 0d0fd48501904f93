package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type availabilityRepository interface {
	ListByTutor(ctx context.Context, tutorID string) ([]models.TutorAvailability, error)
	Replace(ctx context.Context, tutorID string, windows []models.TutorAvailability) error
}

// AvailabilityWindowInput is one weekly window in a schedule submission.
type AvailabilityWindowInput struct {
	DayOfWeek   string `json:"day_of_week" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime   string `json:"start_time" validate:"required,len=5"`
	EndTime     string `json:"end_time" validate:"required,len=5"`
	IsAvailable bool   `json:"is_available"`
}

// ReplaceAvailabilityRequest carries a tutor's full weekly schedule. The
// submitted set replaces whatever was stored before.
type ReplaceAvailabilityRequest struct {
	Windows []AvailabilityWindowInput `json:"windows" validate:"required,dive"`
}

// AvailabilityService manages tutors' weekly availability schedules.
type AvailabilityService struct {
	repo      availabilityRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService instantiates AvailabilityService.
func NewAvailabilityService(repo availabilityRepository, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, validator: validate, logger: logger}
}

// ListByTutor returns the tutor's declared windows.
func (s *AvailabilityService) ListByTutor(ctx context.Context, tutorID string) ([]models.TutorAvailability, error) {
	windows, err := s.repo.ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list availability")
	}
	if windows == nil {
		windows = []models.TutorAvailability{}
	}
	return windows, nil
}

// Replace validates and stores the submitted schedule, discarding the old
// one. Overlapping windows on the same day are allowed; booking resolves
// them by containment.
func (s *AvailabilityService) Replace(ctx context.Context, tutorID string, req ReplaceAvailabilityRequest) ([]models.TutorAvailability, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}

	windows := make([]models.TutorAvailability, 0, len(req.Windows))
	for _, w := range req.Windows {
		if w.EndTime <= w.StartTime {
			return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Start time must be before end time.")
		}
		windows = append(windows, models.TutorAvailability{
			TutorID:     tutorID,
			DayOfWeek:   w.DayOfWeek,
			StartTime:   w.StartTime,
			EndTime:     w.EndTime,
			IsAvailable: w.IsAvailable,
		})
	}

	if err := s.repo.Replace(ctx, tutorID, windows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save availability")
	}

	s.logger.Info("availability replaced", zap.String("tutor_id", tutorID), zap.Int("windows", len(windows)))
	return windows, nil
}
