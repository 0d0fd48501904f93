package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type tutorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Tutor, error)
	List(ctx context.Context, limit int) ([]models.Tutor, error)
	Search(ctx context.Context, filter models.TutorFilter) ([]models.Tutor, int, error)
}

type tutorSubjectRepository interface {
	ListByTutor(ctx context.Context, tutorID string) ([]models.Subject, error)
}

type tutorAvailabilityLister interface {
	ListByTutor(ctx context.Context, tutorID string) ([]models.TutorAvailability, error)
}

// TutorProfile is a tutor with their subjects and weekly schedule joined in,
// as the detail page renders it.
type TutorProfile struct {
	models.Tutor
	Subjects     []models.Subject           `json:"subjects"`
	Availability []models.TutorAvailability `json:"availability"`
}

// TutorSearchResult pages through matching tutors.
type TutorSearchResult struct {
	Tutors     []models.Tutor    `json:"tutors"`
	Pagination models.Pagination `json:"pagination"`
}

// TutorService serves the marketplace's tutor directory.
type TutorService struct {
	tutors         tutorRepository
	subjects       tutorSubjectRepository
	availabilities tutorAvailabilityLister
}

// NewTutorService instantiates TutorService.
func NewTutorService(tutors tutorRepository, subjects tutorSubjectRepository, availabilities tutorAvailabilityLister) *TutorService {
	return &TutorService{tutors: tutors, subjects: subjects, availabilities: availabilities}
}

// List returns top-rated tutors for the landing page.
func (s *TutorService) List(ctx context.Context, limit int) ([]models.Tutor, error) {
	tutors, err := s.tutors.List(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tutors")
	}
	if tutors == nil {
		tutors = []models.Tutor{}
	}
	return tutors, nil
}

// Search filters tutors by subject, rate, location, rating, experience and
// availability windows.
func (s *TutorService) Search(ctx context.Context, filter models.TutorFilter) (*TutorSearchResult, error) {
	tutors, total, err := s.tutors.Search(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search tutors")
	}
	if tutors == nil {
		tutors = []models.Tutor{}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}

	return &TutorSearchResult{
		Tutors: tutors,
		Pagination: models.Pagination{
			Page:       page,
			PageSize:   size,
			TotalCount: total,
		},
	}, nil
}

// Get assembles the tutor's full profile.
func (s *TutorService) Get(ctx context.Context, id string) (*TutorProfile, error) {
	tutor, err := s.tutors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor")
	}

	subjects, err := s.subjects.ListByTutor(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor subjects")
	}
	windows, err := s.availabilities.ListByTutor(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor availability")
	}

	if subjects == nil {
		subjects = []models.Subject{}
	}
	if windows == nil {
		windows = []models.TutorAvailability{}
	}
	return &TutorProfile{Tutor: *tutor, Subjects: subjects, Availability: windows}, nil
}
