package service

import (
	"context"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context) ([]models.Subject, error)
}

// SubjectService serves the subject catalogue used by search filters.
type SubjectService struct {
	subjects subjectRepository
}

// NewSubjectService instantiates SubjectService.
func NewSubjectService(subjects subjectRepository) *SubjectService {
	return &SubjectService{subjects: subjects}
}

// List returns all subjects ordered by name.
func (s *SubjectService) List(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return subjects, nil
}
