package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

// SubjectRepository provides read access to the subject catalogue.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new subject repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns all subjects ordered by name.
func (r *SubjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, `SELECT id, name, description FROM subjects ORDER BY name ASC`); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// ListByTutor returns the subjects a tutor teaches.
func (r *SubjectRepository) ListByTutor(ctx context.Context, tutorID string) ([]models.Subject, error) {
	var subjects []models.Subject
	const query = `SELECT s.id, s.name, s.description FROM subjects s JOIN tutor_subjects ts ON ts.subject_id = s.id WHERE ts.tutor_id = $1 ORDER BY s.name ASC`
	if err := r.db.SelectContext(ctx, &subjects, query, tutorID); err != nil {
		return nil, fmt.Errorf("list subjects by tutor: %w", err)
	}
	return subjects, nil
}
