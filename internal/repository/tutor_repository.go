package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

const tutorColumns = "t.id, t.user_id, u.full_name, u.email, t.hourly_rate, t.location, t.bio, t.qualifications, t.experience, t.average_rating, t.review_count, t.created_at, t.updated_at"

// TutorRepository provides persistence for tutor profiles.
type TutorRepository struct {
	db *sqlx.DB
}

// NewTutorRepository creates a new tutor repository.
func NewTutorRepository(db *sqlx.DB) *TutorRepository {
	return &TutorRepository{db: db}
}

// FindByID loads a tutor with the owning user's name and email joined in.
func (r *TutorRepository) FindByID(ctx context.Context, id string) (*models.Tutor, error) {
	query := fmt.Sprintf("SELECT %s FROM tutors t JOIN users u ON u.id = t.user_id WHERE t.id = $1", tutorColumns)
	var tutor models.Tutor
	if err := r.db.GetContext(ctx, &tutor, query, id); err != nil {
		return nil, err
	}
	return &tutor, nil
}

// List returns all tutors ordered by rating, for the marketplace landing page.
func (r *TutorRepository) List(ctx context.Context, limit int) ([]models.Tutor, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT %s FROM tutors t JOIN users u ON u.id = t.user_id ORDER BY t.average_rating DESC, t.review_count DESC LIMIT %d", tutorColumns, limit)
	var tutors []models.Tutor
	if err := r.db.SelectContext(ctx, &tutors, query); err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}
	return tutors, nil
}

// Search filters tutors by the advanced search criteria. Availability
// filters require an is_available window on the requested day that contains
// the requested time range.
func (r *TutorRepository) Search(ctx context.Context, filter models.TutorFilter) ([]models.Tutor, int, error) {
	base := "FROM tutors t JOIN users u ON u.id = t.user_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM tutor_subjects ts WHERE ts.tutor_id = t.id AND ts.subject_id = $%d)", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.MinHourlyRate != nil {
		conditions = append(conditions, fmt.Sprintf("t.hourly_rate >= $%d", len(args)+1))
		args = append(args, *filter.MinHourlyRate)
	}
	if filter.MaxHourlyRate != nil {
		conditions = append(conditions, fmt.Sprintf("t.hourly_rate <= $%d", len(args)+1))
		args = append(args, *filter.MaxHourlyRate)
	}
	if filter.Location != "" {
		conditions = append(conditions, fmt.Sprintf("t.location ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Location+"%")
	}
	if filter.MinRating != nil {
		conditions = append(conditions, fmt.Sprintf("t.average_rating >= $%d", len(args)+1))
		args = append(args, *filter.MinRating)
	}
	if filter.MinExperience != nil {
		conditions = append(conditions, fmt.Sprintf("t.experience >= $%d", len(args)+1))
		args = append(args, *filter.MinExperience)
	}

	if availability := buildAvailabilityCondition(filter, &args); availability != "" {
		conditions = append(conditions, availability)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY t.average_rating DESC LIMIT %d OFFSET %d", tutorColumns, base, size, offset)
	var tutors []models.Tutor
	if err := r.db.SelectContext(ctx, &tutors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search tutors: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count tutors: %w", err)
	}

	return tutors, total, nil
}

func buildAvailabilityCondition(filter models.TutorFilter, args *[]interface{}) string {
	hasDay := filter.AvailableOnDay != ""
	hasRange := filter.AvailableFrom != "" && filter.AvailableTo != ""
	if !hasDay && !hasRange {
		return ""
	}

	inner := []string{"a.tutor_id = t.id", "a.is_available = TRUE"}
	if hasDay {
		inner = append(inner, fmt.Sprintf("a.day_of_week = $%d", len(*args)+1))
		*args = append(*args, filter.AvailableOnDay)
	}
	if hasRange {
		inner = append(inner, fmt.Sprintf("a.start_time <= $%d", len(*args)+1))
		*args = append(*args, filter.AvailableFrom)
		inner = append(inner, fmt.Sprintf("a.end_time >= $%d", len(*args)+1))
		*args = append(*args, filter.AvailableTo)
	}

	return fmt.Sprintf("EXISTS (SELECT 1 FROM tutor_availabilities a WHERE %s)", strings.Join(inner, " AND "))
}
