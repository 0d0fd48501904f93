package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

const availabilityColumns = "id, tutor_id, day_of_week, start_time, end_time, is_available"

// AvailabilityRepository provides persistence for tutor availability windows.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// FindWindow returns the first available window for the tutor on the given
// weekday that fully contains [start, end], or nil when none does. A tutor
// may declare several windows per day, possibly overlapping; ties break by
// lowest id.
func (r *AvailabilityRepository) FindWindow(ctx context.Context, tutorID, dayOfWeek, start, end string) (*models.TutorAvailability, error) {
	query := fmt.Sprintf(`SELECT %s FROM tutor_availabilities WHERE tutor_id = $1 AND day_of_week = $2 AND is_available = TRUE AND start_time <= $3 AND end_time >= $4 ORDER BY id ASC LIMIT 1`, availabilityColumns)

	var window models.TutorAvailability
	err := r.db.GetContext(ctx, &window, query, tutorID, dayOfWeek, start, end)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find availability window: %w", err)
	}
	return &window, nil
}

// ListByTutor returns all windows for a tutor ordered by day and start time.
func (r *AvailabilityRepository) ListByTutor(ctx context.Context, tutorID string) ([]models.TutorAvailability, error) {
	query := fmt.Sprintf("SELECT %s FROM tutor_availabilities WHERE tutor_id = $1 ORDER BY day_of_week ASC, start_time ASC", availabilityColumns)
	var windows []models.TutorAvailability
	if err := r.db.SelectContext(ctx, &windows, query, tutorID); err != nil {
		return nil, fmt.Errorf("list availabilities: %w", err)
	}
	return windows, nil
}

// Replace swaps out a tutor's full set of windows in one transaction, the
// way the profile editor submits them.
func (r *AvailabilityRepository) Replace(ctx context.Context, tutorID string, windows []models.TutorAvailability) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace availabilities: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM tutor_availabilities WHERE tutor_id = $1`, tutorID); err != nil {
		return fmt.Errorf("clear availabilities: %w", err)
	}

	for i := range windows {
		w := windows[i]
		w.TutorID = tutorID
		if w.ID == "" {
			w.ID = uuid.NewString()
		}
		const insert = `INSERT INTO tutor_availabilities (id, tutor_id, day_of_week, start_time, end_time, is_available) VALUES (:id, :tutor_id, :day_of_week, :start_time, :end_time, :is_available)`
		if _, err = sqlx.NamedExecContext(ctx, tx, insert, &w); err != nil {
			return fmt.Errorf("insert availability: %w", err)
		}
		windows[i] = w
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace availabilities: %w", err)
	}
	return nil
}
