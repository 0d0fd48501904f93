package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

const lessonColumns = "id, student_id, tutor_id, subject_id, booking_date, start_time, end_time, status, created_at, updated_at"

// LessonRepository provides persistence for booked lessons.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository creates a new lesson repository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// FindByID loads a lesson by id.
func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE id = $1", lessonColumns)
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// FindConflict returns the first booked lesson whose time range overlaps the
// candidate range for the tutor on that date. Overlap is inclusive at the
// boundaries: [s1,e1] and [s2,e2] conflict when s1 <= e2 AND e1 >= s2, so
// lessons that merely touch endpoints still collide. excludeID skips the
// lesson being modified.
func (r *LessonRepository) FindConflict(ctx context.Context, tutorID, date, start, end, excludeID string) (*models.Lesson, error) {
	return findConflict(ctx, r.db, tutorID, date, start, end, excludeID)
}

func findConflict(ctx context.Context, q sqlx.QueryerContext, tutorID, date, start, end, excludeID string) (*models.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM lessons WHERE tutor_id = $1 AND booking_date = $2 AND status = 'booked' AND start_time <= $3 AND end_time >= $4 AND id <> $5 ORDER BY start_time ASC LIMIT 1`, lessonColumns)

	var lesson models.Lesson
	err := sqlx.GetContext(ctx, q, &lesson, query, tutorID, date, end, start, excludeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find lesson conflict: %w", err)
	}
	return &lesson, nil
}

// CreateIfFree inserts the lesson unless a conflicting booked lesson exists.
// The conflict scan and insert run in one transaction serialized per
// tutor/date via an advisory lock, so two racing bookings for the same slot
// cannot both pass the scan. Returns the conflicting lesson when the insert
// was skipped.
func (r *LessonRepository) CreateIfFree(ctx context.Context, lesson *models.Lesson) (*models.Lesson, error) {
	var conflict *models.Lesson
	err := r.withSlotLock(ctx, lesson.TutorID, lesson.BookingDate, func(tx *sqlx.Tx) error {
		existing, err := findConflict(ctx, tx, lesson.TutorID, lesson.BookingDate, lesson.StartTime, lesson.EndTime, "")
		if err != nil {
			return err
		}
		if existing != nil {
			conflict = existing
			return nil
		}

		if lesson.ID == "" {
			lesson.ID = uuid.NewString()
		}
		now := time.Now().UTC()
		lesson.CreatedAt = now
		lesson.UpdatedAt = now
		lesson.Status = models.LessonBooked

		const insert = `INSERT INTO lessons (id, student_id, tutor_id, subject_id, booking_date, start_time, end_time, status, created_at, updated_at) VALUES (:id, :student_id, :tutor_id, :subject_id, :booking_date, :start_time, :end_time, :status, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, insert, lesson); err != nil {
			return fmt.Errorf("insert lesson: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conflict, nil
}

// UpdateIfFree rewrites the lesson's subject, date, times and status unless
// the new range collides with another booked lesson. The lesson's own id is
// excluded from the scan. Returns the conflicting lesson when the update was
// skipped.
func (r *LessonRepository) UpdateIfFree(ctx context.Context, lesson *models.Lesson) (*models.Lesson, error) {
	var conflict *models.Lesson
	err := r.withSlotLock(ctx, lesson.TutorID, lesson.BookingDate, func(tx *sqlx.Tx) error {
		existing, err := findConflict(ctx, tx, lesson.TutorID, lesson.BookingDate, lesson.StartTime, lesson.EndTime, lesson.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			conflict = existing
			return nil
		}

		lesson.UpdatedAt = time.Now().UTC()
		const update = `UPDATE lessons SET subject_id = :subject_id, booking_date = :booking_date, start_time = :start_time, end_time = :end_time, status = :status, updated_at = :updated_at WHERE id = :id`
		if _, err := tx.NamedExecContext(ctx, update, lesson); err != nil {
			return fmt.Errorf("update lesson: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conflict, nil
}

// Delete removes a lesson row. Deleting an absent lesson is not an error.
func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return nil
}

// ListByStudent returns a student's lessons, most recent first.
func (r *LessonRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Lesson, error) {
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE student_id = $1 ORDER BY booking_date DESC, start_time DESC", lessonColumns)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, studentID); err != nil {
		return nil, fmt.Errorf("list lessons by student: %w", err)
	}
	return lessons, nil
}

// ListByTutor returns a tutor's lessons, most recent first.
func (r *LessonRepository) ListByTutor(ctx context.Context, tutorID string) ([]models.Lesson, error) {
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE tutor_id = $1 ORDER BY booking_date DESC, start_time DESC", lessonColumns)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, tutorID); err != nil {
		return nil, fmt.Errorf("list lessons by tutor: %w", err)
	}
	return lessons, nil
}

// withSlotLock runs fn in a transaction holding a per-tutor/date advisory
// lock. The lock releases on commit or rollback.
func (r *LessonRepository) withSlotLock(ctx context.Context, tutorID, date string, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, tutorID+"@"+date); err != nil {
		return fmt.Errorf("acquire booking lock: %w", err)
	}

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit booking tx: %w", err)
	}
	return nil
}
