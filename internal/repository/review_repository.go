package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

const reviewColumns = "id, student_id, tutor_id, lesson_id, rating, comment, response, created_at, updated_at"

// ReviewRepository provides persistence for reviews and keeps the tutor's
// denormalized rating aggregate in step with the review set.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// FindByID loads a review by id.
func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*models.Review, error) {
	query := fmt.Sprintf("SELECT %s FROM reviews WHERE id = $1", reviewColumns)
	var review models.Review
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByTutor returns a tutor's reviews, newest first.
func (r *ReviewRepository) ListByTutor(ctx context.Context, tutorID string) ([]models.Review, error) {
	query := fmt.Sprintf("SELECT %s FROM reviews WHERE tutor_id = $1 ORDER BY created_at DESC", reviewColumns)
	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, query, tutorID); err != nil {
		return nil, fmt.Errorf("list reviews by tutor: %w", err)
	}
	return reviews, nil
}

// Create inserts the review and recomputes the tutor's aggregate in the
// same transaction, so the aggregate always reflects the current review set.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) (*models.RatingAggregate, error) {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now

	var aggregate *models.RatingAggregate
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		const insert = `INSERT INTO reviews (id, student_id, tutor_id, lesson_id, rating, comment, response, created_at, updated_at) VALUES (:id, :student_id, :tutor_id, :lesson_id, :rating, :comment, :response, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, insert, review); err != nil {
			return fmt.Errorf("insert review: %w", err)
		}
		agg, err := recomputeTutorRating(ctx, tx, review.TutorID)
		if err != nil {
			return err
		}
		aggregate = agg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return aggregate, nil
}

// Update rewrites the review's rating and comment and recomputes the
// tutor's aggregate transactionally.
func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) (*models.RatingAggregate, error) {
	review.UpdatedAt = time.Now().UTC()

	var aggregate *models.RatingAggregate
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		const update = `UPDATE reviews SET rating = :rating, comment = :comment, updated_at = :updated_at WHERE id = :id`
		if _, err := tx.NamedExecContext(ctx, update, review); err != nil {
			return fmt.Errorf("update review: %w", err)
		}
		agg, err := recomputeTutorRating(ctx, tx, review.TutorID)
		if err != nil {
			return err
		}
		aggregate = agg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return aggregate, nil
}

// SetResponse stores the tutor's reply on a review. Replies do not affect
// the rating aggregate.
func (r *ReviewRepository) SetResponse(ctx context.Context, id, response string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE reviews SET response = $2, updated_at = $3 WHERE id = $1`, id, response, time.Now().UTC()); err != nil {
		return fmt.Errorf("set review response: %w", err)
	}
	return nil
}

// recomputeTutorRating rewrites the tutor row's average_rating and
// review_count from the full review set. An empty set resets both to zero.
func recomputeTutorRating(ctx context.Context, tx *sqlx.Tx, tutorID string) (*models.RatingAggregate, error) {
	var agg models.RatingAggregate
	const stats = `SELECT COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS review_count FROM reviews WHERE tutor_id = $1`
	if err := tx.GetContext(ctx, &agg, stats, tutorID); err != nil {
		return nil, fmt.Errorf("aggregate tutor reviews: %w", err)
	}

	const update = `UPDATE tutors SET average_rating = $2, review_count = $3, updated_at = $4 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, tutorID, agg.AverageRating, agg.ReviewCount, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("update tutor rating: %w", err)
	}
	return &agg, nil
}

func (r *ReviewRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin review tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit review tx: %w", err)
	}
	return nil
}
