package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type reviewRepository interface {
	FindByID(ctx context.Context, id string) (*models.Review, error)
	ListByTutor(ctx context.Context, tutorID string) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) (*models.RatingAggregate, error)
	Update(ctx context.Context, review *models.Review) (*models.RatingAggregate, error)
	SetResponse(ctx context.Context, id, response string) error
}

type reviewTutorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Tutor, error)
}

// CreateReviewRequest rates a tutor, optionally tied to a specific lesson.
type CreateReviewRequest struct {
	TutorID  string  `json:"tutor_id" validate:"required"`
	LessonID *string `json:"lesson_id"`
	Rating   int     `json:"rating" validate:"required,min=1,max=5"`
	Comment  string  `json:"comment" validate:"required"`
}

// UpdateReviewRequest rewrites an existing review's rating and comment.
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

// RespondReviewRequest carries the tutor's public reply to a review.
type RespondReviewRequest struct {
	Response string `json:"response" validate:"required"`
}

// ReviewResult pairs a saved review with the tutor aggregate it produced.
type ReviewResult struct {
	Review    models.Review          `json:"review"`
	Aggregate models.RatingAggregate `json:"aggregate"`
}

// ReviewService manages student reviews and the tutor rating aggregate.
type ReviewService struct {
	reviews   reviewRepository
	tutors    reviewTutorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReviewService instantiates ReviewService.
func NewReviewService(reviews reviewRepository, tutors reviewTutorRepository, validate *validator.Validate, logger *zap.Logger) *ReviewService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{reviews: reviews, tutors: tutors, validator: validate, logger: logger}
}

// ListByTutor returns a tutor's reviews, newest first.
func (s *ReviewService) ListByTutor(ctx context.Context, tutorID string) ([]models.Review, error) {
	reviews, err := s.reviews.ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// Create stores a review and returns the recomputed tutor aggregate.
func (s *ReviewService) Create(ctx context.Context, actor models.UserInfo, req CreateReviewRequest) (*ReviewResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	if _, err := s.tutors.FindByID(ctx, req.TutorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor")
	}

	review := models.Review{
		StudentID: actor.ID,
		TutorID:   req.TutorID,
		LessonID:  req.LessonID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	aggregate, err := s.reviews.Create(ctx, &review)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save review")
	}

	s.logger.Info("review created",
		zap.String("tutor_id", req.TutorID),
		zap.Int("rating", req.Rating),
		zap.Float64("average_rating", aggregate.AverageRating),
	)
	return &ReviewResult{Review: review, Aggregate: *aggregate}, nil
}

// Update rewrites the actor's own review and returns the fresh aggregate.
func (s *ReviewService) Update(ctx context.Context, actor models.UserInfo, reviewID string, req UpdateReviewRequest) (*ReviewResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	review, err := s.loadReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.StudentID != actor.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the author can edit a review")
	}

	review.Rating = req.Rating
	review.Comment = req.Comment
	aggregate, err := s.reviews.Update(ctx, review)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update review")
	}
	return &ReviewResult{Review: *review, Aggregate: *aggregate}, nil
}

// Respond records the reviewed tutor's public reply. Replies never touch the
// rating aggregate.
func (s *ReviewService) Respond(ctx context.Context, actor models.UserInfo, reviewID string, req RespondReviewRequest) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid response payload")
	}

	review, err := s.loadReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	tutor, err := s.tutors.FindByID(ctx, review.TutorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor")
	}
	if tutor.UserID != actor.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the reviewed tutor can respond")
	}

	if err := s.reviews.SetResponse(ctx, reviewID, req.Response); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save response")
	}
	review.Response = &req.Response
	return review, nil
}

func (s *ReviewService) loadReview(ctx context.Context, id string) (*models.Review, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "review not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load review")
	}
	return review, nil
}
