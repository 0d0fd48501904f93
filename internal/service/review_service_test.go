package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type mockReviewRepo struct {
	reviews map[string]*models.Review
	ratings []int
	saved   *models.Review
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{reviews: map[string]*models.Review{}}
}

func (m *mockReviewRepo) aggregate() *models.RatingAggregate {
	if len(m.ratings) == 0 {
		return &models.RatingAggregate{}
	}
	sum := 0
	for _, r := range m.ratings {
		sum += r
	}
	return &models.RatingAggregate{
		AverageRating: float64(sum) / float64(len(m.ratings)),
		ReviewCount:   len(m.ratings),
	}
}

func (m *mockReviewRepo) FindByID(_ context.Context, id string) (*models.Review, error) {
	if r, ok := m.reviews[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockReviewRepo) ListByTutor(_ context.Context, _ string) ([]models.Review, error) {
	return nil, nil
}

func (m *mockReviewRepo) Create(_ context.Context, review *models.Review) (*models.RatingAggregate, error) {
	review.ID = "review-new"
	m.saved = review
	m.ratings = append(m.ratings, review.Rating)
	return m.aggregate(), nil
}

func (m *mockReviewRepo) Update(_ context.Context, review *models.Review) (*models.RatingAggregate, error) {
	m.saved = review
	m.ratings = append(m.ratings[:0:0], m.ratings...)
	if len(m.ratings) > 0 {
		m.ratings[0] = review.Rating
	}
	return m.aggregate(), nil
}

func (m *mockReviewRepo) SetResponse(_ context.Context, id, response string) error {
	if r, ok := m.reviews[id]; ok {
		r.Response = &response
	}
	return nil
}

func newReviewService(repo *mockReviewRepo, tutors *mockTutorRepo) *ReviewService {
	return NewReviewService(repo, tutors, nil, zap.NewNop())
}

func TestCreateReview_RecomputesAggregate(t *testing.T) {
	repo := newMockReviewRepo()
	svc := newReviewService(repo, &mockTutorRepo{tutor: &models.Tutor{ID: "tutor-1", UserID: "user-t1"}})
	student := models.UserInfo{ID: "student-1", Role: models.RoleStudent}

	first, err := svc.Create(context.Background(), student, CreateReviewRequest{TutorID: "tutor-1", Rating: 5, Comment: "great"})
	require.NoError(t, err)
	assert.Equal(t, 5.0, first.Aggregate.AverageRating)
	assert.Equal(t, 1, first.Aggregate.ReviewCount)

	second, err := svc.Create(context.Background(), student, CreateReviewRequest{TutorID: "tutor-1", Rating: 2, Comment: "uneven"})
	require.NoError(t, err)
	assert.Equal(t, 3.5, second.Aggregate.AverageRating)
	assert.Equal(t, 2, second.Aggregate.ReviewCount)
}

func TestCreateReview_RatingBounds(t *testing.T) {
	repo := newMockReviewRepo()
	svc := newReviewService(repo, &mockTutorRepo{tutor: &models.Tutor{ID: "tutor-1"}})
	student := models.UserInfo{ID: "student-1"}

	for _, rating := range []int{0, 6} {
		_, err := svc.Create(context.Background(), student, CreateReviewRequest{TutorID: "tutor-1", Rating: rating, Comment: "x"})
		require.Error(t, err)
		assert.Equal(t, 400, appErrors.FromError(err).Status)
	}
	assert.Nil(t, repo.saved)
}

func TestUpdateReview_OnlyAuthor(t *testing.T) {
	repo := newMockReviewRepo()
	repo.reviews["review-1"] = &models.Review{ID: "review-1", StudentID: "student-1", TutorID: "tutor-1", Rating: 4}
	repo.ratings = []int{4}
	svc := newReviewService(repo, &mockTutorRepo{tutor: &models.Tutor{ID: "tutor-1"}})

	_, err := svc.Update(context.Background(), models.UserInfo{ID: "student-2"}, "review-1", UpdateReviewRequest{Rating: 1, Comment: "nope"})
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	result, err := svc.Update(context.Background(), models.UserInfo{ID: "student-1"}, "review-1", UpdateReviewRequest{Rating: 2, Comment: "revised"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, result.Aggregate.AverageRating)
}

func TestRespondToReview_OnlyReviewedTutor(t *testing.T) {
	repo := newMockReviewRepo()
	repo.reviews["review-1"] = &models.Review{ID: "review-1", StudentID: "student-1", TutorID: "tutor-1"}
	svc := newReviewService(repo, &mockTutorRepo{tutor: &models.Tutor{ID: "tutor-1", UserID: "user-t1"}})

	_, err := svc.Respond(context.Background(), models.UserInfo{ID: "someone-else"}, "review-1", RespondReviewRequest{Response: "thanks"})
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	review, err := svc.Respond(context.Background(), models.UserInfo{ID: "user-t1"}, "review-1", RespondReviewRequest{Response: "thanks"})
	require.NoError(t, err)
	require.NotNil(t, review.Response)
	assert.Equal(t, "thanks", *review.Response)
}
