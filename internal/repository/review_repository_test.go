package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

func expectAggregateRecompute(mock sqlmock.Sqlmock, tutorID string, avg float64, count int) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS review_count FROM reviews WHERE tutor_id = $1")).
		WithArgs(tutorID).
		WillReturnRows(sqlmock.NewRows([]string{"average_rating", "review_count"}).AddRow(avg, count))
	mock.ExpectExec("UPDATE tutors SET average_rating").
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestCreateReview_RecomputesAggregateInSameTx(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reviews").WillReturnResult(sqlmock.NewResult(1, 1))
	expectAggregateRecompute(mock, "tutor-1", 4.5, 2)
	mock.ExpectCommit()

	review := models.Review{StudentID: "student-1", TutorID: "tutor-1", Rating: 5, Comment: "great"}
	aggregate, err := repo.Create(context.Background(), &review)
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, 4.5, aggregate.AverageRating)
	assert.Equal(t, 2, aggregate.ReviewCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReview_RecomputesAggregate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE reviews SET rating").WillReturnResult(sqlmock.NewResult(0, 1))
	expectAggregateRecompute(mock, "tutor-1", 3.0, 3)
	mock.ExpectCommit()

	review := models.Review{ID: "review-1", TutorID: "tutor-1", Rating: 2, Comment: "changed my mind"}
	aggregate, err := repo.Update(context.Background(), &review)
	require.NoError(t, err)
	assert.Equal(t, 3.0, aggregate.AverageRating)
	assert.Equal(t, 3, aggregate.ReviewCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReview_RollsBackOnAggregateFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reviews").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(AVG(rating), 0)")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	review := models.Review{StudentID: "student-1", TutorID: "tutor-1", Rating: 5, Comment: "great"}
	_, err := repo.Create(context.Background(), &review)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetResponse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET response = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("review-1", "thank you", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetResponse(context.Background(), "review-1", "thank you"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
