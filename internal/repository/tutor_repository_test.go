package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

func tutorRows(tutors ...models.Tutor) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "user_id", "full_name", "email", "hourly_rate", "location", "bio", "qualifications", "experience", "average_rating", "review_count", "created_at", "updated_at"})
	for _, tu := range tutors {
		rows.AddRow(tu.ID, tu.UserID, tu.FullName, tu.Email, tu.HourlyRate, tu.Location, tu.Bio, tu.Qualifications, tu.Experience, tu.AverageRating, tu.ReviewCount, tu.CreatedAt, tu.UpdatedAt)
	}
	return rows
}

func sampleTutor(id string) models.Tutor {
	now := time.Now()
	return models.Tutor{
		ID: id, UserID: "user-" + id, FullName: "Tina Tutor", Email: "tina@example.com",
		HourlyRate: 40, Qualifications: "MSc Mathematics", Experience: 5,
		AverageRating: 4.5, ReviewCount: 12, CreatedAt: now, UpdatedAt: now,
	}
}

func TestTutorFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTutorRepository(db)

	mock.ExpectQuery("SELECT .+ FROM tutors t JOIN users u ON u.id = t.user_id WHERE t.id =").
		WithArgs("tutor-1").
		WillReturnRows(tutorRows(sampleTutor("tutor-1")))

	tutor, err := repo.FindByID(context.Background(), "tutor-1")
	require.NoError(t, err)
	assert.Equal(t, "Tina Tutor", tutor.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTutorSearch_BuildsFilterConditions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTutorRepository(db)

	minRate := 20.0
	minRating := 4.0
	filter := models.TutorFilter{
		SubjectID:      "subject-1",
		MinHourlyRate:  &minRate,
		MinRating:      &minRating,
		AvailableOnDay: "Wednesday",
		AvailableFrom:  "10:00",
		AvailableTo:    "12:00",
	}

	mock.ExpectQuery("SELECT .+ FROM tutors t JOIN users u ON u.id = t.user_id WHERE 1=1 AND EXISTS .+tutor_subjects.+ AND t.hourly_rate >= .+ AND t.average_rating >= .+ AND EXISTS .+tutor_availabilities.+ ORDER BY t.average_rating DESC LIMIT 20 OFFSET 0").
		WithArgs("subject-1", minRate, minRating, "Wednesday", "10:00", "12:00").
		WillReturnRows(tutorRows(sampleTutor("tutor-1")))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tutors t JOIN users u ON u.id = t.user_id WHERE 1=1")).
		WithArgs("subject-1", minRate, minRating, "Wednesday", "10:00", "12:00").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	tutors, total, err := repo.Search(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, tutors, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTutorSearch_NoFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTutorRepository(db)

	mock.ExpectQuery("SELECT .+ FROM tutors t JOIN users u ON u.id = t.user_id WHERE 1=1 ORDER BY t.average_rating DESC LIMIT 20 OFFSET 0").
		WillReturnRows(tutorRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tutors t JOIN users u ON u.id = t.user_id WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	tutors, total, err := repo.Search(context.Background(), models.TutorFilter{})
	require.NoError(t, err)
	assert.Empty(t, tutors)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
