package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

const findWindowQuery = `SELECT id, tutor_id, day_of_week, start_time, end_time, is_available FROM tutor_availabilities WHERE tutor_id = $1 AND day_of_week = $2 AND is_available = TRUE AND start_time <= $3 AND end_time >= $4 ORDER BY id ASC LIMIT 1`

func availabilityRows(windows ...models.TutorAvailability) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "tutor_id", "day_of_week", "start_time", "end_time", "is_available"})
	for _, w := range windows {
		rows.AddRow(w.ID, w.TutorID, w.DayOfWeek, w.StartTime, w.EndTime, w.IsAvailable)
	}
	return rows
}

func TestFindWindow_Containment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(findWindowQuery)).
		WithArgs("tutor-1", "Wednesday", "10:00", "11:00").
		WillReturnRows(availabilityRows(models.TutorAvailability{
			ID: "avail-1", TutorID: "tutor-1", DayOfWeek: "Wednesday",
			StartTime: "09:00", EndTime: "17:00", IsAvailable: true,
		}))

	window, err := repo.FindWindow(context.Background(), "tutor-1", "Wednesday", "10:00", "11:00")
	require.NoError(t, err)
	require.NotNil(t, window)
	assert.Equal(t, "avail-1", window.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindWindow_NoneIsNotAnError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(findWindowQuery)).
		WithArgs("tutor-1", "Sunday", "10:00", "11:00").
		WillReturnError(sql.ErrNoRows)

	window, err := repo.FindWindow(context.Background(), "tutor-1", "Sunday", "10:00", "11:00")
	require.NoError(t, err)
	assert.Nil(t, window)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAvailabilities(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tutor_availabilities WHERE tutor_id = $1")).
		WithArgs("tutor-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO tutor_availabilities").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO tutor_availabilities").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	windows := []models.TutorAvailability{
		{DayOfWeek: "Monday", StartTime: "09:00", EndTime: "12:00", IsAvailable: true},
		{DayOfWeek: "Wednesday", StartTime: "13:00", EndTime: "17:00", IsAvailable: true},
	}
	require.NoError(t, repo.Replace(context.Background(), "tutor-1", windows))
	assert.Equal(t, "tutor-1", windows[0].TutorID)
	assert.NotEmpty(t, windows[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
