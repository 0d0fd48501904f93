package models

import "time"

// LessonStatus tracks a lesson through its lifecycle.
type LessonStatus string

const (
	LessonBooked    LessonStatus = "booked"
	LessonCompleted LessonStatus = "completed"
	LessonCanceled  LessonStatus = "canceled"
)

// Lesson represents a lesson booked between a student and a tutor.
// BookingDate is "YYYY-MM-DD"; StartTime/EndTime are "HH:MM".
type Lesson struct {
	ID          string       `db:"id" json:"id"`
	StudentID   string       `db:"student_id" json:"student_id"`
	TutorID     string       `db:"tutor_id" json:"tutor_id"`
	SubjectID   string       `db:"subject_id" json:"subject_id"`
	BookingDate string       `db:"booking_date" json:"booking_date"`
	StartTime   string       `db:"start_time" json:"start_time"`
	EndTime     string       `db:"end_time" json:"end_time"`
	Status      LessonStatus `db:"status" json:"status"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// Slot identifies a specific bookable time range for a tutor.
type Slot struct {
	TutorID     string
	BookingDate string
	StartTime   string
	EndTime     string
}

// SlotOf extracts the slot a lesson occupies.
func SlotOf(l Lesson) Slot {
	return Slot{
		TutorID:     l.TutorID,
		BookingDate: l.BookingDate,
		StartTime:   l.StartTime,
		EndTime:     l.EndTime,
	}
}
