package models

import "time"

// Review is a student's rating of a tutor, optionally tied to a lesson.
// Writing a review recomputes the tutor's denormalized rating aggregate.
type Review struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	TutorID   string    `db:"tutor_id" json:"tutor_id"`
	LessonID  *string   `db:"lesson_id" json:"lesson_id,omitempty"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment"`
	Response  *string   `db:"response" json:"response,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RatingAggregate is the recomputed summary stored on the tutor row.
type RatingAggregate struct {
	AverageRating float64 `db:"average_rating" json:"average_rating"`
	ReviewCount   int     `db:"review_count" json:"review_count"`
}
