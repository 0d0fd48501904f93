package models

import "time"

// Tutor represents a tutor profile linked to a user account. FullName and
// Email are joined in from the users table on reads.
type Tutor struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	FullName      string    `db:"full_name" json:"full_name"`
	Email         string    `db:"email" json:"email"`
	HourlyRate    float64   `db:"hourly_rate" json:"hourly_rate"`
	Location      *string   `db:"location" json:"location,omitempty"`
	Bio           *string   `db:"bio" json:"bio,omitempty"`
	Qualifications string   `db:"qualifications" json:"qualifications"`
	Experience    int       `db:"experience" json:"experience"`
	AverageRating float64   `db:"average_rating" json:"average_rating"`
	ReviewCount   int       `db:"review_count" json:"review_count"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// TutorFilter captures the advanced search criteria for tutors.
type TutorFilter struct {
	SubjectID      string
	MinHourlyRate  *float64
	MaxHourlyRate  *float64
	Location       string
	MinRating      *float64
	MinExperience  *int
	AvailableOnDay string
	AvailableFrom  string
	AvailableTo    string
	Page           int
	PageSize       int
}
