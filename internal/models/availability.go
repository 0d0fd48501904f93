package models

// TutorAvailability is a recurring weekly window during which a tutor
// accepts bookings. Times are zero-padded "HH:MM" strings so that
// lexicographic comparison matches chronological order.
type TutorAvailability struct {
	ID          string `db:"id" json:"id"`
	TutorID     string `db:"tutor_id" json:"tutor_id"`
	DayOfWeek   string `db:"day_of_week" json:"day_of_week"`
	StartTime   string `db:"start_time" json:"start_time"`
	EndTime     string `db:"end_time" json:"end_time"`
	IsAvailable bool   `db:"is_available" json:"is_available"`
}
