package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

// Rejection messages surfaced to the booking forms. These are part of the
// API contract and must not be reworded.
const (
	MsgPastDate            = "Booking date cannot be in the past."
	MsgNotFuture           = "Booking date must be in the future."
	MsgOutsideAvailability = "Selected time is not within the tutor's available slots."
	MsgOutsideWindow       = "Selected time range is not within the available slot."
	MsgSlotTaken           = "The time slot is already booked."
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type bookingLessonRepository interface {
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	CreateIfFree(ctx context.Context, lesson *models.Lesson) (*models.Lesson, error)
	UpdateIfFree(ctx context.Context, lesson *models.Lesson) (*models.Lesson, error)
	Delete(ctx context.Context, id string) error
}

type bookingAvailabilityRepository interface {
	FindWindow(ctx context.Context, tutorID, dayOfWeek, start, end string) (*models.TutorAvailability, error)
}

type bookingTutorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Tutor, error)
}

type bookingUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type slotWaitlist interface {
	Enqueue(ctx context.Context, slot models.Slot, contactID string) (int, error)
	DequeueNext(ctx context.Context, slot models.Slot) (string, error)
}

type notifier interface {
	Send(ctx context.Context, subject, body string, recipients []string) error
	SendAsync(subject, body string, recipients []string)
}

// CreateBookingRequest describes a booking attempt against a tutor's slot.
type CreateBookingRequest struct {
	TutorID     string `json:"tutor_id" validate:"required"`
	SubjectID   string `json:"subject_id" validate:"required"`
	BookingDate string `json:"booking_date" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
}

// ModifyBookingRequest reschedules an existing lesson.
type ModifyBookingRequest struct {
	SubjectID   string `json:"subject_id" validate:"required"`
	BookingDate string `json:"booking_date" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	Status      string `json:"status" validate:"omitempty,oneof=booked completed canceled"`
}

// BookingResult reports a create outcome: either the persisted lesson or a
// waitlist position when the slot was taken.
type BookingResult struct {
	Queued   bool           `json:"queued,omitempty"`
	Position int            `json:"position,omitempty"`
	Lesson   *models.Lesson `json:"lesson,omitempty"`
}

// CancellationResult reports whether the cancellation emails went out. The
// lesson is gone either way.
type CancellationResult struct {
	Notified bool
}

// BookingService orchestrates the lesson lifecycle: slot validation,
// conflict handling, waitlisting and notification side effects.
type BookingService struct {
	lessons        bookingLessonRepository
	availabilities bookingAvailabilityRepository
	tutors         bookingTutorRepository
	users          bookingUserRepository
	waitlist       slotWaitlist
	notifier       notifier
	validator      *validator.Validate
	metrics        *MetricsService
	logger         *zap.Logger

	// now is swappable in tests; bookings compare against its date.
	now func() time.Time
}

// NewBookingService instantiates BookingService.
func NewBookingService(
	lessons bookingLessonRepository,
	availabilities bookingAvailabilityRepository,
	tutors bookingTutorRepository,
	users bookingUserRepository,
	waitlist slotWaitlist,
	notifier notifier,
	validate *validator.Validate,
	metrics *MetricsService,
	logger *zap.Logger,
) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		lessons:        lessons,
		availabilities: availabilities,
		tutors:         tutors,
		users:          users,
		waitlist:       waitlist,
		notifier:       notifier,
		validator:      validate,
		metrics:        metrics,
		logger:         logger,
		now:            time.Now,
	}
}

// Create runs the booking pipeline. A slot conflict does not reject: the
// acting user joins the slot's waitlist and learns their position.
func (s *BookingService) Create(ctx context.Context, actor models.UserInfo, req CreateBookingRequest) (*BookingResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	if err := s.validateSlot(ctx, req.TutorID, req.BookingDate, req.StartTime, req.EndTime); err != nil {
		s.metrics.RecordBooking(BookingOutcomeRejected)
		return nil, err
	}

	tutor, err := s.tutors.FindByID(ctx, req.TutorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor")
	}

	lesson := models.Lesson{
		StudentID:   actor.ID,
		TutorID:     req.TutorID,
		SubjectID:   req.SubjectID,
		BookingDate: req.BookingDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}

	conflict, err := s.lessons.CreateIfFree(ctx, &lesson)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to book lesson")
	}

	if conflict != nil {
		slot := models.Slot{TutorID: req.TutorID, BookingDate: req.BookingDate, StartTime: req.StartTime, EndTime: req.EndTime}
		position, err := s.waitlist.Enqueue(ctx, slot, actor.Email)
		if err != nil {
			return nil, err
		}
		s.metrics.RecordBooking(BookingOutcomeQueued)
		s.logger.Info("booking queued",
			zap.String("tutor_id", req.TutorID),
			zap.String("date", req.BookingDate),
			zap.Int("position", position),
		)
		return &BookingResult{Queued: true, Position: position}, nil
	}

	s.notifier.SendAsync("Lesson Booked",
		fmt.Sprintf("You have booked a lesson with %s for %s at %s.", tutor.FullName, lesson.BookingDate, lesson.StartTime),
		[]string{actor.Email})
	s.notifier.SendAsync("New Lesson Booked",
		fmt.Sprintf("A lesson has been booked with you by %s for %s at %s.", actor.FullName, lesson.BookingDate, lesson.StartTime),
		[]string{tutor.Email})

	s.metrics.RecordBooking(BookingOutcomeBooked)
	return &BookingResult{Lesson: &lesson}, nil
}

// Modify reruns the booking pipeline for the new slot, excluding the
// lesson's own id from conflict detection. Unlike Create, a conflict
// rejects outright and never enqueues.
func (s *BookingService) Modify(ctx context.Context, lessonID string, req ModifyBookingRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	lesson, err := s.lessons.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}

	if err := s.validateSlot(ctx, lesson.TutorID, req.BookingDate, req.StartTime, req.EndTime); err != nil {
		s.metrics.RecordBooking(BookingOutcomeRejected)
		return nil, err
	}

	updated := *lesson
	updated.SubjectID = req.SubjectID
	updated.BookingDate = req.BookingDate
	updated.StartTime = req.StartTime
	updated.EndTime = req.EndTime
	if req.Status != "" {
		updated.Status = models.LessonStatus(req.Status)
	}

	conflict, err := s.lessons.UpdateIfFree(ctx, &updated)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to modify lesson")
	}
	if conflict != nil {
		s.metrics.RecordBooking(BookingOutcomeRejected)
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, MsgSlotTaken)
	}

	tutor, student, err := s.lessonParties(ctx, &updated)
	if err != nil {
		s.logger.Warn("modified lesson party lookup failed", zap.String("lesson_id", lessonID), zap.Error(err))
	} else {
		details := fmt.Sprintf("New details:\nDate: %s\nTime: %s - %s\nStatus: %s",
			updated.BookingDate, updated.StartTime, updated.EndTime, updated.Status)
		s.notifier.SendAsync("Lesson Modified",
			fmt.Sprintf("Your lesson with %s has been modified. %s", tutor.FullName, details),
			[]string{student.Email})
		s.notifier.SendAsync("Lesson Modified",
			fmt.Sprintf("The lesson with %s has been modified. %s", student.FullName, details),
			[]string{tutor.Email})
	}

	s.metrics.RecordBooking(BookingOutcomeModified)
	return &updated, nil
}

// Cancel deletes the lesson unconditionally, notifies both parties, then
// offers the freed slot to the next waitlisted contact. The deletion is
// irrevocable: notification failures only downgrade the reported outcome,
// and waitlist drain failures are logged, never surfaced.
func (s *BookingService) Cancel(ctx context.Context, lessonID string) (*CancellationResult, error) {
	lesson, err := s.lessons.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}

	tutor, student, err := s.lessonParties(ctx, lesson)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson parties")
	}

	if err := s.lessons.Delete(ctx, lessonID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel lesson")
	}
	s.metrics.RecordBooking(BookingOutcomeCanceled)

	notified := true
	if err := s.notifier.Send(ctx, "Lesson Canceled",
		fmt.Sprintf("Your lesson with %s on %s has been canceled.", tutor.FullName, lesson.BookingDate),
		[]string{student.Email}); err != nil {
		notified = false
	}
	if err := s.notifier.Send(ctx, "Lesson Canceled",
		fmt.Sprintf("The lesson with %s on %s has been canceled.", student.FullName, lesson.BookingDate),
		[]string{tutor.Email}); err != nil {
		notified = false
	}

	s.drainWaitlist(ctx, lesson, tutor.FullName)

	return &CancellationResult{Notified: notified}, nil
}

func (s *BookingService) drainWaitlist(ctx context.Context, lesson *models.Lesson, tutorName string) {
	slot := models.SlotOf(*lesson)
	contact, err := s.waitlist.DequeueNext(ctx, slot)
	if err != nil {
		s.logger.Error("waitlist drain failed", zap.String("lesson_id", lesson.ID), zap.Error(err))
		return
	}
	if contact == "" {
		return
	}

	body := fmt.Sprintf("A slot has become available for your lesson with %s on %s from %s to %s. Please log in to book your lesson.",
		tutorName, lesson.BookingDate, lesson.StartTime, lesson.EndTime)
	if err := s.notifier.Send(ctx, "Slot Available", body, []string{contact}); err != nil {
		s.logger.Error("waitlist notification failed", zap.String("contact", contact), zap.Error(err))
		return
	}
	s.logger.Info("waitlist notification sent", zap.String("contact", contact), zap.String("lesson_id", lesson.ID))
}

// validateSlot applies the booking checks in their fixed order,
// short-circuiting on the first failure. The past-date rule precedes the
// stricter future-date rule, and the in-window bounds re-check follows the
// containment lookup; both earlier rules are kept as given even though the
// later ones subsume them.
func (s *BookingService) validateSlot(ctx context.Context, tutorID, date, start, end string) error {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid booking date.")
	}
	if _, err := time.Parse(timeLayout, start); err != nil {
		return appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid start time.")
	}
	if _, err := time.Parse(timeLayout, end); err != nil {
		return appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid end time.")
	}
	if end <= start {
		return appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "End time must be after start time.")
	}

	today := s.now().Format(dateLayout)
	if date < today {
		return appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, MsgPastDate)
	}
	if date <= today {
		return appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, MsgNotFuture)
	}

	window, err := s.availabilities.FindWindow(ctx, tutorID, day.Weekday().String(), start, end)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check availability")
	}
	if window == nil {
		return appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, MsgOutsideAvailability)
	}
	if start < window.StartTime || end > window.EndTime {
		return appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, MsgOutsideWindow)
	}

	return nil
}

func (s *BookingService) lessonParties(ctx context.Context, lesson *models.Lesson) (*models.Tutor, *models.User, error) {
	tutor, err := s.tutors.FindByID(ctx, lesson.TutorID)
	if err != nil {
		return nil, nil, fmt.Errorf("load tutor %s: %w", lesson.TutorID, err)
	}
	student, err := s.users.FindByID(ctx, lesson.StudentID)
	if err != nil {
		return nil, nil, fmt.Errorf("load student %s: %w", lesson.StudentID, err)
	}
	return tutor, student, nil
}
