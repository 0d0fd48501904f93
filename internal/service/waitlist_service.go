package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type waitlistStore interface {
	Enqueue(ctx context.Context, key, contactID string) (int, error)
	DequeueNext(ctx context.Context, key string) (string, error)
}

// WaitlistService owns the per-slot FIFO of users interested in an
// already-booked slot. It is injected into the booking service rather than
// reached through shared global state.
type WaitlistService struct {
	store     waitlistStore
	keyPrefix string
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewWaitlistService constructs a WaitlistService.
func NewWaitlistService(store waitlistStore, keyPrefix string, metrics *MetricsService, logger *zap.Logger) *WaitlistService {
	if keyPrefix == "" {
		keyPrefix = "lesson_queue_"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WaitlistService{store: store, keyPrefix: keyPrefix, metrics: metrics, logger: logger}
}

// Key builds the store key for a slot: prefix + tutor/date/start/end.
func (s *WaitlistService) Key(slot models.Slot) string {
	return fmt.Sprintf("%s%s_%s_%s_%s", s.keyPrefix, slot.TutorID, slot.BookingDate, slot.StartTime, slot.EndTime)
}

// Enqueue adds the contact to the slot's queue and returns its 1-based
// position. Idempotent: a contact already waiting keeps its position.
func (s *WaitlistService) Enqueue(ctx context.Context, slot models.Slot, contactID string) (int, error) {
	position, err := s.store.Enqueue(ctx, s.Key(slot), contactID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to join waitlist")
	}
	s.metrics.RecordWaitlistOp("enqueue")
	s.logger.Info("waitlist enqueue",
		zap.String("tutor_id", slot.TutorID),
		zap.String("date", slot.BookingDate),
		zap.Int("position", position),
	)
	return position, nil
}

// DequeueNext pops the earliest-enqueued contact for the slot, or "" when
// the queue is empty. Called once per lesson cancellation.
func (s *WaitlistService) DequeueNext(ctx context.Context, slot models.Slot) (string, error) {
	contact, err := s.store.DequeueNext(ctx, s.Key(slot))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to drain waitlist")
	}
	if contact != "" {
		s.metrics.RecordWaitlistOp("dequeue")
	}
	return contact, nil
}
