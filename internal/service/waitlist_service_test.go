package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

// fakeWaitlistStore mirrors the Redis-side semantics: dedup scan before
// append, 1-based positions, FIFO pop.
type fakeWaitlistStore struct {
	queues map[string][]string
}

func newFakeWaitlistStore() *fakeWaitlistStore {
	return &fakeWaitlistStore{queues: map[string][]string{}}
}

func (s *fakeWaitlistStore) Enqueue(_ context.Context, key, contactID string) (int, error) {
	for i, existing := range s.queues[key] {
		if existing == contactID {
			return i + 1, nil
		}
	}
	s.queues[key] = append(s.queues[key], contactID)
	return len(s.queues[key]), nil
}

func (s *fakeWaitlistStore) DequeueNext(_ context.Context, key string) (string, error) {
	q := s.queues[key]
	if len(q) == 0 {
		return "", nil
	}
	s.queues[key] = q[1:]
	return q[0], nil
}

var testSlot = models.Slot{TutorID: "tutor-1", BookingDate: "2026-09-02", StartTime: "10:00", EndTime: "11:00"}

func TestWaitlistKeyFormat(t *testing.T) {
	svc := NewWaitlistService(newFakeWaitlistStore(), "lesson_queue_", nil, zap.NewNop())
	assert.Equal(t, "lesson_queue_tutor-1_2026-09-02_10:00_11:00", svc.Key(testSlot))
}

func TestWaitlistEnqueue_FIFOPositions(t *testing.T) {
	store := newFakeWaitlistStore()
	svc := NewWaitlistService(store, "", nil, zap.NewNop())

	first, err := svc.Enqueue(context.Background(), testSlot, "first@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := svc.Enqueue(context.Background(), testSlot, "second@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, second)
}

func TestWaitlistEnqueue_Idempotent(t *testing.T) {
	store := newFakeWaitlistStore()
	svc := NewWaitlistService(store, "", nil, zap.NewNop())

	_, err := svc.Enqueue(context.Background(), testSlot, "first@example.com")
	require.NoError(t, err)
	_, err = svc.Enqueue(context.Background(), testSlot, "second@example.com")
	require.NoError(t, err)

	again, err := svc.Enqueue(context.Background(), testSlot, "first@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, again, "re-enqueue keeps the original position")
	assert.Len(t, store.queues[svc.Key(testSlot)], 2, "no duplicate entry")
}

func TestWaitlistDequeue_DrainsInOrder(t *testing.T) {
	store := newFakeWaitlistStore()
	svc := NewWaitlistService(store, "", nil, zap.NewNop())

	_, _ = svc.Enqueue(context.Background(), testSlot, "first@example.com")
	_, _ = svc.Enqueue(context.Background(), testSlot, "second@example.com")

	contact, err := svc.DequeueNext(context.Background(), testSlot)
	require.NoError(t, err)
	assert.Equal(t, "first@example.com", contact)

	contact, err = svc.DequeueNext(context.Background(), testSlot)
	require.NoError(t, err)
	assert.Equal(t, "second@example.com", contact)

	contact, err = svc.DequeueNext(context.Background(), testSlot)
	require.NoError(t, err)
	assert.Empty(t, contact)
}

func TestWaitlistSlotsAreIndependent(t *testing.T) {
	store := newFakeWaitlistStore()
	svc := NewWaitlistService(store, "", nil, zap.NewNop())

	other := testSlot
	other.StartTime, other.EndTime = "14:00", "15:00"

	pos1, _ := svc.Enqueue(context.Background(), testSlot, "a@example.com")
	pos2, _ := svc.Enqueue(context.Background(), other, "a@example.com")
	assert.Equal(t, 1, pos1)
	assert.Equal(t, 1, pos2)
}
