package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// enqueueScript appends a contact to the slot's queue unless it is already
// present, returning its 1-based position either way. Runs as a single
// server-side script so concurrent enqueues cannot interleave.
var enqueueScript = redis.NewScript(`
local len = redis.call('LLEN', KEYS[1])
for i = 0, len - 1 do
  if redis.call('LINDEX', KEYS[1], i) == ARGV[1] then
    return i + 1
  end
end
return redis.call('RPUSH', KEYS[1], ARGV[1])
`)

// WaitlistRepository keeps a per-slot FIFO of waiting contacts in Redis.
// Entries have no TTL; a queue lives until drained or the store is cleared.
type WaitlistRepository struct {
	client *redis.Client
}

// NewWaitlistRepository creates a new waitlist repository.
func NewWaitlistRepository(client *redis.Client) *WaitlistRepository {
	return &WaitlistRepository{client: client}
}

// Enqueue adds contactID to the queue at key and returns its 1-based
// position. Enqueuing a contact that is already waiting returns its
// existing position without duplicating the entry.
func (r *WaitlistRepository) Enqueue(ctx context.Context, key, contactID string) (int, error) {
	pos, err := enqueueScript.Run(ctx, r.client, []string{key}, contactID).Int()
	if err != nil {
		return 0, fmt.Errorf("waitlist enqueue %s: %w", key, err)
	}
	return pos, nil
}

// DequeueNext pops and returns the earliest-enqueued contact for the key.
// An empty queue returns "", nil.
func (r *WaitlistRepository) DequeueNext(ctx context.Context, key string) (string, error) {
	contact, err := r.client.LPop(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("waitlist dequeue %s: %w", key, err)
	}
	return contact, nil
}

// Length reports the current queue depth for the key.
func (r *WaitlistRepository) Length(ctx context.Context, key string) (int, error) {
	n, err := r.client.LLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("waitlist length %s: %w", key, err)
	}
	return int(n), nil
}
