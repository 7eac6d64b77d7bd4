package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventKeyPrefix = "stripe:webhook:event:"

const (
	statusPending   = "pending"
	statusProcessed = "processed"
)

// claimScript sets the pending status only when the event is unseen, and
// records its type and expiry in the same step.
var claimScript = redis.NewScript(`
if redis.call("HSETNX", KEYS[1], "status", ARGV[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], "type", ARGV[2], "received_at", ARGV[3])
redis.call("PEXPIRE", KEYS[1], ARGV[4])
return 1
`)

// releaseScript deletes the key only while the event is still pending.
var releaseScript = redis.NewScript(`
if redis.call("HGET", KEYS[1], "status") == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// EventLog tracks webhook deliveries in Redis. Entries expire after ttl, so a
// redelivery older than that is handled again.
type EventLog struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEventLog(client *redis.Client, ttl time.Duration) *EventLog {
	return &EventLog{client: client, ttl: ttl}
}

func eventKey(eventID string) string { return eventKeyPrefix + eventID }

func (l *EventLog) Claim(ctx context.Context, eventID, eventType string) (bool, error) {
	n, err := claimScript.Run(ctx, l.client,
		[]string{eventKey(eventID)},
		statusPending,
		eventType,
		time.Now().UTC().Format(time.RFC3339),
		l.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("claim event %s: %w", eventID, err)
	}
	return n == 1, nil
}

func (l *EventLog) Complete(ctx context.Context, eventID string) error {
	key := eventKey(eventID)
	pipe := l.client.TxPipeline()
	pipe.HSet(ctx, key, "status", statusProcessed, "processed_at", time.Now().UTC().Format(time.RFC3339))
	pipe.Expire(ctx, key, l.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("complete event %s: %w", eventID, err)
	}
	return nil
}

func (l *EventLog) Release(ctx context.Context, eventID string) error {
	if err := releaseScript.Run(ctx, l.client, []string{eventKey(eventID)}, statusPending).Err(); err != nil {
		return fmt.Errorf("release event %s: %w", eventID, err)
	}
	return nil
}
