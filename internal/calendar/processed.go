package calendar

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	processedSetKey = "phone:processed_events"
	processedTTL    = 24 * time.Hour
)

// ProcessedSet remembers which events already had their call initiated, so a
// poll cycle never dials twice while the calendar patch is still in flight.
// The persisted marker on the event remains the source of truth across
// restarts; this set only covers the gap between call and patch.
type ProcessedSet interface {
	Add(ctx context.Context, eventID string) error
	Contains(ctx context.Context, eventID string) (bool, error)
}

type redisProcessedSet struct {
	client *redis.Client
}

func NewRedisProcessedSet(client *redis.Client) ProcessedSet {
	return &redisProcessedSet{client: client}
}

func (s *redisProcessedSet) Add(ctx context.Context, eventID string) error {
	if err := s.client.SAdd(ctx, processedSetKey, eventID).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, processedSetKey, processedTTL).Err()
}

func (s *redisProcessedSet) Contains(ctx context.Context, eventID string) (bool, error) {
	return s.client.SIsMember(ctx, processedSetKey, eventID).Result()
}
