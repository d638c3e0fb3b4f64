package store

import (
	"context"
	"fmt"

	platformredis "dundies/internal/platform/redis"
	dErrors "dundies/pkg/domain-errors"
)

const dedupKeyPrefix = "audit:event:"

// RedisDedupStore tracks processed event IDs in Redis so dedup survives
// security-service restarts. SETNX gives the atomic first-writer-wins check.
type RedisDedupStore struct {
	client *platformredis.Client
}

func NewRedisDedup(client *platformredis.Client) *RedisDedupStore {
	return &RedisDedupStore{client: client}
}

func (s *RedisDedupStore) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	first, err := s.client.SetNX(ctx, dedupKeyPrefix+eventID, 1, 0).Result()
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "mark event processed")
	}
	return first, nil
}

// Clear removes all processed-event keys. Testing aid.
func (s *RedisDedupStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, dedupKeyPrefix+"*", 500).Result()
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "scan processed events")
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return dErrors.Wrap(fmt.Errorf("delete %d keys: %w", len(keys), err), dErrors.CodeInternal, "clear processed events")
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
