package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"leaguedesk/internal/roster/models"
	"leaguedesk/pkg/platform/sentinel"
)

// RedisStore publishes batch progress with a TTL so callers that did not
// wait on the import response can poll from any instance. Progress is
// operational state, not a record: expiry is acceptable.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(batchID string) string {
	return "leaguedesk:import:progress:" + batchID
}

func (s *RedisStore) Save(ctx context.Context, p *models.BatchProgress) error {
	p.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal batch progress: %w", err)
	}
	if err := s.client.Set(ctx, key(p.BatchID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save batch progress: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, batchID string) (*models.BatchProgress, error) {
	payload, err := s.client.Get(ctx, key(batchID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get batch progress: %w", err)
	}
	var p models.BatchProgress
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("unmarshal batch progress: %w", err)
	}
	return &p, nil
}
