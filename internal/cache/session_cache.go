package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"surveyflow/internal/model"
)

// SessionCache keeps in-progress session state between requests
type SessionCache interface {
	Set(ctx context.Context, state *model.SessionState) error
	Get(ctx context.Context, responseID string) (*model.SessionState, error)
	Delete(ctx context.Context, responseID string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a session cache; every write refreshes the ttl
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *sessionCache) key(responseID string) string {
	return fmt.Sprintf("session:%s", responseID)
}

func (c *sessionCache) Set(ctx context.Context, state *model.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(state.ResponseID), data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, responseID string) (*model.SessionState, error) {
	data, err := c.client.Get(ctx, c.key(responseID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state model.SessionState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", responseID, err)
	}
	return &state, nil
}

func (c *sessionCache) Delete(ctx context.Context, responseID string) error {
	return c.client.Del(ctx, c.key(responseID)).Err()
}
