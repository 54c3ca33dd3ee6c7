package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"surveyflow/internal/model"
)

// StatsCache counts session lifecycle events per survey
type StatsCache interface {
	Incr(ctx context.Context, surveyID string, status model.SessionStatus) error
	Get(ctx context.Context, surveyID string) (*model.SurveyStats, error)
	Reset(ctx context.Context, surveyID string) error
}

type statsCache struct {
	client *redis.Client
}

func NewStatsCache(client *redis.Client) StatsCache {
	return &statsCache{client: client}
}

func (c *statsCache) key(surveyID string) string {
	return fmt.Sprintf("survey:%s:stats", surveyID)
}

// Incr bumps the counter for the status a session just entered
func (c *statsCache) Incr(ctx context.Context, surveyID string, status model.SessionStatus) error {
	return c.client.HIncrBy(ctx, c.key(surveyID), string(status), 1).Err()
}

func (c *statsCache) Get(ctx context.Context, surveyID string) (*model.SurveyStats, error) {
	fields, err := c.client.HGetAll(ctx, c.key(surveyID)).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	stats := &model.SurveyStats{SurveyID: surveyID}
	stats.Started = parseCount(fields[string(model.SessionInProgress)])
	stats.Submitted = parseCount(fields[string(model.SessionSubmitted)])
	stats.Abandoned = parseCount(fields[string(model.SessionAbandoned)])
	return stats, nil
}

func (c *statsCache) Reset(ctx context.Context, surveyID string) error {
	return c.client.Del(ctx, c.key(surveyID)).Err()
}

func parseCount(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
