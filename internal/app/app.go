// Package app connects the stores and builds the service graph shared by
// the serve and import commands.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyflow/internal/cache"
	"surveyflow/internal/config"
	"surveyflow/internal/repository"
	"surveyflow/internal/service"
	"surveyflow/internal/survey"
)

type App struct {
	Config *config.Config

	Mongo *mongo.Client
	Redis *redis.Client

	SurveyRepo   repository.SurveyRepo
	ResponseRepo repository.ResponseRepo
	SessionCache cache.SessionCache
	StatsCache   cache.StatsCache

	Evaluator       *survey.Evaluator
	AuthService     *service.AuthService
	SurveyService   *service.SurveyService
	ResponseService *service.ResponseService

	provider service.SurveyProvider
}

// Option adjusts the graph before services are built
type Option func(*App)

// WithSurveyProvider makes respondent sessions read definitions from p
// instead of the survey collection.
func WithSurveyProvider(p service.SurveyProvider) Option {
	return func(a *App) { a.provider = p }
}

// New connects MongoDB and Redis and wires repositories, caches and services
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	rdb := redis.NewClient(&redis.Options{
		Addr: strings.TrimPrefix(cfg.Redis.Addr, "redis://"),
	})
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		mongoClient.Disconnect(ctx)
		rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	db := mongoClient.Database(cfg.Mongo.Database)
	a := &App{
		Config:       cfg,
		Mongo:        mongoClient,
		Redis:        rdb,
		SurveyRepo:   repository.NewSurveyRepo(db),
		ResponseRepo: repository.NewResponseRepo(db),
		SessionCache: cache.NewSessionCache(rdb, cfg.Redis.SessionTTL),
		StatsCache:   cache.NewStatsCache(rdb),
		Evaluator:    survey.NewEvaluator(survey.WithLogger(log.Logger)),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.provider == nil {
		a.provider = a.SurveyRepo
	}

	a.AuthService = service.NewAuthService(cfg.Auth)
	a.SurveyService = service.NewSurveyService(a.SurveyRepo, a.ResponseRepo, a.StatsCache, a.Evaluator)
	a.ResponseService = service.NewResponseService(a.provider, a.ResponseRepo, a.SessionCache, a.StatsCache, a.AuthService, a.Evaluator)

	return a, nil
}

// Close disconnects both stores
func (a *App) Close(ctx context.Context) {
	if err := a.Redis.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close Redis")
	}
	if err := a.Mongo.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to disconnect MongoDB")
	}
}
