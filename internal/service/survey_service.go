package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"surveyflow/internal/cache"
	"surveyflow/internal/model"
	"surveyflow/internal/repository"
	"surveyflow/internal/survey"
)

var (
	ErrSurveyNotFound = errors.New("survey not found")
	ErrInvalidSurvey  = errors.New("invalid survey definition")
	ErrForbidden      = errors.New("survey belongs to another host")
)

// SurveyProvider supplies survey definitions to response sessions. The
// Mongo repository and the file catalog both satisfy it.
type SurveyProvider interface {
	GetByID(ctx context.Context, id string) (*model.Survey, error)
}

// SurveyService handles survey CRUD operations
type SurveyService struct {
	surveyRepo  repository.SurveyRepo
	responses   repository.ResponseRepo
	stats       cache.StatsCache
	eval        *survey.Evaluator
	broadcaster Broadcaster
}

// NewSurveyService creates a new survey service. Deleting a survey also
// deletes its submitted responses and counters.
func NewSurveyService(
	surveyRepo repository.SurveyRepo,
	responses repository.ResponseRepo,
	stats cache.StatsCache,
	eval *survey.Evaluator,
) *SurveyService {
	if eval == nil {
		eval = survey.NewEvaluator()
	}
	return &SurveyService{
		surveyRepo: surveyRepo,
		responses:  responses,
		stats:      stats,
		eval:       eval,
	}
}

// SetBroadcaster sets the broadcaster used to close dashboards of deleted surveys
func (s *SurveyService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Check validates a definition without storing it
func (s *SurveyService) Check(def *model.Survey) error {
	if err := s.eval.CheckSurvey(def); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSurvey, err)
	}
	return nil
}

// Create validates and stores a new survey for hostID
func (s *SurveyService) Create(ctx context.Context, hostID string, def *model.Survey) (string, error) {
	if err := s.Check(def); err != nil {
		return "", err
	}
	def.HostID = hostID
	id, err := s.surveyRepo.Create(ctx, def)
	if err != nil {
		return "", fmt.Errorf("failed to create survey: %w", err)
	}
	return id, nil
}

// GetByID retrieves a survey by ID
func (s *SurveyService) GetByID(ctx context.Context, id string) (*model.Survey, error) {
	def, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}
	if def == nil {
		return nil, ErrSurveyNotFound
	}
	return def, nil
}

// GetOwned retrieves a survey and checks it belongs to hostID
func (s *SurveyService) GetOwned(ctx context.Context, hostID, id string) (*model.Survey, error) {
	def, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if def.HostID != hostID {
		return nil, ErrForbidden
	}
	return def, nil
}

// GetByHostID retrieves all surveys for a host
func (s *SurveyService) GetByHostID(ctx context.Context, hostID string) ([]*model.Survey, error) {
	return s.surveyRepo.GetByHostID(ctx, hostID)
}

// Update replaces the definition. Sessions already in progress keep
// evaluating against the version they restored with until their next load.
func (s *SurveyService) Update(ctx context.Context, hostID string, def *model.Survey) error {
	existing, err := s.GetOwned(ctx, hostID, def.ID)
	if err != nil {
		return err
	}
	if err := s.Check(def); err != nil {
		return err
	}
	def.HostID = existing.HostID
	def.CreatedAt = existing.CreatedAt
	if err := s.surveyRepo.Update(ctx, def); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSurveyNotFound
		}
		return fmt.Errorf("failed to update survey: %w", err)
	}
	return nil
}

// Delete deletes a survey with its submitted responses and counters, and
// closes any dashboards watching it.
func (s *SurveyService) Delete(ctx context.Context, hostID, id string) error {
	if _, err := s.GetOwned(ctx, hostID, id); err != nil {
		return err
	}
	if err := s.surveyRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSurveyNotFound
		}
		return fmt.Errorf("failed to delete survey: %w", err)
	}

	if s.responses != nil {
		if err := s.responses.DeleteBySurvey(ctx, id); err != nil {
			return fmt.Errorf("failed to delete responses: %w", err)
		}
	}
	if s.stats != nil {
		if err := s.stats.Reset(ctx, id); err != nil {
			log.Warn().Err(err).Str("survey", id).Msg("failed to reset survey stats")
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.DisconnectSurvey(id)
	}
	log.Info().Str("survey", id).Str("host", hostID).Msg("survey deleted")
	return nil
}
