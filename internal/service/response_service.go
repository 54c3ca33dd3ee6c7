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

var ErrResponseNotFound = errors.New("response not found")

// ResponseService drives respondent sessions. In-progress state lives in
// the session cache between requests; submitted snapshots go to the
// response repository.
type ResponseService struct {
	provider    SurveyProvider
	responses   repository.ResponseRepo
	sessions    cache.SessionCache
	stats       cache.StatsCache
	authSvc     *AuthService
	eval        *survey.Evaluator
	broadcaster Broadcaster
	opts        []survey.SessionOption
}

// NewResponseService creates a new response service
func NewResponseService(
	provider SurveyProvider,
	responses repository.ResponseRepo,
	sessions cache.SessionCache,
	stats cache.StatsCache,
	authSvc *AuthService,
	eval *survey.Evaluator,
) *ResponseService {
	if eval == nil {
		eval = survey.NewEvaluator()
	}
	return &ResponseService{
		provider:  provider,
		responses: responses,
		sessions:  sessions,
		stats:     stats,
		authSvc:   authSvc,
		eval:      eval,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *ResponseService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetSessionOptions adds options applied to every session, e.g. a fixed clock in tests
func (s *ResponseService) SetSessionOptions(opts ...survey.SessionOption) {
	s.opts = opts
}

func (s *ResponseService) sessionOptions(extra ...survey.SessionOption) []survey.SessionOption {
	opts := []survey.SessionOption{survey.WithEvaluator(s.eval)}
	opts = append(opts, s.opts...)
	return append(opts, extra...)
}

func (s *ResponseService) definition(ctx context.Context, surveyID string) (*model.Survey, error) {
	def, err := s.provider.GetByID(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}
	if def == nil {
		return nil, ErrSurveyNotFound
	}
	return def, nil
}

// Start opens a new session on surveyID and returns the respondent token
func (s *ResponseService) Start(ctx context.Context, surveyID, respondentID string) (*model.StartResponse, error) {
	def, err := s.definition(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	sess := survey.NewSession(s.sessionOptions(survey.WithRespondent(respondentID))...)
	if err := sess.Start(def); err != nil {
		return nil, err
	}

	token, err := s.authSvc.GenerateRespondentToken(def.ID, sess.ResponseID(), respondentID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	s.count(ctx, def.ID, model.SessionInProgress)

	view := sess.View()
	s.broadcast(def.ID, EventResponseStarted, map[string]interface{}{
		"responseId": view.ResponseID,
		"progress":   view.Progress,
	})

	log.Info().Str("survey", def.ID).Str("response", view.ResponseID).Msg("response started")
	return &model.StartResponse{Token: token, View: view}, nil
}

// load restores a session. Submitted responses come back as a read-only
// submitted session so further changes fail with an invalid state.
func (s *ResponseService) load(ctx context.Context, responseID string) (*survey.Session, error) {
	state, err := s.sessions.Get(ctx, responseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if state == nil {
		resp, err := s.responses.GetByID(ctx, responseID)
		if err != nil {
			return nil, fmt.Errorf("failed to get response: %w", err)
		}
		if resp == nil {
			return nil, ErrResponseNotFound
		}
		answers := make(model.Answers, len(resp.Answers))
		for _, ans := range resp.Answers {
			answers[ans.QuestionID] = ans
		}
		state = &model.SessionState{
			ResponseID:   resp.ID,
			SurveyID:     resp.SurveyID,
			RespondentID: resp.RespondentID,
			Status:       resp.Status,
			StartedAt:    resp.StartedAt,
			Answers:      answers,
		}
	}

	def, err := s.definition(ctx, state.SurveyID)
	if err != nil {
		return nil, err
	}
	return survey.Restore(def, *state, s.sessionOptions()...)
}

func (s *ResponseService) save(ctx context.Context, sess *survey.Session) error {
	state := sess.State()
	if err := s.sessions.Set(ctx, &state); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// mutate loads a session, applies fn, persists and reports progress
func (s *ResponseService) mutate(ctx context.Context, responseID string, fn func(*survey.Session) error) (*model.SessionView, error) {
	sess, err := s.load(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	view := sess.View()
	s.broadcast(view.SurveyID, EventProgressUpdate, map[string]interface{}{
		"responseId": view.ResponseID,
		"progress":   view.Progress,
	})
	return view, nil
}

// SetAnswer records an answer and returns the updated view
func (s *ResponseService) SetAnswer(ctx context.Context, responseID, questionID string, value model.Value) (*model.SessionView, error) {
	return s.mutate(ctx, responseID, func(sess *survey.Session) error {
		return sess.SetAnswer(questionID, value)
	})
}

// Skip marks a question as explicitly skipped
func (s *ResponseService) Skip(ctx context.Context, responseID, questionID string) (*model.SessionView, error) {
	return s.mutate(ctx, responseID, func(sess *survey.Session) error {
		return sess.SkipQuestion(questionID)
	})
}

// Clear removes whatever was recorded for a question
func (s *ResponseService) Clear(ctx context.Context, responseID, questionID string) (*model.SessionView, error) {
	return s.mutate(ctx, responseID, func(sess *survey.Session) error {
		return sess.ClearAnswer(questionID)
	})
}

// Get returns the current view of a response
func (s *ResponseService) Get(ctx context.Context, responseID string) (*model.SessionView, error) {
	sess, err := s.load(ctx, responseID)
	if err != nil {
		return nil, err
	}
	return sess.View(), nil
}

// Validate returns the current violations without changing anything
func (s *ResponseService) Validate(ctx context.Context, responseID string) (map[string][]string, error) {
	sess, err := s.load(ctx, responseID)
	if err != nil {
		return nil, err
	}
	return sess.Validate(), nil
}

// Submit finalizes a response. With violations the session is untouched
// and the error is a *survey.ValidationFailedError.
func (s *ResponseService) Submit(ctx context.Context, responseID string) (*model.Response, error) {
	sess, err := s.load(ctx, responseID)
	if err != nil {
		return nil, err
	}
	resp, err := sess.Submit()
	if err != nil {
		return nil, err
	}

	if err := s.responses.Save(ctx, resp); err != nil {
		return nil, fmt.Errorf("failed to save response: %w", err)
	}
	if err := s.sessions.Delete(ctx, responseID); err != nil {
		log.Warn().Err(err).Str("response", responseID).Msg("failed to drop submitted session")
	}
	s.count(ctx, resp.SurveyID, model.SessionSubmitted)

	s.broadcast(resp.SurveyID, EventResponseSubmitted, map[string]interface{}{
		"responseId":    resp.ID,
		"answeredCount": resp.AnsweredCount,
		"visibleCount":  resp.VisibleCount,
		"durationMs":    resp.DurationMS,
	})

	log.Info().Str("survey", resp.SurveyID).Str("response", resp.ID).Int("answered", resp.AnsweredCount).Msg("response submitted")
	return resp, nil
}

// Abandon drops an in-progress response
func (s *ResponseService) Abandon(ctx context.Context, responseID string) error {
	sess, err := s.load(ctx, responseID)
	if err != nil {
		return err
	}
	surveyID := sess.Survey().ID
	if err := sess.Abandon(); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, responseID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.count(ctx, surveyID, model.SessionAbandoned)

	s.broadcast(surveyID, EventResponseAbandoned, map[string]interface{}{
		"responseId": responseID,
	})
	return nil
}

// ListSubmitted returns the newest submitted responses for a survey
func (s *ResponseService) ListSubmitted(ctx context.Context, surveyID string, limit int64) ([]*model.Response, error) {
	return s.responses.ListBySurvey(ctx, surveyID, limit)
}

// Stats merges live counters with the stored submission count
func (s *ResponseService) Stats(ctx context.Context, surveyID string) (*model.SurveyStats, error) {
	stats, err := s.stats.Get(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	submitted, err := s.responses.CountBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}
	stats.Submitted = submitted
	return stats, nil
}

// count is best effort; counters never fail a respondent's request
func (s *ResponseService) count(ctx context.Context, surveyID string, status model.SessionStatus) {
	if err := s.stats.Incr(ctx, surveyID, status); err != nil {
		log.Warn().Err(err).Str("survey", surveyID).Str("status", string(status)).Msg("failed to update stats")
	}
}

func (s *ResponseService) broadcast(surveyID, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToHosts(surveyID, msgType, payload)
	}
}
