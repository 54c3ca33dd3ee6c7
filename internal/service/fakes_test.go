package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"surveyflow/internal/config"
	"surveyflow/internal/model"
	"surveyflow/internal/repository"
)

type fakeSurveyRepo struct {
	mu      sync.Mutex
	surveys map[string]*model.Survey
	nextID  int
}

func newFakeSurveyRepo(defs ...*model.Survey) *fakeSurveyRepo {
	r := &fakeSurveyRepo{surveys: make(map[string]*model.Survey)}
	for _, d := range defs {
		r.surveys[d.ID] = d
	}
	return r
}

func (r *fakeSurveyRepo) Create(_ context.Context, s *model.Survey) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		r.nextID++
		s.ID = fmt.Sprintf("survey-%d", r.nextID)
	}
	r.surveys[s.ID] = s
	return s.ID, nil
}

func (r *fakeSurveyRepo) GetByID(_ context.Context, id string) (*model.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surveys[id], nil
}

func (r *fakeSurveyRepo) GetByHostID(_ context.Context, hostID string) ([]*model.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Survey{}
	for _, s := range r.surveys {
		if s.HostID == hostID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSurveyRepo) Update(_ context.Context, s *model.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surveys[s.ID]; !ok {
		return repository.ErrNotFound
	}
	r.surveys[s.ID] = s
	return nil
}

func (r *fakeSurveyRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surveys[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.surveys, id)
	return nil
}

type fakeResponseRepo struct {
	mu        sync.Mutex
	responses map[string]*model.Response
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{responses: make(map[string]*model.Response)}
}

func (r *fakeResponseRepo) Save(_ context.Context, resp *model.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[resp.ID] = resp
	return nil
}

func (r *fakeResponseRepo) GetByID(_ context.Context, id string) (*model.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.responses[id], nil
}

func (r *fakeResponseRepo) ListBySurvey(_ context.Context, surveyID string, _ int64) ([]*model.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Response{}
	for _, resp := range r.responses {
		if resp.SurveyID == surveyID {
			out = append(out, resp)
		}
	}
	return out, nil
}

func (r *fakeResponseRepo) CountBySurvey(ctx context.Context, surveyID string) (int64, error) {
	list, _ := r.ListBySurvey(ctx, surveyID, 0)
	return int64(len(list)), nil
}

func (r *fakeResponseRepo) DeleteBySurvey(_ context.Context, surveyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, resp := range r.responses {
		if resp.SurveyID == surveyID {
			delete(r.responses, id)
		}
	}
	return nil
}

type fakeSessionCache struct {
	mu     sync.Mutex
	states map[string]model.SessionState
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{states: make(map[string]model.SessionState)}
}

func (c *fakeSessionCache) Set(_ context.Context, state *model.SessionState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[state.ResponseID] = *state
	return nil
}

func (c *fakeSessionCache) Get(_ context.Context, id string) (*model.SessionState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.states[id]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (c *fakeSessionCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, id)
	return nil
}

type fakeStatsCache struct {
	mu     sync.Mutex
	counts map[string]map[model.SessionStatus]int64
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{counts: make(map[string]map[model.SessionStatus]int64)}
}

func (c *fakeStatsCache) Incr(_ context.Context, surveyID string, status model.SessionStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts[surveyID] == nil {
		c.counts[surveyID] = make(map[model.SessionStatus]int64)
	}
	c.counts[surveyID][status]++
	return nil
}

func (c *fakeStatsCache) Get(_ context.Context, surveyID string) (*model.SurveyStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.counts[surveyID]
	return &model.SurveyStats{
		SurveyID:  surveyID,
		Started:   m[model.SessionInProgress],
		Submitted: m[model.SessionSubmitted],
		Abandoned: m[model.SessionAbandoned],
	}, nil
}

func (c *fakeStatsCache) Reset(_ context.Context, surveyID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counts, surveyID)
	return nil
}

type sentEvent struct {
	SurveyID string
	Type     string
	Payload  interface{}
}

type fakeBroadcaster struct {
	mu           sync.Mutex
	events       []sentEvent
	disconnected []string
}

func (b *fakeBroadcaster) BroadcastToHosts(surveyID, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, sentEvent{SurveyID: surveyID, Type: msgType, Payload: payload})
}

func (b *fakeBroadcaster) DisconnectSurvey(surveyID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnected = append(b.disconnected, surveyID)
}

func (b *fakeBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Type)
	}
	return out
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		HostUsername:       "admin",
		HostPassword:       "secret",
		JWTSecret:          "test-secret",
		HostTokenTTL:       time.Hour,
		RespondentTokenTTL: time.Hour,
	}
}

func valuePtr(v model.Value) *model.Value { return &v }

func feedbackSurvey() *model.Survey {
	return &model.Survey{
		ID:     "feedback",
		HostID: "host_1",
		Title:  "Feedback",
		Groups: []model.QuestionGroup{{
			ID: "main",
			Questions: []model.Question{
				{ID: "happy", Type: model.QuestionTypeSingleChoice, Options: []string{"yes", "no"}, Required: true},
				{
					ID:       "why",
					Type:     model.QuestionTypeText,
					Required: true,
					Conditions: []model.Condition{
						{SourceQuestionID: "happy", Operator: model.OpEquals, Value: valuePtr(model.TextValue("no"))},
					},
				},
				{ID: "score", Type: model.QuestionTypeRating, ScaleMin: 1, ScaleMax: 5, ScaleStep: 1},
			},
		}},
	}
}
