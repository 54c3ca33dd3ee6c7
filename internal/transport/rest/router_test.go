package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "surveyflow/docs"
	"surveyflow/internal/config"
	"surveyflow/internal/model"
	"surveyflow/internal/repository"
	"surveyflow/internal/service"
	"surveyflow/internal/transport/ws"
)

type memSurveys struct {
	mu   sync.Mutex
	byID map[string]*model.Survey
}

func (m *memSurveys) Create(_ context.Context, s *model.Survey) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = "generated"
	}
	m.byID[s.ID] = s
	return s.ID, nil
}

func (m *memSurveys) GetByID(_ context.Context, id string) (*model.Survey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id], nil
}

func (m *memSurveys) GetByHostID(_ context.Context, hostID string) ([]*model.Survey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Survey{}
	for _, s := range m.byID {
		if s.HostID == hostID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSurveys) Update(_ context.Context, s *model.Survey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[s.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[s.ID] = s
	return nil
}

func (m *memSurveys) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

type memResponses struct {
	mu   sync.Mutex
	byID map[string]*model.Response
}

func (m *memResponses) Save(_ context.Context, r *model.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[r.ID] = r
	return nil
}

func (m *memResponses) GetByID(_ context.Context, id string) (*model.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id], nil
}

func (m *memResponses) ListBySurvey(_ context.Context, surveyID string, _ int64) ([]*model.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Response{}
	for _, r := range m.byID {
		if r.SurveyID == surveyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memResponses) CountBySurvey(ctx context.Context, surveyID string) (int64, error) {
	list, _ := m.ListBySurvey(ctx, surveyID, 0)
	return int64(len(list)), nil
}

func (m *memResponses) DeleteBySurvey(_ context.Context, surveyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.byID {
		if r.SurveyID == surveyID {
			delete(m.byID, id)
		}
	}
	return nil
}

type memSessions struct {
	mu     sync.Mutex
	states map[string]model.SessionState
}

func (m *memSessions) Set(_ context.Context, s *model.SessionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[s.ResponseID] = *s
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (*model.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
	return nil
}

type memStats struct{}

func (memStats) Incr(context.Context, string, model.SessionStatus) error { return nil }
func (memStats) Get(_ context.Context, id string) (*model.SurveyStats, error) {
	return &model.SurveyStats{SurveyID: id}, nil
}
func (memStats) Reset(context.Context, string) error { return nil }

func valuePtr(v model.Value) *model.Value { return &v }

type testServer struct {
	handler http.Handler
	auth    *service.AuthService
	hostID  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	auth := service.NewAuthService(config.AuthConfig{
		HostUsername:       "admin",
		HostPassword:       "secret",
		JWTSecret:          "router-test",
		HostTokenTTL:       time.Hour,
		RespondentTokenTTL: time.Hour,
	})
	login, err := auth.Login("admin", "secret")
	require.NoError(t, err)

	surveys := &memSurveys{byID: map[string]*model.Survey{
		"pulse": {
			ID:     "pulse",
			HostID: login.HostID,
			Title:  "Pulse",
			Groups: []model.QuestionGroup{{
				ID: "g",
				Questions: []model.Question{
					{ID: "Q1", Type: model.QuestionTypeSingleChoice, Options: []string{"yes", "no"}, Required: true},
					{ID: "Q2", Type: model.QuestionTypeText, Required: true, Conditions: []model.Condition{
						{SourceQuestionID: "Q1", Operator: model.OpEquals, Value: valuePtr(model.TextValue("yes"))},
					}},
				},
			}},
		},
	}}

	responses := &memResponses{byID: map[string]*model.Response{}}
	surveySvc := service.NewSurveyService(surveys, responses, memStats{}, nil)
	responseSvc := service.NewResponseService(surveys, responses,
		&memSessions{states: map[string]model.SessionState{}}, memStats{}, auth, nil)
	hub := ws.NewHub()
	t.Cleanup(hub.Close)
	responseSvc.SetBroadcaster(hub)
	surveySvc.SetBroadcaster(hub)

	h := NewRouter(&Container{
		AuthService:     auth,
		SurveyService:   surveySvc,
		ResponseService: responseSvc,
		WSHub:           hub,
	})
	return &testServer{handler: h, auth: auth, hostID: login.HostID}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRespondentFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/v1/surveys/pulse/responses", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	started := decode[model.StartResponse](t, rec)
	id := started.View.ResponseID
	token := started.Token
	assert.Equal(t, []string{"Q1"}, started.View.VisibleQuestions)

	rec = s.do(t, http.MethodPut, "/v1/responses/"+id+"/answers/Q1", token, map[string]any{"value": "yes"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[model.SessionView](t, rec)
	assert.Equal(t, []string{"Q1", "Q2"}, view.VisibleQuestions)
	assert.Equal(t, 50, view.Progress.Percent)

	rec = s.do(t, http.MethodPost, "/v1/responses/"+id+"/submit", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	failed := decode[map[string]any](t, rec)
	assert.Contains(t, failed["violations"], "Q2")

	rec = s.do(t, http.MethodPut, "/v1/responses/"+id+"/answers/nope", token, map[string]any{"value": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, "/v1/responses/"+id+"/answers/Q2", token, map[string]any{"value": "because"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/responses/"+id+"/validate", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["valid"])

	rec = s.do(t, http.MethodPost, "/v1/responses/"+id+"/submit", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[model.Response](t, rec)
	assert.Equal(t, 2, resp.AnsweredCount)

	rec = s.do(t, http.MethodPost, "/v1/responses/"+id+"/abandon", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRespondentTokenIsScoped(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/v1/responses/whatever", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := s.auth.GenerateRespondentToken("pulse", "resp-a", "")
	require.NoError(t, err)
	rec = s.do(t, http.MethodGet, "/v1/responses/resp-b", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHostRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/v1/auth/login", "", model.LoginRequest{Username: "admin", Password: "secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[model.LoginResponse](t, rec).Token

	rec = s.do(t, http.MethodGet, "/v1/surveys", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/surveys/pulse", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Pulse", decode[model.Survey](t, rec).Title)

	bad := model.Survey{Title: "Broken", Groups: []model.QuestionGroup{{ID: "g", Questions: []model.Question{
		{ID: "a", Type: model.QuestionTypeText, Conditions: []model.Condition{{SourceQuestionID: "zzz", Operator: model.OpAnswered}}},
	}}}}
	rec = s.do(t, http.MethodPost, "/v1/surveys", token, bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/surveys/pulse/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pulse", decode[model.SurveyStats](t, rec).SurveyID)

	rec = s.do(t, http.MethodGet, "/v1/surveys/pulse/responses", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/surveys/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndDocs(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode[map[string]any](t, rec)
	assert.Equal(t, "2.0", doc["swagger"])
}
