package survey

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"surveyflow/internal/model"
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithEvaluator shares an evaluator (and its expression cache) between sessions.
func WithEvaluator(e *Evaluator) SessionOption {
	return func(s *Session) {
		if e != nil {
			s.eval = e
		}
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how response ids are minted.
func WithIDGenerator(newID func() string) SessionOption {
	return func(s *Session) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithRespondent tags the session with an external respondent id.
func WithRespondent(id string) SessionOption {
	return func(s *Session) {
		s.respondentID = id
	}
}

// Session is one respondent's pass through a survey. It is not safe for
// concurrent use; one respondent drives it synchronously.
type Session struct {
	survey       *model.Survey
	eval         *Evaluator
	status       model.SessionStatus
	responseID   string
	respondentID string
	startedAt    time.Time
	answers      model.Answers

	now   func() time.Time
	newID func() string
}

// NewSession returns a session in the not_started state.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		status: model.SessionNotStarted,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.eval == nil {
		s.eval = NewEvaluator()
	}
	return s
}

// Restore rebuilds a session from a saved state and the survey it was started on.
func Restore(def *model.Survey, state model.SessionState, opts ...SessionOption) (*Session, error) {
	if def == nil {
		return nil, errors.New("survey: restore requires a survey definition")
	}
	if state.SurveyID != "" && def.ID != "" && state.SurveyID != def.ID {
		return nil, fmt.Errorf("survey: state belongs to survey %s, not %s", state.SurveyID, def.ID)
	}
	s := NewSession(opts...)
	s.survey = def
	s.status = state.Status
	s.responseID = state.ResponseID
	if state.RespondentID != "" {
		s.respondentID = state.RespondentID
	}
	s.startedAt = state.StartedAt
	s.answers = state.Answers.Clone()
	return s, nil
}

// Start moves not_started -> in_progress with a fresh response id and an
// empty answer store.
func (s *Session) Start(def *model.Survey) error {
	if s.status != model.SessionNotStarted {
		return stateError("start", s.status)
	}
	if def == nil {
		return errors.New("survey: start requires a survey definition")
	}
	s.survey = def
	s.responseID = s.newID()
	s.startedAt = s.now()
	s.answers = make(model.Answers)
	s.status = model.SessionInProgress
	return nil
}

// SetAnswer records value for a question, replacing any earlier answer.
func (s *Session) SetAnswer(questionID string, value model.Value) error {
	if err := s.mutable("set answer", questionID); err != nil {
		return err
	}
	s.answers[questionID] = model.Answer{
		QuestionID: questionID,
		Value:      value,
		AnsweredAt: s.now(),
	}
	return nil
}

// SkipQuestion records an explicit skip, which is distinct from no answer.
func (s *Session) SkipQuestion(questionID string) error {
	if err := s.mutable("skip question", questionID); err != nil {
		return err
	}
	s.answers[questionID] = model.Answer{
		QuestionID: questionID,
		Skipped:    true,
		AnsweredAt: s.now(),
	}
	return nil
}

// ClearAnswer forgets whatever was recorded for a question.
func (s *Session) ClearAnswer(questionID string) error {
	if err := s.mutable("clear answer", questionID); err != nil {
		return err
	}
	delete(s.answers, questionID)
	return nil
}

func (s *Session) mutable(op, questionID string) error {
	if s.status != model.SessionInProgress {
		return stateError(op, s.status)
	}
	if _, ok := s.survey.Question(questionID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	return nil
}

// Validate returns violations for the currently visible questions. It never
// changes the session.
func (s *Session) Validate() map[string][]string {
	if s.survey == nil {
		return map[string][]string{}
	}
	return s.eval.ValidateAnswers(s.survey.Groups, s.answers)
}

// Progress reports completion of the currently visible questions.
func (s *Session) Progress() model.Progress {
	if s.survey == nil {
		return s.eval.CalculateProgress(nil, nil)
	}
	return s.eval.CalculateProgress(s.survey.Groups, s.answers)
}

// VisibleGroups returns the visible groups with their visible questions.
func (s *Session) VisibleGroups() []model.QuestionGroup {
	if s.survey == nil {
		return nil
	}
	return s.eval.VisibleGroups(s.survey.Groups, s.answers)
}

// VisibleQuestions returns the visible questions in declaration order.
func (s *Session) VisibleQuestions() []model.Question {
	if s.survey == nil {
		return nil
	}
	return s.eval.VisibleQuestions(s.survey.Groups, s.answers)
}

// Submit validates and, when clean, moves in_progress -> submitted and
// returns the response snapshot. With violations it returns a
// *ValidationFailedError and the session stays in progress.
func (s *Session) Submit() (*model.Response, error) {
	if s.status != model.SessionInProgress {
		return nil, stateError("submit", s.status)
	}
	if violations := s.Validate(); len(violations) > 0 {
		return nil, &ValidationFailedError{Violations: violations}
	}

	visible := s.VisibleQuestions()
	answered := 0
	for _, q := range visible {
		if s.answers.Answered(q.ID) {
			answered++
		}
	}

	submittedAt := s.now()
	resp := &model.Response{
		ID:             s.responseID,
		SurveyID:       s.survey.ID,
		RespondentID:   s.respondentID,
		Status:         model.SessionSubmitted,
		Answers:        s.answers.Sorted(),
		TotalQuestions: s.survey.QuestionCount(),
		VisibleCount:   len(visible),
		AnsweredCount:  answered,
		StartedAt:      s.startedAt,
		SubmittedAt:    submittedAt,
		DurationMS:     submittedAt.Sub(s.startedAt).Milliseconds(),
	}

	s.status = model.SessionSubmitted
	s.answers = nil
	return resp, nil
}

// Abandon moves in_progress -> abandoned and drops the recorded answers.
func (s *Session) Abandon() error {
	if s.status != model.SessionInProgress {
		return stateError("abandon", s.status)
	}
	s.status = model.SessionAbandoned
	s.answers = nil
	return nil
}

func (s *Session) Status() model.SessionStatus { return s.status }
func (s *Session) ResponseID() string          { return s.responseID }
func (s *Session) RespondentID() string        { return s.respondentID }
func (s *Session) StartedAt() time.Time        { return s.startedAt }
func (s *Session) Survey() *model.Survey       { return s.survey }

// Answers returns a copy of the answer store.
func (s *Session) Answers() model.Answers { return s.answers.Clone() }

// State exports the session for storage between requests.
func (s *Session) State() model.SessionState {
	state := model.SessionState{
		ResponseID:   s.responseID,
		RespondentID: s.respondentID,
		Status:       s.status,
		StartedAt:    s.startedAt,
		Answers:      s.answers.Clone(),
	}
	if s.survey != nil {
		state.SurveyID = s.survey.ID
	}
	return state
}

// View summarizes what the respondent currently sees.
func (s *Session) View() *model.SessionView {
	view := &model.SessionView{
		ResponseID:       s.responseID,
		Status:           s.status,
		Progress:         s.Progress(),
		VisibleGroups:    []string{},
		VisibleQuestions: []string{},
		Answers:          s.answers.Sorted(),
	}
	if s.survey != nil {
		view.SurveyID = s.survey.ID
	}
	for _, g := range s.VisibleGroups() {
		view.VisibleGroups = append(view.VisibleGroups, g.ID)
		for _, q := range g.Questions {
			view.VisibleQuestions = append(view.VisibleQuestions, q.ID)
		}
	}
	return view
}
