package model

import "time"

// SessionStatus is the lifecycle state of a response session
type SessionStatus string

const (
	SessionNotStarted SessionStatus = "not_started"
	SessionInProgress SessionStatus = "in_progress"
	SessionSubmitted  SessionStatus = "submitted"
	SessionAbandoned  SessionStatus = "abandoned"
)

// Progress summarizes completion of the visible part of a survey
type Progress struct {
	VisibleCount          int  `json:"visibleCount"`
	AnsweredCount         int  `json:"answeredCount"`
	RequiredCount         int  `json:"requiredCount"`
	RequiredAnsweredCount int  `json:"requiredAnsweredCount"`
	Percent               int  `json:"percent"`
	IsComplete            bool `json:"isComplete"`
}

// Response is the immutable snapshot produced when a session is submitted
type Response struct {
	ID             string        `json:"id" bson:"_id"`
	SurveyID       string        `json:"surveyId" bson:"surveyId"`
	RespondentID   string        `json:"respondentId,omitempty" bson:"respondentId,omitempty"`
	Status         SessionStatus `json:"status" bson:"status"`
	Answers        []Answer      `json:"answers" bson:"answers"`
	TotalQuestions int           `json:"totalQuestions" bson:"totalQuestions"`
	VisibleCount   int           `json:"visibleCount" bson:"visibleCount"`
	AnsweredCount  int           `json:"answeredCount" bson:"answeredCount"`
	StartedAt      time.Time     `json:"startedAt" bson:"startedAt"`
	SubmittedAt    time.Time     `json:"submittedAt" bson:"submittedAt"`
	DurationMS     int64         `json:"durationMs" bson:"durationMs"`
}

// Duration is the elapsed time between start and submission
func (r *Response) Duration() time.Duration {
	return time.Duration(r.DurationMS) * time.Millisecond
}

// SessionState is the serializable form of an in-progress session
type SessionState struct {
	ResponseID   string        `json:"responseId"`
	SurveyID     string        `json:"surveyId"`
	RespondentID string        `json:"respondentId,omitempty"`
	Status       SessionStatus `json:"status"`
	StartedAt    time.Time     `json:"startedAt"`
	Answers      Answers       `json:"answers"`
}

// SessionView is what a respondent sees after every change
type SessionView struct {
	ResponseID       string        `json:"responseId"`
	SurveyID         string        `json:"surveyId"`
	Status           SessionStatus `json:"status"`
	Progress         Progress      `json:"progress"`
	VisibleGroups    []string      `json:"visibleGroups"`
	VisibleQuestions []string      `json:"visibleQuestions"`
	Answers          []Answer      `json:"answers"`
}

// SurveyStats are running counters for a survey
type SurveyStats struct {
	SurveyID  string `json:"surveyId"`
	Started   int64  `json:"started"`
	Submitted int64  `json:"submitted"`
	Abandoned int64  `json:"abandoned"`
}
