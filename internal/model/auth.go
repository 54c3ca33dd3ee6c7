package model

import "github.com/golang-jwt/jwt/v5"

// HostClaims are JWT claims for host authentication
type HostClaims struct {
	HostID string `json:"hostId"`
	jwt.RegisteredClaims
}

// RespondentClaims are JWT claims scoped to a single response session
type RespondentClaims struct {
	SurveyID     string `json:"surveyId"`
	ResponseID   string `json:"responseId"`
	RespondentID string `json:"respondentId,omitempty"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for host login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token  string `json:"token"`
	HostID string `json:"hostId"`
}

// StartResponse is returned when a respondent starts a survey
type StartResponse struct {
	Token string       `json:"token"`
	View  *SessionView `json:"session"`
}
