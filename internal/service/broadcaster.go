package service

// Broadcaster pushes live events to host dashboards (avoids import cycle with ws)
type Broadcaster interface {
	BroadcastToHosts(surveyID string, msgType string, payload interface{})
	DisconnectSurvey(surveyID string)
}

// Event types sent to host dashboards
const (
	EventResponseStarted   = "response_started"
	EventProgressUpdate    = "progress_update"
	EventResponseSubmitted = "response_submitted"
	EventResponseAbandoned = "response_abandoned"
)
