package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Host dashboard message types
const (
	MsgHostConnected     MessageType = "host_connected"
	MsgResponseStarted   MessageType = "response_started"
	MsgProgressUpdate    MessageType = "progress_update"
	MsgResponseSubmitted MessageType = "response_submitted"
	MsgResponseAbandoned MessageType = "response_abandoned"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans survey events out to every host dashboard watching that survey
type Hub struct {
	// surveyID -> connections
	hostConns map[string]map[*Connection]struct{}

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	disconnect chan string
	done       chan struct{}
	closeOnce  sync.Once
}

// Connection represents a WebSocket connection
type Connection struct {
	SurveyID string
	HostID   string
	Send     chan []byte
	Hub      *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	SurveyID string
	Message  *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		hostConns:  make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		disconnect: make(chan string),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for surveyID := range h.hostConns {
				h.dropSurvey(surveyID)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.hostConns[conn.SurveyID] == nil {
				h.hostConns[conn.SurveyID] = make(map[*Connection]struct{})
			}
			h.hostConns[conn.SurveyID][conn] = struct{}{}
			h.mu.Unlock()
			log.Info().Str("survey", conn.SurveyID).Str("host", conn.HostID).Msg("host dashboard connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.hostConns[conn.SurveyID]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.hostConns, conn.SurveyID)
					}
					log.Info().Str("survey", conn.SurveyID).Str("host", conn.HostID).Msg("host dashboard disconnected")
				}
			}
			h.mu.Unlock()

		case surveyID := <-h.disconnect:
			h.mu.Lock()
			h.dropSurvey(surveyID)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				log.Error().Err(err).Str("type", string(msg.Message.Type)).Msg("failed to encode ws message")
				continue
			}
			h.mu.RLock()
			for conn := range h.hostConns[msg.SurveyID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// dropSurvey closes every connection of a survey; callers hold mu
func (h *Hub) dropSurvey(surveyID string) {
	for conn := range h.hostConns[surveyID] {
		close(conn.Send)
	}
	delete(h.hostConns, surveyID)
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// BroadcastToHosts sends a message to every dashboard of a survey (implements service.Broadcaster)
func (h *Hub) BroadcastToHosts(surveyID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("type", msgType).Msg("failed to encode ws payload")
		return
	}
	select {
	case h.broadcast <- &BroadcastMessage{
		SurveyID: surveyID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}:
	case <-h.done:
	}
}

// DisconnectSurvey closes all dashboards of a survey (implements service.Broadcaster)
func (h *Hub) DisconnectSurvey(surveyID string) {
	select {
	case h.disconnect <- surveyID:
	case <-h.done:
	}
}

// Connections reports how many dashboards watch a survey
func (h *Hub) Connections(surveyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.hostConns[surveyID])
}

// Close stops the hub and closes every connection
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}
