package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConn(h *Hub, surveyID string) *Connection {
	c := &Connection{SurveyID: surveyID, HostID: "host_1", Send: make(chan []byte, 8), Hub: h}
	h.Register(c)
	return c
}

func receive(t *testing.T, c *Connection) Message {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		require.True(t, ok, "connection closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	return Message{}
}

func TestBroadcastReachesEveryDashboardOfSurvey(t *testing.T) {
	h := NewHub()
	defer h.Close()

	a := newConn(h, "s1")
	b := newConn(h, "s1")
	other := newConn(h, "s2")
	assert.Eventually(t, func() bool { return h.Connections("s1") == 2 }, time.Second, 10*time.Millisecond)

	h.BroadcastToHosts("s1", string(MsgProgressUpdate), map[string]int{"percent": 50})

	for _, c := range []*Connection{a, b} {
		msg := receive(t, c)
		assert.Equal(t, MsgProgressUpdate, msg.Type)
		assert.JSONEq(t, `{"percent":50}`, string(msg.Payload))
	}
	assert.Empty(t, other.Send)
}

func TestUnregisterAndDisconnect(t *testing.T) {
	h := NewHub()
	defer h.Close()

	a := newConn(h, "s1")
	b := newConn(h, "s1")

	h.Unregister(a)
	_, ok := <-a.Send
	assert.False(t, ok)
	assert.Equal(t, 1, h.Connections("s1"))

	h.DisconnectSurvey("s1")
	_, ok = <-b.Send
	assert.False(t, ok)
	assert.Equal(t, 0, h.Connections("s1"))
}
