package relay

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewHub(NewRegistry(), logger)
}

func attachConn(hub *Hub, connID string) chan []byte {
	send := make(chan []byte, 8)
	hub.Attach(connID, send)
	return send
}

func decodeEvent(t *testing.T, raw []byte) Event {
	t.Helper()
	var event Event
	require.NoError(t, json.Unmarshal(raw, &event))
	return event
}

func TestHub_AddUserBroadcastsOnlineList(t *testing.T) {
	hub := newTestHub()
	sendA := attachConn(hub, "conn-a")
	sendB := attachConn(hub, "conn-b")

	hub.AddUser("user-1", "conn-a")

	for _, send := range []chan []byte{sendA, sendB} {
		event := decodeEvent(t, <-send)
		assert.Equal(t, EventGetUsers, event.Event)
		require.Len(t, event.Users, 1)
		assert.Equal(t, "user-1", event.Users[0].UserID)
		assert.Equal(t, "conn-a", event.Users[0].ConnID)
	}
}

func TestHub_RouteDeliversToReceiverOnly(t *testing.T) {
	hub := newTestHub()
	sendA := attachConn(hub, "conn-a")
	sendB := attachConn(hub, "conn-b")

	hub.registry.Register("user-1", "conn-a")
	hub.registry.Register("user-2", "conn-b")

	delivered := hub.Route("user-1", "user-2", "hello")
	require.True(t, delivered)

	event := decodeEvent(t, <-sendB)
	assert.Equal(t, EventGetMessage, event.Event)
	assert.Equal(t, "user-1", event.SenderID)
	assert.Equal(t, "hello", event.Text)

	assert.Empty(t, sendA)
}

func TestHub_RouteOfflineReceiverIsDropped(t *testing.T) {
	hub := newTestHub()
	sendA := attachConn(hub, "conn-a")
	hub.registry.Register("user-1", "conn-a")

	delivered := hub.Route("user-1", "user-2", "anyone home?")

	assert.False(t, delivered)
	assert.Empty(t, sendA)
}

func TestHub_RouteStaleRegistryEntryIsDropped(t *testing.T) {
	hub := newTestHub()
	// Entry points at a connection that never attached.
	hub.registry.Register("user-2", "conn-gone")

	assert.False(t, hub.Route("user-1", "user-2", "hello"))
}

func TestHub_DetachUnregistersAndRebroadcasts(t *testing.T) {
	hub := newTestHub()
	sendA := attachConn(hub, "conn-a")
	sendB := attachConn(hub, "conn-b")

	hub.AddUser("user-1", "conn-a")
	hub.AddUser("user-2", "conn-b")
	drain(sendA)
	drain(sendB)

	hub.Detach(hub.connIDFor(t, "user-1"))

	event := decodeEvent(t, <-sendB)
	assert.Equal(t, EventGetUsers, event.Event)
	require.Len(t, event.Users, 1)
	assert.Equal(t, "user-2", event.Users[0].UserID)

	_, online := hub.registry.Lookup("user-1")
	assert.False(t, online)
}

func TestHub_LastDisconnectBroadcastsEmptyList(t *testing.T) {
	hub := newTestHub()
	sendA := attachConn(hub, "conn-a")
	sendB := attachConn(hub, "conn-b")

	hub.AddUser("user-1", "conn-b")
	drain(sendA)
	drain(sendB)

	hub.Detach("conn-b")

	raw := <-sendA
	// Clients iterate the list unconditionally, so an empty registry must
	// still serialize as an array rather than omit the key.
	assert.Contains(t, string(raw), `"users":[]`)

	event := decodeEvent(t, raw)
	assert.Equal(t, EventGetUsers, event.Event)
	assert.Empty(t, event.Users)
}

func TestHub_HandleEventDispatch(t *testing.T) {
	hub := newTestHub()
	sendA := attachConn(hub, "conn-a")
	sendB := attachConn(hub, "conn-b")

	hub.HandleEvent("conn-a", []byte(`{"event":"addUser","userId":"user-1"}`))
	hub.HandleEvent("conn-b", []byte(`{"event":"addUser","userId":"user-2"}`))
	drain(sendA)
	drain(sendB)

	hub.HandleEvent("conn-a", []byte(`{"event":"sendMessage","senderId":"user-1","receiverId":"user-2","text":"hi"}`))

	event := decodeEvent(t, <-sendB)
	assert.Equal(t, EventGetMessage, event.Event)
	assert.Equal(t, "hi", event.Text)
}

func TestHub_HandleEventMalformedFrameIgnored(t *testing.T) {
	hub := newTestHub()
	send := attachConn(hub, "conn-a")

	hub.HandleEvent("conn-a", []byte(`not json`))
	hub.HandleEvent("conn-a", []byte(`{"event":"unknown"}`))

	assert.Empty(t, send)
}

func drain(ch chan []byte) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func (hub *Hub) connIDFor(t *testing.T, userID string) string {
	t.Helper()
	connID, online := hub.registry.Lookup(userID)
	require.True(t, online)
	return connID
}
