package relay

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Event is the envelope for every frame crossing the real-time channel.
type Event struct {
	Event      string          `json:"event"`
	UserID     string          `json:"userId,omitempty"`
	SenderID   string          `json:"senderId,omitempty"`
	ReceiverID string          `json:"receiverId,omitempty"`
	Text       string          `json:"text,omitempty"`
	Users      []PresenceEntry `json:"users,omitempty"`
}

const (
	EventAddUser     = "addUser"
	EventSendMessage = "sendMessage"
	EventGetUsers    = "getUsers"
	EventGetMessage  = "getMessage"
)

// Hub routes point-to-point messages between live connections and keeps the
// presence registry in step with connects and disconnects. Delivery is best
// effort: an offline receiver means the message is dropped from the live
// path, the persisted copy is the message store's job.
type Hub struct {
	registry *Registry
	logger   *logrus.Logger

	mu    sync.RWMutex
	conns map[string]chan []byte
}

func NewHub(registry *Registry, logger *logrus.Logger) *Hub {
	return &Hub{
		registry: registry,
		logger:   logger,
		conns:    make(map[string]chan []byte),
	}
}

// Attach makes a connection's outbound channel addressable by id. Called
// once per connection before its read loop starts.
func (hub *Hub) Attach(connID string, send chan []byte) {
	hub.mu.Lock()
	hub.conns[connID] = send
	hub.mu.Unlock()
}

// Detach drops the connection, clears its registry entry and re-broadcasts
// the online list.
func (hub *Hub) Detach(connID string) {
	hub.mu.Lock()
	delete(hub.conns, connID)
	hub.mu.Unlock()

	hub.registry.Unregister(connID)
	hub.BroadcastUsers()
}

// AddUser registers the logical user on the connection and broadcasts the
// updated online list to every party.
func (hub *Hub) AddUser(userID, connID string) {
	hub.registry.Register(userID, connID)
	hub.BroadcastUsers()
}

// Route delivers the payload to the receiver's connection only. Returns
// whether a live delivery happened; an offline receiver is not an error.
func (hub *Hub) Route(senderID, receiverID, text string) bool {
	connID, online := hub.registry.Lookup(receiverID)
	if !online {
		hub.logger.Debugf("receiver %s is offline, dropping relay message", receiverID)
		return false
	}

	payload, err := json.Marshal(Event{
		Event:    EventGetMessage,
		SenderID: senderID,
		Text:     text,
	})
	if err != nil {
		hub.logger.Errorf("failed to encode relay message: %s", err)
		return false
	}

	hub.mu.RLock()
	send, ok := hub.conns[connID]
	hub.mu.RUnlock()
	if !ok {
		// Registry entry survived its connection; next disconnect sweep
		// clears it.
		hub.logger.Debugf("connection %s already gone, dropping relay message", connID)
		return false
	}

	select {
	case send <- payload:
		return true
	default:
		hub.logger.Warnf("send buffer full for connection %s, dropping relay message", connID)
		return false
	}
}

// usersBroadcast is the outbound shape of a getUsers frame. Unlike Event it
// always carries the users key, so clients decode an empty list rather than
// null once the last user disconnects.
type usersBroadcast struct {
	Event string          `json:"event"`
	Users []PresenceEntry `json:"users"`
}

// BroadcastUsers sends the current registry snapshot to all connections.
func (hub *Hub) BroadcastUsers() {
	payload, err := json.Marshal(usersBroadcast{
		Event: EventGetUsers,
		Users: hub.registry.Snapshot(),
	})
	if err != nil {
		hub.logger.Errorf("failed to encode users broadcast: %s", err)
		return
	}

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	for connID, send := range hub.conns {
		select {
		case send <- payload:
		default:
			hub.logger.Warnf("send buffer full for connection %s, skipping broadcast", connID)
		}
	}
}

// HandleEvent dispatches one inbound frame from the given connection.
func (hub *Hub) HandleEvent(connID string, raw []byte) {
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		hub.logger.Warnf("malformed relay event from %s: %s", connID, err)
		return
	}

	switch event.Event {
	case EventAddUser:
		hub.AddUser(event.UserID, connID)
	case EventSendMessage:
		hub.Route(event.SenderID, event.ReceiverID, event.Text)
	default:
		hub.logger.Debugf("unknown relay event %q from %s", event.Event, connID)
	}
}
