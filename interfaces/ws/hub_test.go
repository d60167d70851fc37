package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
)

func testOptions() Options {
	return Options{
		WriteTimeout:   time.Second,
		PongTimeout:    time.Second,
		SendBufferSize: 16,
		MaxMessageSize: 4096,
	}
}

// testConn builds a connection without a live socket; enqueued events
// pile up in the send buffer where tests can read them.
func testConn(t *testing.T, userID string) *Connection {
	t.Helper()
	id, err := valueobjects.NewUserID(userID)
	require.NoError(t, err)
	summary := entities.UserSummary{ID: id, Username: userID, Name: userID}
	return newConnection(nil, summary, testOptions(), zap.NewNop())
}

// drainEvents empties the connection's outbound buffer
func drainEvents(t *testing.T, c *Connection) []Event {
	t.Helper()
	var events []Event
	for {
		select {
		case payload := <-c.send:
			var event Event
			require.NoError(t, json.Unmarshal(payload, &event))
			events = append(events, event)
		default:
			return events
		}
	}
}

func eventTypes(events []Event) []string {
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func TestHub_PresenceLifecycle(t *testing.T) {
	hub := NewHub(zap.NewNop())
	alice := testConn(t, "alice")
	aliceID := alice.UserID()

	assert.False(t, hub.IsOnline(aliceID))

	hub.Register(alice)
	assert.True(t, hub.IsOnline(aliceID))

	hub.Unregister(alice)
	assert.False(t, hub.IsOnline(aliceID))
}

func TestHub_MultipleConnectionsPerUser(t *testing.T) {
	hub := NewHub(zap.NewNop())
	first := testConn(t, "alice")
	second := testConn(t, "alice")

	hub.Register(first)
	hub.Register(second)
	assert.True(t, hub.IsOnline(first.UserID()))
	assert.Len(t, hub.Snapshot(), 1, "one snapshot entry per user, not per connection")

	hub.Unregister(first)
	assert.True(t, hub.IsOnline(first.UserID()), "still online through the second connection")

	hub.Unregister(second)
	assert.False(t, hub.IsOnline(first.UserID()))
}

func TestHub_RegisterBroadcastsOnlineUsers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	alice := testConn(t, "alice")
	bob := testConn(t, "bob")

	hub.Register(alice)
	drainEvents(t, alice)

	hub.Register(bob)

	events := drainEvents(t, alice)
	require.Len(t, events, 1)
	assert.Equal(t, EventOnlineUsers, events[0].Type)

	users, ok := events[0].Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, users, 2)
}

func TestHub_SnapshotSorted(t *testing.T) {
	hub := NewHub(zap.NewNop())
	for _, id := range []string{"carol", "alice", "bob"} {
		hub.Register(testConn(t, id))
	}

	snapshot := hub.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, "alice", snapshot[0].Username)
	assert.Equal(t, "bob", snapshot[1].Username)
	assert.Equal(t, "carol", snapshot[2].Username)
}

func TestHub_SendToUser(t *testing.T) {
	hub := NewHub(zap.NewNop())
	alice := testConn(t, "alice")
	hub.Register(alice)
	drainEvents(t, alice)

	delivered := hub.SendToUser(alice.UserID(), NewEvent(EventNewMessage, nil))
	assert.True(t, delivered)
	assert.Equal(t, []string{EventNewMessage}, eventTypes(drainEvents(t, alice)))

	offline, err := valueobjects.NewUserID("ghost")
	require.NoError(t, err)
	assert.False(t, hub.SendToUser(offline, NewEvent(EventNewMessage, nil)), "offline recipient is a no-op")
}

func TestHub_BroadcastAllExcept(t *testing.T) {
	hub := NewHub(zap.NewNop())
	alice := testConn(t, "alice")
	bob := testConn(t, "bob")
	hub.Register(alice)
	hub.Register(bob)
	drainEvents(t, alice)
	drainEvents(t, bob)

	hub.BroadcastAll(NewEvent(EventStreamStarted, nil), alice)

	assert.Empty(t, drainEvents(t, alice), "sender is excluded")
	assert.Equal(t, []string{EventStreamStarted}, eventTypes(drainEvents(t, bob)))
}

func TestConnection_EnqueueDropsOnOverflow(t *testing.T) {
	id, err := valueobjects.NewUserID("alice")
	require.NoError(t, err)
	opts := testOptions()
	opts.SendBufferSize = 2
	c := newConnection(nil, entities.UserSummary{ID: id, Username: "alice"}, opts, zap.NewNop())

	for i := 0; i < 5; i++ {
		c.Enqueue(NewEvent(EventNewMessage, nil))
	}
	assert.Len(t, drainEvents(t, c), 2, "events past the buffer are dropped, not blocked on")
}
