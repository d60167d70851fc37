package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRooms_BroadcastExceptSender(t *testing.T) {
	rooms := NewRooms(zap.NewNop())
	alice := testConn(t, "alice")
	bob := testConn(t, "bob")
	carol := testConn(t, "carol")

	rooms.Join(alice, "stream-1")
	rooms.Join(bob, "stream-1")
	rooms.Join(carol, "stream-2")

	rooms.Broadcast("stream-1", alice, NewEvent(EventViewerJoined, nil))

	assert.Empty(t, drainEvents(t, alice), "sender never receives its own room event")
	assert.Equal(t, []string{EventViewerJoined}, eventTypes(drainEvents(t, bob)))
	assert.Empty(t, drainEvents(t, carol), "other rooms are untouched")
}

func TestRooms_EmptyRoomCeasesToExist(t *testing.T) {
	rooms := NewRooms(zap.NewNop())
	alice := testConn(t, "alice")

	rooms.Join(alice, "stream-1")
	assert.Equal(t, 1, rooms.Members("stream-1"))

	rooms.Leave(alice, "stream-1")
	assert.Equal(t, 0, rooms.Members("stream-1"))

	// Rejoining recreates the room from scratch
	rooms.Join(alice, "stream-1")
	assert.Equal(t, 1, rooms.Members("stream-1"))
}

func TestRooms_LeaveAllOnDisconnect(t *testing.T) {
	rooms := NewRooms(zap.NewNop())
	alice := testConn(t, "alice")
	bob := testConn(t, "bob")

	rooms.Join(alice, "stream-1")
	rooms.Join(alice, "stream-2")
	rooms.Join(bob, "stream-1")

	rooms.LeaveAll(alice)

	assert.Equal(t, 1, rooms.Members("stream-1"))
	assert.Equal(t, 0, rooms.Members("stream-2"))

	// A broadcast after teardown must not reach the departed connection
	rooms.Broadcast("stream-1", nil, NewEvent(EventViewerLeft, nil))
	assert.Empty(t, drainEvents(t, alice))
	assert.Equal(t, []string{EventViewerLeft}, eventTypes(drainEvents(t, bob)))
}

func TestStreamRoomKey(t *testing.T) {
	assert.Equal(t, "stream-42", StreamRoomKey("42"))
}
