package ws

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Rooms groups connections under ephemeral keys for live-stream
// viewer fan-out. A room exists exactly while it has members.
type Rooms struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Connection]struct{}
	byConn map[*Connection]map[string]struct{}
	logger *zap.Logger
}

func NewRooms(logger *zap.Logger) *Rooms {
	return &Rooms{
		rooms:  make(map[string]map[*Connection]struct{}),
		byConn: make(map[*Connection]map[string]struct{}),
		logger: logger.Named("rooms"),
	}
}

// StreamRoomKey derives the room key for a live-stream session
func StreamRoomKey(streamID string) string {
	return fmt.Sprintf("stream-%s", streamID)
}

func (r *Rooms) Join(c *Connection, roomKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[roomKey] == nil {
		r.rooms[roomKey] = make(map[*Connection]struct{})
	}
	if r.byConn[c] == nil {
		r.byConn[c] = make(map[string]struct{})
	}
	r.rooms[roomKey][c] = struct{}{}
	r.byConn[c][roomKey] = struct{}{}
}

func (r *Rooms) Leave(c *Connection, roomKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(c, roomKey)
}

// LeaveAll removes the connection from every room it joined. Called on
// disconnect so a dead connection never lingers in a member set.
func (r *Rooms) LeaveAll(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for roomKey := range r.byConn[c] {
		r.removeLocked(c, roomKey)
	}
}

func (r *Rooms) removeLocked(c *Connection, roomKey string) {
	if members, ok := r.rooms[roomKey]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(r.rooms, roomKey)
		}
	}
	if joined, ok := r.byConn[c]; ok {
		delete(joined, roomKey)
		if len(joined) == 0 {
			delete(r.byConn, c)
		}
	}
}

// Members returns the current member count of a room
func (r *Rooms) Members(roomKey string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomKey])
}

// Broadcast enqueues the event on every member of the room except the
// sender. A non-existent room is a no-op.
func (r *Rooms) Broadcast(roomKey string, except *Connection, event Event) {
	r.mu.RLock()
	conns := make([]*Connection, 0, len(r.rooms[roomKey]))
	for c := range r.rooms[roomKey] {
		if c == except {
			continue
		}
		conns = append(conns, c)
	}
	r.mu.RUnlock()

	for _, c := range conns {
		c.Enqueue(event)
	}
}
