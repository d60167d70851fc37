package ws

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
)

// Hub is the presence registry. A user is online while at least one of
// their connections is registered. All map access happens under one
// RWMutex; delivery happens after the lock is released, so a snapshot
// pushed to clients may be momentarily stale.
type Hub struct {
	mu     sync.RWMutex
	byUser map[string]map[*Connection]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		byUser: make(map[string]map[*Connection]struct{}),
		logger: logger.Named("hub"),
	}
}

// Register adds a connection and announces the updated online set.
func (h *Hub) Register(c *Connection) {
	key := c.UserID().String()

	h.mu.Lock()
	if h.byUser[key] == nil {
		h.byUser[key] = make(map[*Connection]struct{})
	}
	h.byUser[key][c] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("connection registered",
		zap.String("user_id", key),
		zap.String("connection_id", c.ID().String()))
	h.broadcastPresence()
}

// Unregister removes a connection and announces the updated online set.
// Unknown connections are ignored.
func (h *Hub) Unregister(c *Connection) {
	key := c.UserID().String()

	h.mu.Lock()
	conns, ok := h.byUser[key]
	if ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.byUser, key)
		}
	}
	h.mu.Unlock()
	if !ok {
		return
	}

	h.logger.Info("connection unregistered",
		zap.String("user_id", key),
		zap.String("connection_id", c.ID().String()))
	h.broadcastPresence()
}

// IsOnline reports whether the user has at least one live connection
func (h *Hub) IsOnline(userID valueobjects.UserID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID.String()]) > 0
}

// Snapshot returns one summary per online user, ordered by user ID
func (h *Hub) Snapshot() []entities.UserSummary {
	h.mu.RLock()
	summaries := make([]entities.UserSummary, 0, len(h.byUser))
	for _, conns := range h.byUser {
		for c := range conns {
			summaries = append(summaries, c.User())
			break
		}
	}
	h.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID.String() < summaries[j].ID.String()
	})
	return summaries
}

// SendToUser enqueues the event on every connection of the user.
// Returns false when the user is offline; delivery is still best-effort
// when it returns true.
func (h *Hub) SendToUser(userID valueobjects.UserID, event Event) bool {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.byUser[userID.String()]))
	for c := range h.byUser[userID.String()] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		return false
	}
	for _, c := range conns {
		c.Enqueue(event)
	}
	return true
}

// BroadcastAll enqueues the event on every connection, skipping except
// when non-nil.
func (h *Hub) BroadcastAll(event Event, except *Connection) {
	h.mu.RLock()
	var conns []*Connection
	for _, userConns := range h.byUser {
		for c := range userConns {
			if c == except {
				continue
			}
			conns = append(conns, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.Enqueue(event)
	}
}

func (h *Hub) broadcastPresence() {
	h.BroadcastAll(NewEvent(EventOnlineUsers, h.Snapshot()), nil)
}
