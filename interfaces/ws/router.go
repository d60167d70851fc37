package ws

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"ripple-backend/domain/core/valueobjects"
)

// Router dispatches inbound events to their recipients. Events are
// fire-and-forget: nothing is persisted, nothing is retried, and a
// malformed payload is dropped without telling the sender. The actor
// identity always comes from the connection, never from the payload.
type Router struct {
	hub      *Hub
	rooms    *Rooms
	validate *validator.Validate
	logger   *zap.Logger
}

func NewRouter(hub *Hub, rooms *Rooms, logger *zap.Logger) *Router {
	return &Router{
		hub:      hub,
		rooms:    rooms,
		validate: validator.New(),
		logger:   logger.Named("router"),
	}
}

// HandleMessage decodes one inbound frame and routes it. Unknown event
// kinds and malformed payloads are dropped.
func (r *Router) HandleMessage(c *Connection, raw []byte) {
	var event inboundEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		r.logger.Debug("dropping unparseable frame",
			zap.String("user_id", c.UserID().String()),
			zap.Error(err))
		return
	}

	switch event.Type {
	case EventLikePost:
		r.handleLikePost(c, event.Data)
	case EventCommentPost:
		r.handleCommentPost(c, event.Data)
	case EventFollowUser:
		r.handleFollowUser(c, event.Data)
	case EventSendMessage:
		r.handleSendMessage(c, event.Data)
	case EventTypingStart:
		r.handleTyping(c, event.Data, EventUserTyping)
	case EventTypingStop:
		r.handleTyping(c, event.Data, EventUserStopTyping)
	case EventStartStream:
		r.handleStartStream(c, event.Data)
	case EventJoinStream:
		r.handleStreamRoom(c, event.Data, true)
	case EventLeaveStream:
		r.handleStreamRoom(c, event.Data, false)
	default:
		r.logger.Debug("dropping unknown event kind",
			zap.String("event", event.Type),
			zap.String("user_id", c.UserID().String()))
	}
}

// decode unmarshals and validates a payload; a false return means the
// event must be dropped.
func (r *Router) decode(c *Connection, kind string, raw json.RawMessage, dst any) bool {
	if err := json.Unmarshal(raw, dst); err != nil {
		r.logger.Debug("dropping malformed payload",
			zap.String("event", kind),
			zap.String("user_id", c.UserID().String()),
			zap.Error(err))
		return false
	}
	if err := r.validate.Struct(dst); err != nil {
		r.logger.Debug("dropping invalid payload",
			zap.String("event", kind),
			zap.String("user_id", c.UserID().String()),
			zap.Error(err))
		return false
	}
	return true
}

func (r *Router) handleLikePost(c *Connection, raw json.RawMessage) {
	var payload likePostPayload
	if !r.decode(c, EventLikePost, raw, &payload) {
		return
	}
	author, err := valueobjects.NewUserID(payload.PostAuthorID)
	if err != nil || author.Equals(c.UserID()) {
		return
	}
	r.hub.SendToUser(author, NewEvent(EventPostLiked, postLikedPayload{
		PostID:       payload.PostID,
		PostAuthorID: payload.PostAuthorID,
		LikerID:      c.UserID().String(),
		LikerName:    c.User().Name,
	}))
}

func (r *Router) handleCommentPost(c *Connection, raw json.RawMessage) {
	var payload commentPostPayload
	if !r.decode(c, EventCommentPost, raw, &payload) {
		return
	}
	author, err := valueobjects.NewUserID(payload.PostAuthorID)
	if err != nil || author.Equals(c.UserID()) {
		return
	}
	r.hub.SendToUser(author, NewEvent(EventPostCommented, postCommentedPayload{
		PostID:        payload.PostID,
		PostAuthorID:  payload.PostAuthorID,
		CommenterID:   c.UserID().String(),
		CommenterName: c.User().Name,
		Comment:       payload.Comment,
	}))
}

func (r *Router) handleFollowUser(c *Connection, raw json.RawMessage) {
	var payload followUserPayload
	if !r.decode(c, EventFollowUser, raw, &payload) {
		return
	}
	followed, err := valueobjects.NewUserID(payload.FollowedUserID)
	if err != nil || followed.Equals(c.UserID()) {
		return
	}
	r.hub.SendToUser(followed, NewEvent(EventNewFollower, newFollowerPayload{
		FollowedUserID: payload.FollowedUserID,
		FollowerID:     c.UserID().String(),
		FollowerName:   c.User().Name,
	}))
}

func (r *Router) handleSendMessage(c *Connection, raw json.RawMessage) {
	var payload sendMessagePayload
	if !r.decode(c, EventSendMessage, raw, &payload) {
		return
	}

	if receiver, err := valueobjects.NewUserID(payload.ReceiverID); err == nil {
		r.hub.SendToUser(receiver, NewEvent(EventNewMessage, newMessagePayload{
			SenderID:       c.UserID().String(),
			SenderName:     c.User().Name,
			SenderUsername: c.User().Username,
			SenderAvatar:   c.User().Avatar,
			Message:        payload.Message,
			Timestamp:      payload.Timestamp,
		}))
	}

	// The ack confirms the router accepted the message, not that the
	// receiver got it. Sent even when the receiver is offline.
	c.Enqueue(NewEvent(EventMessageSent, messageSentPayload{
		ReceiverID: payload.ReceiverID,
		Message:    payload.Message,
		Timestamp:  payload.Timestamp,
	}))
}

func (r *Router) handleTyping(c *Connection, raw json.RawMessage, outKind string) {
	var payload typingPayload
	if !r.decode(c, outKind, raw, &payload) {
		return
	}
	receiver, err := valueobjects.NewUserID(payload.ReceiverID)
	if err != nil {
		return
	}
	out := userTypingPayload{UserID: c.UserID().String()}
	if outKind == EventUserTyping {
		out.Username = c.User().Username
	}
	r.hub.SendToUser(receiver, NewEvent(outKind, out))
}

func (r *Router) handleStartStream(c *Connection, raw json.RawMessage) {
	var payload startStreamPayload
	if !r.decode(c, EventStartStream, raw, &payload) {
		return
	}
	r.hub.BroadcastAll(NewEvent(EventStreamStarted, streamStartedPayload{
		StreamerID:        c.UserID().String(),
		StreamerName:      c.User().Name,
		StreamerUsername:  c.User().Username,
		StreamTitle:       payload.StreamTitle,
		StreamDescription: payload.StreamDescription,
	}), c)
}

func (r *Router) handleStreamRoom(c *Connection, raw json.RawMessage, join bool) {
	var payload streamRoomPayload
	kind := EventLeaveStream
	if join {
		kind = EventJoinStream
	}
	if !r.decode(c, kind, raw, &payload) {
		return
	}

	roomKey := StreamRoomKey(payload.StreamID)
	viewer := viewerPayload{
		ViewerID:   c.UserID().String(),
		ViewerName: c.User().Name,
	}
	if join {
		r.rooms.Join(c, roomKey)
		r.rooms.Broadcast(roomKey, c, NewEvent(EventViewerJoined, viewer))
	} else {
		r.rooms.Leave(c, roomKey)
		r.rooms.Broadcast(roomKey, c, NewEvent(EventViewerLeft, viewer))
	}
}
