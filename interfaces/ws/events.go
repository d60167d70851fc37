package ws

import (
	"encoding/json"
	"time"
)

// Inbound event kinds accepted from clients.
const (
	EventLikePost    = "like-post"
	EventCommentPost = "comment-post"
	EventFollowUser  = "follow-user"
	EventSendMessage = "send-message"
	EventTypingStart = "typing-start"
	EventTypingStop  = "typing-stop"
	EventStartStream = "start-stream"
	EventJoinStream  = "join-stream"
	EventLeaveStream = "leave-stream"
)

// Outbound event kinds pushed to clients.
const (
	EventOnlineUsers    = "online-users"
	EventPostLiked      = "post-liked"
	EventPostCommented  = "post-commented"
	EventNewFollower    = "new-follower"
	EventNewMessage     = "new-message"
	EventMessageSent    = "message-sent"
	EventUserTyping     = "user-typing"
	EventUserStopTyping = "user-stop-typing"
	EventStreamStarted  = "stream-started"
	EventViewerJoined   = "viewer-joined"
	EventViewerLeft     = "viewer-left"
)

// Event is the outbound wire envelope
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

func NewEvent(kind string, data any) Event {
	return Event{Type: kind, Timestamp: time.Now().UTC(), Data: data}
}

// inboundEvent is the envelope clients send; Data stays raw until the
// router knows which payload shape to decode it into.
type inboundEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound payloads. The actor is always taken from the authenticated
// connection, never from the payload.

type likePostPayload struct {
	PostID       string `json:"postId" validate:"required"`
	PostAuthorID string `json:"postAuthorId" validate:"required"`
}

type commentPostPayload struct {
	PostID       string `json:"postId" validate:"required"`
	PostAuthorID string `json:"postAuthorId" validate:"required"`
	Comment      string `json:"comment" validate:"required,max=280"`
}

type followUserPayload struct {
	FollowedUserID string `json:"followedUserId" validate:"required"`
}

type sendMessagePayload struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Message    string `json:"message" validate:"required"`
	Timestamp  string `json:"timestamp,omitempty"`
}

type typingPayload struct {
	ReceiverID string `json:"receiverId" validate:"required"`
}

type startStreamPayload struct {
	StreamTitle       string `json:"streamTitle" validate:"required"`
	StreamDescription string `json:"streamDescription,omitempty"`
}

type streamRoomPayload struct {
	StreamID string `json:"streamId" validate:"required"`
}

// Outbound payloads.

type postLikedPayload struct {
	PostID       string `json:"postId"`
	PostAuthorID string `json:"postAuthorId"`
	LikerID      string `json:"likerId"`
	LikerName    string `json:"likerName"`
}

type postCommentedPayload struct {
	PostID        string `json:"postId"`
	PostAuthorID  string `json:"postAuthorId"`
	CommenterID   string `json:"commenterId"`
	CommenterName string `json:"commenterName"`
	Comment       string `json:"comment"`
}

type newFollowerPayload struct {
	FollowedUserID string `json:"followedUserId"`
	FollowerID     string `json:"followerId"`
	FollowerName   string `json:"followerName"`
}

type newMessagePayload struct {
	SenderID       string `json:"senderId"`
	SenderName     string `json:"senderName"`
	SenderUsername string `json:"senderUsername"`
	SenderAvatar   string `json:"senderAvatar,omitempty"`
	Message        string `json:"message"`
	Timestamp      string `json:"timestamp,omitempty"`
}

type messageSentPayload struct {
	ReceiverID string `json:"receiverId"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp,omitempty"`
}

type userTypingPayload struct {
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
}

type streamStartedPayload struct {
	StreamerID        string `json:"streamerId"`
	StreamerName      string `json:"streamerName"`
	StreamerUsername  string `json:"streamerUsername"`
	StreamTitle       string `json:"streamTitle"`
	StreamDescription string `json:"streamDescription,omitempty"`
}

type viewerPayload struct {
	ViewerID   string `json:"viewerId"`
	ViewerName string `json:"viewerName"`
}
