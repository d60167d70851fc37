package ws

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type routerFixture struct {
	hub    *Hub
	rooms  *Rooms
	router *Router
}

func newRouterFixture() *routerFixture {
	logger := zap.NewNop()
	hub := NewHub(logger)
	rooms := NewRooms(logger)
	return &routerFixture{
		hub:    hub,
		rooms:  rooms,
		router: NewRouter(hub, rooms, logger),
	}
}

func (f *routerFixture) connect(t *testing.T, userID string) *Connection {
	t.Helper()
	c := testConn(t, userID)
	f.hub.Register(c)
	return c
}

// drainAll clears presence chatter from setup so assertions only see
// routed events.
func (f *routerFixture) drainAll(t *testing.T, conns ...*Connection) {
	t.Helper()
	for _, c := range conns {
		drainEvents(t, c)
	}
}

func frame(eventType, dataJSON string) []byte {
	return []byte(fmt.Sprintf(`{"type":%q,"data":%s}`, eventType, dataJSON))
}

func TestRouter_LikeNotifiesAuthor(t *testing.T) {
	f := newRouterFixture()
	liker := f.connect(t, "bob")
	author := f.connect(t, "alice")
	f.drainAll(t, liker, author)

	f.router.HandleMessage(liker, frame(EventLikePost, `{"postId":"p1","postAuthorId":"alice"}`))

	events := drainEvents(t, author)
	require.Len(t, events, 1)
	assert.Equal(t, EventPostLiked, events[0].Type)

	data, ok := events[0].Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "p1", data["postId"])
	assert.Equal(t, "bob", data["likerId"], "actor comes from the connection, not the payload")

	assert.Empty(t, drainEvents(t, liker), "no echo to the actor")
}

func TestRouter_SelfInteractionSuppressed(t *testing.T) {
	f := newRouterFixture()
	alice := f.connect(t, "alice")
	f.drainAll(t, alice)

	f.router.HandleMessage(alice, frame(EventLikePost, `{"postId":"p1","postAuthorId":"alice"}`))
	f.router.HandleMessage(alice, frame(EventCommentPost, `{"postId":"p1","postAuthorId":"alice","comment":"hi"}`))
	f.router.HandleMessage(alice, frame(EventFollowUser, `{"followedUserId":"alice"}`))

	assert.Empty(t, drainEvents(t, alice), "you never get notified about your own actions")
}

func TestRouter_OfflineRecipientIsSilentNoOp(t *testing.T) {
	f := newRouterFixture()
	liker := f.connect(t, "bob")
	f.drainAll(t, liker)

	f.router.HandleMessage(liker, frame(EventLikePost, `{"postId":"p1","postAuthorId":"alice"}`))

	assert.Empty(t, drainEvents(t, liker), "no delivery and no error back to the actor")
}

func TestRouter_CommentNotifiesAuthor(t *testing.T) {
	f := newRouterFixture()
	commenter := f.connect(t, "bob")
	author := f.connect(t, "alice")
	f.drainAll(t, commenter, author)

	f.router.HandleMessage(commenter, frame(EventCommentPost, `{"postId":"p1","postAuthorId":"alice","comment":"nice"}`))

	events := drainEvents(t, author)
	require.Len(t, events, 1)
	assert.Equal(t, EventPostCommented, events[0].Type)
	data := events[0].Data.(map[string]interface{})
	assert.Equal(t, "nice", data["comment"])
	assert.Equal(t, "bob", data["commenterId"])
}

func TestRouter_FollowNotifiesTarget(t *testing.T) {
	f := newRouterFixture()
	follower := f.connect(t, "bob")
	followed := f.connect(t, "alice")
	f.drainAll(t, follower, followed)

	f.router.HandleMessage(follower, frame(EventFollowUser, `{"followedUserId":"alice"}`))

	events := drainEvents(t, followed)
	require.Len(t, events, 1)
	assert.Equal(t, EventNewFollower, events[0].Type)
	data := events[0].Data.(map[string]interface{})
	assert.Equal(t, "bob", data["followerId"])
}

func TestRouter_DirectMessageAckIsUnconditional(t *testing.T) {
	f := newRouterFixture()
	sender := f.connect(t, "bob")
	f.drainAll(t, sender)

	// Recipient offline: the ack still arrives because it means accepted
	// by the router, not received by the recipient.
	f.router.HandleMessage(sender, frame(EventSendMessage, `{"receiverId":"alice","message":"hey"}`))

	events := drainEvents(t, sender)
	require.Len(t, events, 1)
	assert.Equal(t, EventMessageSent, events[0].Type)
	data := events[0].Data.(map[string]interface{})
	assert.Equal(t, "alice", data["receiverId"])
	assert.Equal(t, "hey", data["message"])
}

func TestRouter_DirectMessageDelivery(t *testing.T) {
	f := newRouterFixture()
	sender := f.connect(t, "bob")
	receiver := f.connect(t, "alice")
	f.drainAll(t, sender, receiver)

	f.router.HandleMessage(sender, frame(EventSendMessage, `{"receiverId":"alice","message":"hey"}`))

	received := drainEvents(t, receiver)
	require.Len(t, received, 1)
	assert.Equal(t, EventNewMessage, received[0].Type)
	data := received[0].Data.(map[string]interface{})
	assert.Equal(t, "bob", data["senderId"])
	assert.Equal(t, "hey", data["message"])

	assert.Equal(t, []string{EventMessageSent}, eventTypes(drainEvents(t, sender)))
}

func TestRouter_TypingIndicatorsHaveNoAck(t *testing.T) {
	f := newRouterFixture()
	sender := f.connect(t, "bob")
	receiver := f.connect(t, "alice")
	f.drainAll(t, sender, receiver)

	f.router.HandleMessage(sender, frame(EventTypingStart, `{"receiverId":"alice"}`))
	f.router.HandleMessage(sender, frame(EventTypingStop, `{"receiverId":"alice"}`))

	assert.Equal(t, []string{EventUserTyping, EventUserStopTyping}, eventTypes(drainEvents(t, receiver)))
	assert.Empty(t, drainEvents(t, sender))
}

func TestRouter_StartStreamBroadcastsToEveryoneElse(t *testing.T) {
	f := newRouterFixture()
	streamer := f.connect(t, "alice")
	viewer1 := f.connect(t, "bob")
	viewer2 := f.connect(t, "carol")
	f.drainAll(t, streamer, viewer1, viewer2)

	f.router.HandleMessage(streamer, frame(EventStartStream, `{"streamTitle":"live coding"}`))

	for _, viewer := range []*Connection{viewer1, viewer2} {
		events := drainEvents(t, viewer)
		require.Len(t, events, 1)
		assert.Equal(t, EventStreamStarted, events[0].Type)
		data := events[0].Data.(map[string]interface{})
		assert.Equal(t, "alice", data["streamerId"])
		assert.Equal(t, "live coding", data["streamTitle"])
	}
	assert.Empty(t, drainEvents(t, streamer))
}

func TestRouter_StreamRoomJoinLeave(t *testing.T) {
	f := newRouterFixture()
	host := f.connect(t, "alice")
	viewer := f.connect(t, "bob")
	f.drainAll(t, host, viewer)

	f.router.HandleMessage(host, frame(EventJoinStream, `{"streamId":"42"}`))
	f.router.HandleMessage(viewer, frame(EventJoinStream, `{"streamId":"42"}`))

	// The host, already in the room, hears the viewer join; the viewer
	// does not hear their own arrival.
	assert.Equal(t, []string{EventViewerJoined}, eventTypes(drainEvents(t, host)))
	assert.Empty(t, drainEvents(t, viewer))
	assert.Equal(t, 2, f.rooms.Members("stream-42"))

	f.router.HandleMessage(viewer, frame(EventLeaveStream, `{"streamId":"42"}`))
	assert.Equal(t, []string{EventViewerLeft}, eventTypes(drainEvents(t, host)))
	assert.Equal(t, 1, f.rooms.Members("stream-42"))
}

func TestRouter_MalformedPayloadsDroppedSilently(t *testing.T) {
	f := newRouterFixture()
	sender := f.connect(t, "bob")
	receiver := f.connect(t, "alice")
	f.drainAll(t, sender, receiver)

	frames := [][]byte{
		[]byte(`not json at all`),
		frame("unknown-event", `{}`),
		frame(EventLikePost, `{"postId":"p1"}`),             // missing author
		frame(EventSendMessage, `{"receiverId":"alice"}`),   // missing message
		frame(EventSendMessage, `"just a string"`),          // wrong shape
		frame(EventJoinStream, `{}`),                        // missing stream id
	}
	for _, raw := range frames {
		f.router.HandleMessage(sender, raw)
	}

	assert.Empty(t, drainEvents(t, receiver))
	assert.Empty(t, drainEvents(t, sender), "no error event surfaces to the sender")
}
