package ws

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Prince6626/devConnect-be/internal/model"
	"github.com/stretchr/testify/require"
)

// fakeStore records appended messages in memory.
type fakeStore struct {
	mu       sync.Mutex
	appended []IncomingMessage
	failNext bool
}

func (s *fakeStore) AppendMessage(ctx context.Context, senderID, targetID, body string) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return nil, errors.New("store down")
	}
	s.appended = append(s.appended, IncomingMessage{UserID: senderID, TargetUserID: targetID, Text: body})
	return &model.Message{SenderID: senderID, Body: body}, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appended)
}

// drain returns all events currently buffered for the client.
func drain(c *Client) []OutgoingMessage {
	var out []OutgoingMessage
	for {
		select {
		case m := <-c.send:
			out = append(out, m)
		default:
			return out
		}
	}
}

func newTestHub(store ConversationStore) *Hub {
	return NewHub(store, 100)
}

func TestSendToRecipientInRoom(t *testing.T) {
	req := require.New(t)
	store := &fakeStore{}
	hub := newTestHub(store)
	ctx := context.Background()

	alice := NewClient(hub, nil)
	bob := NewClient(hub, nil)
	hub.addClient(alice)
	hub.addClient(bob)

	hub.HandleMessage(ctx, alice, IncomingMessage{Type: EventRegisterUser, UserID: "alice"})
	hub.HandleMessage(ctx, bob, IncomingMessage{Type: EventRegisterUser, UserID: "bob"})
	hub.HandleMessage(ctx, bob, IncomingMessage{Type: EventJoinChat, UserID: "bob", TargetUserID: "alice"})

	hub.HandleMessage(ctx, alice, IncomingMessage{
		Type: EventSendMessage, UserID: "alice", TargetUserID: "bob",
		FirstName: "Alice", Text: "hi", PhotoURL: "http://x/a.png",
	})

	req.Equal(1, store.count())

	got := drain(bob)
	req.Len(got, 1)
	req.Equal(EventMessageReceived, got[0].Type)
	payload, ok := got[0].Payload.(MessageReceivedPayload)
	req.True(ok)
	req.Equal("Alice", payload.FirstName)
	req.Equal("hi", payload.Text)
}

func TestSendToRecipientOnlineNotInRoom(t *testing.T) {
	req := require.New(t)
	store := &fakeStore{}
	hub := newTestHub(store)
	ctx := context.Background()

	alice := NewClient(hub, nil)
	bob := NewClient(hub, nil)
	hub.addClient(alice)
	hub.addClient(bob)

	hub.HandleMessage(ctx, alice, IncomingMessage{Type: EventRegisterUser, UserID: "alice"})
	hub.HandleMessage(ctx, bob, IncomingMessage{Type: EventRegisterUser, UserID: "bob"})

	hub.HandleMessage(ctx, alice, IncomingMessage{
		Type: EventSendMessage, UserID: "alice", TargetUserID: "bob",
		FirstName: "Alice", Text: "ping",
	})

	got := drain(bob)
	req.Len(got, 1)
	req.Equal(EventMessageNotification, got[0].Type)
	payload, ok := got[0].Payload.(MessageNotificationPayload)
	req.True(ok)
	req.Equal("alice", payload.SenderID)
	req.Equal("Alice", payload.SenderName)
	req.Equal("ping", payload.Text)
}

func TestSendToOfflineRecipient(t *testing.T) {
	req := require.New(t)
	store := &fakeStore{}
	hub := newTestHub(store)
	ctx := context.Background()

	alice := NewClient(hub, nil)
	hub.addClient(alice)
	hub.HandleMessage(ctx, alice, IncomingMessage{Type: EventRegisterUser, UserID: "alice"})

	hub.HandleMessage(ctx, alice, IncomingMessage{
		Type: EventSendMessage, UserID: "alice", TargetUserID: "bob",
		FirstName: "Alice", Text: "anyone there",
	})

	// Persisted, but nothing to deliver.
	req.Equal(1, store.count())
}

func TestSenderInRoomGetsOwnBroadcast(t *testing.T) {
	req := require.New(t)
	store := &fakeStore{}
	hub := newTestHub(store)
	ctx := context.Background()

	alice := NewClient(hub, nil)
	hub.addClient(alice)
	hub.HandleMessage(ctx, alice, IncomingMessage{Type: EventJoinChat, UserID: "alice", TargetUserID: "bob"})

	hub.HandleMessage(ctx, alice, IncomingMessage{
		Type: EventSendMessage, UserID: "alice", TargetUserID: "bob",
		FirstName: "Alice", Text: "echo",
	})

	got := drain(alice)
	req.Len(got, 1)
	req.Equal(EventMessageReceived, got[0].Type)
}

func TestPersistFailureAbortsPipeline(t *testing.T) {
	req := require.New(t)
	store := &fakeStore{failNext: true}
	hub := newTestHub(store)
	ctx := context.Background()

	alice := NewClient(hub, nil)
	bob := NewClient(hub, nil)
	hub.addClient(alice)
	hub.addClient(bob)

	hub.HandleMessage(ctx, bob, IncomingMessage{Type: EventJoinChat, UserID: "bob", TargetUserID: "alice"})
	hub.HandleMessage(ctx, alice, IncomingMessage{
		Type: EventSendMessage, UserID: "alice", TargetUserID: "bob",
		FirstName: "Alice", Text: "lost",
	})

	// No broadcast, no notification, no error event back to the sender.
	req.Empty(drain(alice))
	req.Empty(drain(bob))
	req.Equal(0, store.count())
}

func TestJoinChatRegistersPresenceFallback(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(&fakeStore{})
	ctx := context.Background()

	bob := NewClient(hub, nil)
	hub.addClient(bob)
	hub.HandleMessage(ctx, bob, IncomingMessage{Type: EventJoinChat, UserID: "bob", TargetUserID: "alice"})

	got, ok := hub.presence.Lookup("bob")
	req.True(ok)
	req.Same(bob, got)
}

func TestDisconnectClearsRoomsAndPresence(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(&fakeStore{})
	ctx := context.Background()

	alice := NewClient(hub, nil)
	bob := NewClient(hub, nil)
	hub.addClient(alice)
	hub.addClient(bob)

	hub.HandleMessage(ctx, bob, IncomingMessage{Type: EventRegisterUser, UserID: "bob"})
	hub.HandleMessage(ctx, bob, IncomingMessage{Type: EventJoinChat, UserID: "bob", TargetUserID: "alice"})

	hub.removeClient(bob)

	_, ok := hub.presence.Lookup("bob")
	req.False(ok)

	// Bob is gone from the room: a send now raises a notification-free,
	// broadcast-free delivery (offline recipient).
	hub.HandleMessage(ctx, alice, IncomingMessage{
		Type: EventSendMessage, UserID: "alice", TargetUserID: "bob",
		FirstName: "Alice", Text: "gone?",
	})
	req.Empty(drain(bob))
}
