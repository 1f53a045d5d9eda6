package ws

import (
	"context"
	"sync"
	"time"

	"github.com/Prince6626/devConnect-be/internal/logger"
	"github.com/Prince6626/devConnect-be/internal/model"
	"github.com/Prince6626/devConnect-be/internal/room"
)

// ConversationStore is the persistence the message pipeline needs: an
// atomic "append message + bump unread counter" for a pair.
type ConversationStore interface {
	AppendMessage(ctx context.Context, senderID, targetID, body string) (*model.Message, error)
}

// Hub owns connection lifecycle, room membership and the presence
// registry, and runs the message pipeline for sendMessage events.
// Event handlers never report failures back to the socket; they log
// and move on (the channel stays available even when a send is lost).
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*Client]struct{}
	joined   map[*Client]map[string]struct{}
	total    int
	maxConns int

	presence *Presence
	store    ConversationStore

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub(store ConversationStore, maxConns int) *Hub {
	if maxConns <= 0 {
		maxConns = 10000
	}
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		joined:     make(map[*Client]map[string]struct{}),
		maxConns:   maxConns,
		presence:   NewPresence(),
		store:      store,
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) shutdown() {
	// Collect all clients under the lock, do NOT perform I/O under mutex.
	h.mu.Lock()
	allClients := make([]*Client, 0, h.total)
	for c := range h.joined {
		allClients = append(allClients, c)
	}
	h.rooms = make(map[string]map[*Client]struct{})
	h.joined = make(map[*Client]map[string]struct{})
	h.total = 0
	h.mu.Unlock()

	// Close connections outside the lock (network I/O).
	for _, c := range allClients {
		c.Close()
	}
	for _, c := range allClients {
		c.Wait()
	}
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	if h.total >= h.maxConns {
		h.mu.Unlock()
		logger.Errorf("ws connection limit reached (%d), rejecting", h.maxConns)
		c.Close()
		return
	}
	if _, ok := h.joined[c]; !ok {
		h.joined[c] = make(map[string]struct{})
	}
	h.total++
	h.mu.Unlock()
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.joined[c]; !ok {
		h.mu.Unlock()
		return
	}
	for roomID := range h.joined[c] {
		delete(h.rooms[roomID], c)
		if len(h.rooms[roomID]) == 0 {
			delete(h.rooms, roomID)
		}
	}
	delete(h.joined, c)
	h.total--
	h.mu.Unlock()

	h.presence.Unregister(c)

	// Network I/O outside the lock.
	c.Close()
	if uid := c.UserID(); uid != "" {
		logger.Infof("ws user disconnected user=%s", uid)
	}
}

// HandleMessage dispatches one incoming event. Called from the
// connection's read pump, so events from the same connection are
// handled in arrival order.
func (h *Hub) HandleMessage(ctx context.Context, c *Client, msg IncomingMessage) {
	switch msg.Type {
	case EventRegisterUser:
		h.handleRegisterUser(c, msg)
	case EventJoinChat:
		h.handleJoinChat(c, msg)
	case EventSendMessage:
		h.handleSendMessage(ctx, c, msg)
	default:
		logger.Errorf("ws unknown event type=%q user=%s", msg.Type, c.UserID())
	}
}

func (h *Hub) handleRegisterUser(c *Client, msg IncomingMessage) {
	if msg.UserID == "" {
		logger.Error("ws registerUser without userId")
		return
	}
	c.setUserID(msg.UserID)
	h.presence.Register(msg.UserID, c)
	logger.Infof("ws user registered user=%s", msg.UserID)
}

func (h *Hub) handleJoinChat(c *Client, msg IncomingMessage) {
	if msg.UserID == "" || msg.TargetUserID == "" {
		logger.Error("ws joinChat without userId/targetUserId")
		return
	}
	roomID := room.Derive(msg.UserID, msg.TargetUserID)
	h.subscribe(c, roomID)
	// Fallback in case the explicit registerUser event was missed.
	c.setUserID(msg.UserID)
	h.presence.RegisterIfAbsent(msg.UserID, c)
}

// handleSendMessage runs the pipeline: persist (atomically, with the
// unread counter), broadcast to the room, then notify an online
// recipient who is not in the room. A persistence failure aborts the
// remaining steps; the sender gets no acknowledgment either way.
func (h *Hub) handleSendMessage(ctx context.Context, c *Client, msg IncomingMessage) {
	defer logger.DeferLogDuration("ws.handleSendMessage", time.Now())()
	if msg.UserID == "" || msg.TargetUserID == "" || msg.Text == "" {
		logger.Errorf("ws sendMessage missing fields user=%s", c.UserID())
		return
	}

	roomID := room.Derive(msg.UserID, msg.TargetUserID)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := h.store.AppendMessage(ctx, msg.UserID, msg.TargetUserID, msg.Text); err != nil {
		logger.Errorf("ws persist message from=%s to=%s: %v", msg.UserID, msg.TargetUserID, err)
		return
	}

	h.broadcast(roomID, OutgoingMessage{
		Type: EventMessageReceived,
		Payload: MessageReceivedPayload{
			FirstName: msg.FirstName,
			Text:      msg.Text,
			PhotoURL:  msg.PhotoURL,
		},
	})

	// Notify the recipient only when online and not already watching
	// the room (in-room connections got the broadcast above).
	target, online := h.presence.Lookup(msg.TargetUserID)
	if online && !h.inRoom(target, roomID) {
		h.sendToClient(target, OutgoingMessage{
			Type: EventMessageNotification,
			Payload: MessageNotificationPayload{
				SenderID:   msg.UserID,
				SenderName: msg.FirstName,
				Text:       msg.Text,
			},
		})
	}
}

func (h *Hub) subscribe(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][c] = struct{}{}
	if _, ok := h.joined[c]; !ok {
		h.joined[c] = make(map[string]struct{})
	}
	h.joined[c][roomID] = struct{}{}
}

func (h *Hub) inRoom(c *Client, roomID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[roomID][c]
	return ok
}

func (h *Hub) broadcast(roomID string, msg OutgoingMessage) {
	h.mu.RLock()
	members, ok := h.rooms[roomID]
	if !ok {
		h.mu.RUnlock()
		return
	}
	targets := make([]*Client, 0, len(members))
	for c := range members {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		h.sendToClient(c, msg)
	}
}

func (h *Hub) sendToClient(c *Client, msg OutgoingMessage) {
	select {
	case c.send <- msg:
	case <-c.done:
	default:
		// Backpressure: send buffer full, close slow client.
		logger.Errorf("ws send buffer full, closing slow client user=%s", c.UserID())
		c.Close()
	}
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.Close()
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
