package ws

type EventType string

const (
	// client -> server
	EventRegisterUser EventType = "registerUser"
	EventJoinChat     EventType = "joinChat"
	EventSendMessage  EventType = "sendMessage"

	// server -> client
	EventMessageReceived     EventType = "messageReceived"
	EventMessageNotification EventType = "messageNotification"
)

// IncomingMessage is the envelope clients send over the socket.
type IncomingMessage struct {
	Type         EventType `json:"type"`
	UserID       string    `json:"userId,omitempty"`
	TargetUserID string    `json:"targetUserId,omitempty"`
	FirstName    string    `json:"firstName,omitempty"`
	Text         string    `json:"text,omitempty"`
	PhotoURL     string    `json:"photoUrl,omitempty"`
}

// OutgoingMessage is the envelope the server sends to clients.
// Payload uses typed structs to avoid heap-heavy map[string]any.
type OutgoingMessage struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// MessageReceivedPayload goes to every connection in the chat room.
type MessageReceivedPayload struct {
	FirstName string `json:"firstName"`
	Text      string `json:"text"`
	PhotoURL  string `json:"photoUrl"`
}

// MessageNotificationPayload goes to an online recipient who is not
// currently in the chat room.
type MessageNotificationPayload struct {
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Text       string `json:"text"`
}
