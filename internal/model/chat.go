package model

import "time"

// Chat is one conversation between exactly two users. The participant
// pair is stored in canonical order (low < high) so the schema can
// enforce at most one chat per unordered pair.
type Chat struct {
	ID           string    `json:"id"`
	Participants [2]string `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Other returns the counterpart of userID in the chat, or "" if userID
// is not a participant.
func (c *Chat) Other(userID string) string {
	switch userID {
	case c.Participants[0]:
		return c.Participants[1]
	case c.Participants[1]:
		return c.Participants[0]
	}
	return ""
}

// Message is a single chat utterance. Immutable once persisted; Seq is
// the insertion-order key.
type Message struct {
	ID        string      `json:"id"`
	ChatID    string      `json:"chatId"`
	SenderID  string      `json:"senderId"`
	Body      string      `json:"text"`
	Seq       int64       `json:"-"`
	CreatedAt time.Time   `json:"createdAt"`
	Sender    *UserPublic `json:"sender,omitempty"`
}

// Conversation is a chat with its messages and the caller's unread
// counters, as returned by the open-chat endpoint.
type Conversation struct {
	Chat        Chat           `json:"chat"`
	Messages    []Message      `json:"messages"`
	UnreadCount map[string]int `json:"unreadCount"`
}
