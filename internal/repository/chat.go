package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Prince6626/devConnect-be/internal/logger"
	"github.com/Prince6626/devConnect-be/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// pairOf canonicalizes an unordered participant pair (low < high),
// matching the unique constraint on chats.
func pairOf(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// upsertChatSQL inserts the chat row for a pair or, if it already
// exists, touches updated_at. Either way it returns the chat id, so a
// single round trip resolves the pair atomically even when two senders
// race to create the same chat.
const upsertChatSQL = `
	INSERT INTO chats (id, participant_low, participant_high, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $4)
	ON CONFLICT (participant_low, participant_high)
	DO UPDATE SET updated_at = EXCLUDED.updated_at
	RETURNING id, created_at, updated_at`

// GetOrCreate resolves the chat for an unordered pair, creating it with
// zeroed unread counters for both participants if it does not exist.
func (r *ChatRepository) GetOrCreate(ctx context.Context, userA, userB string) (*model.Chat, error) {
	defer logger.DeferLogDuration("chat.GetOrCreate", time.Now())()
	low, high := pairOf(userA, userB)
	c := &model.Chat{Participants: [2]string{low, high}}
	err := r.pool.QueryRow(ctx, upsertChatSQL, uuid.New().String(), low, high, time.Now().UTC()).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("chatRepo.GetOrCreate: %w", err)
	}
	if err := r.ensureUnreadRows(ctx, c.ID, low, high); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ChatRepository) ensureUnreadRows(ctx context.Context, chatID string, users ...string) error {
	for _, u := range users {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO chat_unread (chat_id, user_id, count) VALUES ($1, $2, 0)
			 ON CONFLICT (chat_id, user_id) DO NOTHING`, chatID, u)
		if err != nil {
			return fmt.Errorf("chatRepo.ensureUnreadRows: %w", err)
		}
	}
	return nil
}

// AppendMessage persists one message and bumps the target's unread
// counter in a single transaction: upsert chat row, insert message,
// upsert-increment counter. Concurrent sends for the same pair cannot
// lose messages; each send commits its own insert and the counter
// increments are applied row-atomically.
func (r *ChatRepository) AppendMessage(ctx context.Context, senderID, targetID, body string) (*model.Message, error) {
	defer logger.DeferLogDuration("chat.AppendMessage", time.Now())()
	low, high := pairOf(senderID, targetID)
	now := time.Now().UTC()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("chatRepo.AppendMessage begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var chatID string
	var createdAt, updatedAt time.Time
	if err := tx.QueryRow(ctx, upsertChatSQL, uuid.New().String(), low, high, now).
		Scan(&chatID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("chatRepo.AppendMessage upsert chat: %w", err)
	}

	m := &model.Message{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: now,
	}
	if err := tx.QueryRow(ctx,
		`INSERT INTO messages (id, chat_id, sender_id, body, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING seq`,
		m.ID, m.ChatID, m.SenderID, m.Body, m.CreatedAt,
	).Scan(&m.Seq); err != nil {
		return nil, fmt.Errorf("chatRepo.AppendMessage insert: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO chat_unread (chat_id, user_id, count) VALUES ($1, $2, 1)
		 ON CONFLICT (chat_id, user_id) DO UPDATE SET count = chat_unread.count + 1`,
		chatID, targetID,
	); err != nil {
		return nil, fmt.Errorf("chatRepo.AppendMessage unread: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO chat_unread (chat_id, user_id, count) VALUES ($1, $2, 0)
		 ON CONFLICT (chat_id, user_id) DO NOTHING`,
		chatID, senderID,
	); err != nil {
		return nil, fmt.Errorf("chatRepo.AppendMessage unread sender: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("chatRepo.AppendMessage commit: %w", err)
	}
	return m, nil
}

// ResetUnread zeroes the unread counter of one participant, leaving
// the counterpart's untouched.
func (r *ChatRepository) ResetUnread(ctx context.Context, chatID, userID string) error {
	defer logger.DeferLogDuration("chat.ResetUnread", time.Now())()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO chat_unread (chat_id, user_id, count) VALUES ($1, $2, 0)
		 ON CONFLICT (chat_id, user_id) DO UPDATE SET count = 0`,
		chatID, userID,
	)
	if err != nil {
		return fmt.Errorf("chatRepo.ResetUnread: %w", err)
	}
	return nil
}

// GetConversation loads a chat with its messages in insertion order and
// the per-participant unread counters. Sender display fields are
// attached by the caller (user repository).
func (r *ChatRepository) GetConversation(ctx context.Context, chatID string) (*model.Conversation, error) {
	defer logger.DeferLogDuration("chat.GetConversation", time.Now())()
	conv := &model.Conversation{UnreadCount: make(map[string]int, 2)}
	err := r.pool.QueryRow(ctx,
		`SELECT id, participant_low, participant_high, created_at, updated_at FROM chats WHERE id = $1`, chatID,
	).Scan(&conv.Chat.ID, &conv.Chat.Participants[0], &conv.Chat.Participants[1], &conv.Chat.CreatedAt, &conv.Chat.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("chatRepo.GetConversation chat: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, chat_id, sender_id, body, seq, created_at
		 FROM messages WHERE chat_id = $1 ORDER BY seq`, chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("chatRepo.GetConversation messages query: %w", err)
	}
	defer rows.Close()

	conv.Messages = make([]model.Message, 0, 64)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Body, &m.Seq, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("chatRepo.GetConversation messages scan: %w", err)
		}
		conv.Messages = append(conv.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chatRepo.GetConversation messages rows: %w", err)
	}

	unreadRows, err := r.pool.Query(ctx,
		`SELECT user_id, count FROM chat_unread WHERE chat_id = $1`, chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("chatRepo.GetConversation unread query: %w", err)
	}
	defer unreadRows.Close()
	for unreadRows.Next() {
		var uid string
		var n int
		if err := unreadRows.Scan(&uid, &n); err != nil {
			return nil, fmt.Errorf("chatRepo.GetConversation unread scan: %w", err)
		}
		conv.UnreadCount[uid] = n
	}
	if err := unreadRows.Err(); err != nil {
		return nil, fmt.Errorf("chatRepo.GetConversation unread rows: %w", err)
	}
	return conv, nil
}

// ListUnread returns counterpart id -> unread count for every chat of
// the user with a positive counter. Chats fully read are omitted.
func (r *ChatRepository) ListUnread(ctx context.Context, userID string) (map[string]int, error) {
	defer logger.DeferLogDuration("chat.ListUnread", time.Now())()
	rows, err := r.pool.Query(ctx,
		`SELECT CASE WHEN c.participant_low = $1 THEN c.participant_high ELSE c.participant_low END, cu.count
		 FROM chat_unread cu
		 JOIN chats c ON c.id = cu.chat_id
		 WHERE cu.user_id = $1 AND cu.count > 0`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("chatRepo.ListUnread query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int, 8)
	for rows.Next() {
		var counterpart string
		var n int
		if err := rows.Scan(&counterpart, &n); err != nil {
			return nil, fmt.Errorf("chatRepo.ListUnread scan: %w", err)
		}
		out[counterpart] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chatRepo.ListUnread rows: %w", err)
	}
	return out, nil
}
