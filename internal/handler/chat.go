package handler

import (
	"net/http"
	"time"

	"github.com/Prince6626/devConnect-be/internal/logger"
	"github.com/Prince6626/devConnect-be/internal/middleware"
	"github.com/Prince6626/devConnect-be/internal/repository"
	"github.com/go-chi/chi/v5"
)

type ChatHandler struct {
	chatRepo *repository.ChatRepository
	userRepo *repository.UserRepository
}

func NewChatHandler(chatRepo *repository.ChatRepository, userRepo *repository.UserRepository) *ChatHandler {
	return &ChatHandler{chatRepo: chatRepo, userRepo: userRepo}
}

// OpenChat fetches (or lazily creates) the conversation with the target
// user, clears the caller's unread counter and returns the messages
// with sender display fields populated.
func (h *ChatHandler) OpenChat(w http.ResponseWriter, r *http.Request) {
	defer logger.DeferLogDuration("chat.OpenChat", time.Now())()
	userID := middleware.GetUserID(r.Context())
	targetUserID := chi.URLParam(r, "targetUserId")
	if targetUserID == "" || targetUserID == userID {
		writeError(w, http.StatusBadRequest, "invalid target user")
		return
	}

	chat, err := h.chatRepo.GetOrCreate(r.Context(), userID, targetUserID)
	if err != nil {
		logger.Errorf("open chat user=%s target=%s: %v", userID, targetUserID, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch chat")
		return
	}
	if err := h.chatRepo.ResetUnread(r.Context(), chat.ID, userID); err != nil {
		logger.Errorf("open chat reset unread user=%s chat=%s: %v", userID, chat.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch chat")
		return
	}

	conv, err := h.chatRepo.GetConversation(r.Context(), chat.ID)
	if err != nil {
		logger.Errorf("open chat load conversation chat=%s: %v", chat.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch chat")
		return
	}

	// Attach sender display fields (firstName, lastName, photoUrl).
	senders, err := h.userRepo.GetPublicByIDs(r.Context(), conv.Chat.Participants[:])
	if err != nil {
		logger.Errorf("open chat load senders chat=%s: %v", chat.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch chat")
		return
	}
	for i := range conv.Messages {
		if sender, ok := senders[conv.Messages[i].SenderID]; ok {
			conv.Messages[i].Sender = &sender
		}
	}

	writeJSON(w, http.StatusOK, conv)
}

type unreadAllResponse struct {
	UnreadCounts map[string]int `json:"unreadCounts"`
}

// UnreadAll returns the caller's unread counts keyed by counterpart
// user id; conversations with nothing unread are omitted.
func (h *ChatHandler) UnreadAll(w http.ResponseWriter, r *http.Request) {
	defer logger.DeferLogDuration("chat.UnreadAll", time.Now())()
	userID := middleware.GetUserID(r.Context())

	counts, err := h.chatRepo.ListUnread(r.Context(), userID)
	if err != nil {
		logger.Errorf("unread all user=%s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch unread counts")
		return
	}
	writeJSON(w, http.StatusOK, unreadAllResponse{UnreadCounts: counts})
}
