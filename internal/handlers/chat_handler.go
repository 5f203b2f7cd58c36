// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jvidalgz/go-gympulse/internal/middleware"
	"github.com/jvidalgz/go-gympulse/internal/services"
)

type ChatHandler struct {
	ChatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{ChatService: chatService}
}

// GetMessages returns the retained public chat history, oldest first.
// The endpoint is public: the chat is readable without an account.
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.ChatService.History(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, messages)
}

// GetMessage returns a single chat message.
func (h *ChatHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	msg, err := h.ChatService.GetMessage(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, msg)
}

// UpdateMessage edits a message's text, author-or-admin only. Open
// chat views learn about the edit through a messageUpdated broadcast.
func (h *ChatHandler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.ChatService.UpdateMessage(r.Context(), id, req.Text, actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

// DeleteMessage removes a message, author-or-admin only.
func (h *ChatHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.ChatService.DeleteMessage(r.Context(), id, actor); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "message deleted")
}

// DeleteAllMessages wipes the whole chat log. The route is behind the
// admin middleware.
func (h *ChatHandler) DeleteAllMessages(w http.ResponseWriter, r *http.Request) {
	if err := h.ChatService.DeleteAll(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "all messages deleted")
}

// pathID parses the numeric {name} path variable, answering 400 itself
// on garbage.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
