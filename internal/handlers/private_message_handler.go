// File: internal/handlers/private_message_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jvidalgz/go-gympulse/internal/middleware"
	"github.com/jvidalgz/go-gympulse/internal/services"
)

type PrivateMessageHandler struct {
	Service *services.PrivateMessageService
}

func NewPrivateMessageHandler(service *services.PrivateMessageService) *PrivateMessageHandler {
	return &PrivateMessageHandler{Service: service}
}

// ListConversations returns the caller's inbox, most recent first.
func (h *PrivateMessageHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	conversations, err := h.Service.ListConversations(r.Context(), u)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, conversations)
}

// GetConversationMessages returns the thread of one conversation the
// caller belongs to.
func (h *PrivateMessageHandler) GetConversationMessages(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	conversationID, ok := pathID(w, r, "conversationId")
	if !ok {
		return
	}

	thread, err := h.Service.ConversationMessages(r.Context(), u, conversationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, thread)
}

// ResolveConversationWithUser finds or creates the conversation with
// another user and returns it with its messages.
func (h *PrivateMessageHandler) ResolveConversationWithUser(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	otherID, ok := pathID(w, r, "otherUserId")
	if !ok {
		return
	}

	thread, err := h.Service.ResolveWithUser(r.Context(), u, otherID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, thread)
}

// SendMessage delivers a private message. The body keeps the field
// names the gym's frontend already speaks: destinatario and mensaje.
func (h *PrivateMessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		Destinatario uint   `json:"destinatario"`
		Mensaje      string `json:"mensaje"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sent, err := h.Service.Send(r.Context(), u, req.Destinatario, req.Mensaje)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, apiResponse{
		Success: true,
		Message: "message sent",
		Data:    sent,
	})
}

// MarkRead resets the caller's unread counter on a conversation.
func (h *PrivateMessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	conversationID, ok := pathID(w, r, "conversationId")
	if !ok {
		return
	}

	if err := h.Service.MarkRead(r.Context(), u, conversationID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "messages marked as read")
}

// DeleteMessage removes one of the caller's own messages.
func (h *PrivateMessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	messageID, ok := pathID(w, r, "messageId")
	if !ok {
		return
	}

	if err := h.Service.DeleteMessage(r.Context(), u, messageID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "message deleted")
}

// UnreadCount answers with the caller's total pending messages. The
// response keeps the cantidad field the frontend polls for.
func (h *PrivateMessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	total, err := h.Service.UnreadTotal(r.Context(), u)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"cantidad": total,
	})
}
