package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mathieulrl/world-chat-sub000/internal/utils"
	"github.com/mathieulrl/world-chat-sub000/shared/api"
)

// GetUserConversations returns the distinct conversation ids derived from a
// user's records, first-seen order. A new address gets an empty list.
func (h *Handler) GetUserConversations(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	conversations, err := h.messaging.Conversations(r.Context(), address)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.ConversationsResponse{Conversations: conversations})
}

// GetConversationSummaries returns the synthesized per-conversation view
// (participants, last message, counts). Derived on every call, never cached.
func (h *Handler) GetConversationSummaries(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	summaries, err := h.messaging.ConversationSummaries(r.Context(), address)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.ConversationSummariesResponse{Conversations: summaries})
}
