package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mathieulrl/world-chat-sub000/internal/service"
	"github.com/mathieulrl/world-chat-sub000/shared/logger"
)

type Handler struct {
	messaging service.MessagingService
}

func New(messaging service.MessagingService) *Handler {
	return &Handler{messaging: messaging}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("encoding response", "err", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

// writeJSONBody encodes after the caller has already committed a status code.
func writeJSONBody(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("encoding response", "err", err)
	}
}
