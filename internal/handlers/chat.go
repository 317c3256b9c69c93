package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"serenity-backend/internal/middleware"
	"serenity-backend/internal/models"
	"serenity-backend/pkg/logger"
)

type relayService interface {
	SendMessage(ctx context.Context, userID uuid.UUID, rawText string) (string, error)
	History(ctx context.Context, userID uuid.UUID) ([]models.HistoryEntry, error)
}

type ChatHandler struct {
	relay relayService
	log   *logger.Logger
}

func NewChatHandler(relay relayService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{relay: relay, log: log}
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid request body"))
		return
	}

	userID := middleware.GetUserID(r.Context())

	reply, err := h.relay.SendMessage(r.Context(), userID, req.Message)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.SendMessageResponse{Reply: reply})
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	history, err := h.relay.History(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.HistoryResponse{History: history})
}
