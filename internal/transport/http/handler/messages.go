package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sindoca/api/internal/application/message"
	"github.com/sindoca/api/internal/domain"
	"github.com/sindoca/api/internal/pkg/validate"
	"github.com/sindoca/api/internal/transport/http/middleware"
)

// MessageHandler handles the couple's message-board endpoints.
type MessageHandler struct {
	svc message.Service
}

func NewMessageHandler(svc message.Service) *MessageHandler {
	return &MessageHandler{svc: svc}
}

func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := h.svc.Create(r.Context(), claims.WorkspaceID, claims.UserID, &req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{Data: m})
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	messages, err := h.svc.List(r.Context(), claims.WorkspaceID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: messages})
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), claims.WorkspaceID, claims.UserID, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "message deleted"})
}
