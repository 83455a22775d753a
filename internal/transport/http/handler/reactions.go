package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sindoca/api/internal/application/reaction"
	"github.com/sindoca/api/internal/domain"
	"github.com/sindoca/api/internal/pkg/validate"
	"github.com/sindoca/api/internal/transport/http/middleware"
)

// ReactionHandler handles emoji reactions on shared content.
type ReactionHandler struct {
	svc reaction.Service
}

func NewReactionHandler(svc reaction.Service) *ReactionHandler {
	return &ReactionHandler{svc: svc}
}

func (h *ReactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	re, err := h.svc.Create(r.Context(), claims.WorkspaceID, claims.UserID, &req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{Data: re})
}

func (h *ReactionHandler) ListByContent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	reactions, err := h.svc.ListByContent(r.Context(), claims.WorkspaceID, chi.URLParam(r, "contentID"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: reactions})
}

func (h *ReactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), claims.WorkspaceID, claims.UserID, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "reaction removed"})
}
