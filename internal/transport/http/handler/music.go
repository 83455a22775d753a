package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sindoca/api/internal/application/music"
	"github.com/sindoca/api/internal/domain"
	"github.com/sindoca/api/internal/pkg/validate"
	"github.com/sindoca/api/internal/transport/http/middleware"
)

// MusicHandler handles the Spotify connection and now-playing endpoints.
type MusicHandler struct {
	svc music.Service
}

func NewMusicHandler(svc music.Service) *MusicHandler {
	return &MusicHandler{svc: svc}
}

func (h *MusicHandler) Connect(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.ConnectMusicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "code required")
		return
	}
	mt, err := h.svc.Connect(r.Context(), claims.WorkspaceID, &req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: mt})
}

func (h *MusicHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Disconnect(r.Context(), claims.WorkspaceID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "disconnected"})
}

func (h *MusicHandler) NowPlaying(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	np, err := h.svc.NowPlaying(r.Context(), claims.WorkspaceID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: np})
}
