package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sindoca/api/internal/application/preference"
	"github.com/sindoca/api/internal/domain"
	"github.com/sindoca/api/internal/transport/http/middleware"
)

// PreferenceHandler handles notification-preference endpoints.
type PreferenceHandler struct {
	svc preference.Service
}

func NewPreferenceHandler(svc preference.Service) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	pref, err := h.svc.Get(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: pref})
}

func (h *PreferenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdatePreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	pref, err := h.svc.Update(r.Context(), claims.UserID, &req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: pref})
}
