package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sindoca/api/internal/application/workspace"
	"github.com/sindoca/api/internal/domain"
	"github.com/sindoca/api/internal/pkg/validate"
)

// InviteHandler handles the public invite-gate endpoint.
type InviteHandler struct {
	svc workspace.Service
}

func NewInviteHandler(svc workspace.Service) *InviteHandler {
	return &InviteHandler{svc: svc}
}

func (h *InviteHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req domain.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "answer required")
		return
	}
	creds, err := h.svc.VerifyInvite(r.Context(), &req)
	if err != nil {
		// Every rejection looks the same from outside.
		writeError(w, http.StatusUnauthorized, "wrong answer")
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: creds})
}
