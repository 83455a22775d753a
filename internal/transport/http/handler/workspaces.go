package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sindoca/api/internal/application/workspace"
	"github.com/sindoca/api/internal/transport/http/middleware"
)

// WorkspaceHandler handles the couple's shared-space endpoints.
type WorkspaceHandler struct {
	svc workspace.Service
}

func NewWorkspaceHandler(svc workspace.Service) *WorkspaceHandler {
	return &WorkspaceHandler{svc: svc}
}

func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	ws, err := h.svc.Get(r.Context(), claims.WorkspaceID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: ws})
}

func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Name        *string `json:"name"`
		Anniversary *string `json:"anniversary"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Anniversary != nil {
		updates["anniversary"] = *req.Anniversary
	}
	if len(updates) == 0 {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	ws, err := h.svc.Update(r.Context(), claims.WorkspaceID, updates)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: ws})
}
