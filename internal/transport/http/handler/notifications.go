package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sindoca/api/internal/application/notification"
	"github.com/sindoca/api/internal/application/reminder"
	"github.com/sindoca/api/internal/domain"
	"github.com/sindoca/api/internal/pkg/validate"
	"github.com/sindoca/api/internal/transport/http/middleware"
)

// NotificationHandler handles notification history and send endpoints.
type NotificationHandler struct {
	svc      notification.Service
	reminder reminder.Service
}

func NewNotificationHandler(svc notification.Service, reminderSvc reminder.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc, reminder: reminderSvc}
}

func (h *NotificationHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	notifications, err := h.svc.ListUnread(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: notifications})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	n, err := h.svc.MarkAsRead(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: n})
}

// SendTest pushes a test notification to the caller's own devices, skipping
// the preference gate so people can verify their setup before opting in.
func (h *NotificationHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	result := h.svc.Dispatch(r.Context(), claims.UserID, &domain.NotificationPayload{
		Title: "Test notification",
		Body:  "Push notifications are working.",
		Tag:   "test",
	})
	writeJSON(w, http.StatusOK, DataEnvelope{Data: result})
}

// Notify is the internal trigger: a trusted caller asks for a
// preference-aware send to one user.
func (h *NotificationHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string            `json:"user_id" validate:"required"`
		Title    string            `json:"title" validate:"required"`
		Body     string            `json:"body"`
		Icon     string            `json:"icon"`
		Tag      string            `json:"tag"`
		Data     map[string]string `json:"data"`
		Category string            `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	outcome := h.svc.SendIfAllowed(r.Context(), req.UserID, &domain.NotificationPayload{
		Title: req.Title,
		Body:  req.Body,
		Icon:  req.Icon,
		Tag:   req.Tag,
		Data:  req.Data,
	}, req.Category)
	writeJSON(w, http.StatusOK, DataEnvelope{Data: outcome})
}

// DailyReminder runs one reminder pass. Hit by an external cron, not an
// in-process scheduler.
func (h *NotificationHandler) DailyReminder(w http.ResponseWriter, r *http.Request) {
	result, err := h.reminder.Run(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: result})
}
