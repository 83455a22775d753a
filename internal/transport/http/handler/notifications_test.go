package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sindoca/api/internal/application/notification"
	"github.com/sindoca/api/internal/application/reminder"
	"github.com/sindoca/api/internal/domain"
)

// --- mocks ---

type mockNotificationSvc struct{ mock.Mock }

func (m *mockNotificationSvc) ShouldSend(ctx context.Context, recipientID, category string) bool {
	return m.Called(ctx, recipientID, category).Bool(0)
}

func (m *mockNotificationSvc) Dispatch(ctx context.Context, recipientID string, payload *domain.NotificationPayload) notification.DispatchResult {
	args := m.Called(ctx, recipientID, payload)
	return args.Get(0).(notification.DispatchResult)
}

func (m *mockNotificationSvc) SendIfAllowed(ctx context.Context, recipientID string, payload *domain.NotificationPayload, category string) notification.Outcome {
	args := m.Called(ctx, recipientID, payload, category)
	return args.Get(0).(notification.Outcome)
}

func (m *mockNotificationSvc) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if ns, ok := args.Get(0).([]domain.Notification); ok {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationSvc) MarkAsRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID, userID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockReminderSvc struct{ mock.Mock }

func (m *mockReminderSvc) Run(ctx context.Context) (*reminder.Result, error) {
	args := m.Called(ctx)
	if r, _ := args.Get(0).(*reminder.Result); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestNotifyForwardsOutcome(t *testing.T) {
	svc := new(mockNotificationSvc)
	svc.On("SendIfAllowed", mock.Anything, "user-1",
		mock.MatchedBy(func(p *domain.NotificationPayload) bool {
			return p.Title == "Hello" && p.Body == "world"
		}), domain.CategoryMessage).
		Return(notification.Outcome{
			Status: notification.OutcomeSent,
			Result: notification.DispatchResult{Delivered: 2, Total: 2},
		})

	h := NewNotificationHandler(svc, new(mockReminderSvc))
	rec := postJSON(t, h.Notify, "/v1/internal/notify", map[string]string{
		"user_id":  "user-1",
		"title":    "Hello",
		"body":     "world",
		"category": domain.CategoryMessage,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data notification.Outcome `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, notification.OutcomeSent, env.Data.Status)
	assert.Equal(t, 2, env.Data.Result.Delivered)
}

func TestNotifyRequiresUserID(t *testing.T) {
	svc := new(mockNotificationSvc)

	h := NewNotificationHandler(svc, new(mockReminderSvc))
	rec := postJSON(t, h.Notify, "/v1/internal/notify", map[string]string{"title": "Hello"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "SendIfAllowed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDailyReminderReportsCounts(t *testing.T) {
	remindSvc := new(mockReminderSvc)
	remindSvc.On("Run", mock.Anything).Return(&reminder.Result{Users: 2, Sent: 1, Skipped: 1}, nil)

	h := NewNotificationHandler(new(mockNotificationSvc), remindSvc)
	rec := postJSON(t, h.DailyReminder, "/v1/internal/daily-reminder", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data reminder.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, 2, env.Data.Users)
	assert.Equal(t, 1, env.Data.Sent)
}
