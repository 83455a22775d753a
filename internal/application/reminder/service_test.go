package reminder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sindoca/api/internal/application/notification"
	"github.com/sindoca/api/internal/domain"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) ListEnabled(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if us, ok := args.Get(0).([]domain.User); ok {
		return us, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) SendIfAllowed(ctx context.Context, recipientID string, payload *domain.NotificationPayload, category string) notification.Outcome {
	args := m.Called(ctx, recipientID, payload, category)
	return args.Get(0).(notification.Outcome)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

func TestRun(t *testing.T) {
	phone := "+5511999999999"
	users := new(mockUserStore)
	users.On("ListEnabled", mock.Anything).Return([]domain.User{
		{UserID: "user-1", Phone: &phone},
		{UserID: "user-2"},
		{UserID: "user-3"},
	}, nil)

	notifier := new(mockNotifier)
	notifier.On("SendIfAllowed", mock.Anything, "user-1", mock.Anything, domain.CategoryDailyReminder).
		Return(notification.Outcome{Status: notification.OutcomeSent})
	notifier.On("SendIfAllowed", mock.Anything, "user-2", mock.Anything, domain.CategoryDailyReminder).
		Return(notification.Outcome{Status: notification.OutcomeSkippedPreferences})
	notifier.On("SendIfAllowed", mock.Anything, "user-3", mock.Anything, domain.CategoryDailyReminder).
		Return(notification.Outcome{Status: notification.OutcomeNoSubscriptions})

	sms := new(mockSMS)
	sms.On("SendSMS", mock.Anything, phone, mock.Anything).Return(nil)

	svc := NewService(ServiceDeps{UserRepo: users, Notifier: notifier, SMS: sms})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Users)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.SMSSent)
	sms.AssertNumberOfCalls(t, "SendSMS", 1)
}

func TestRunSkippedUserGetsNoSMS(t *testing.T) {
	phone := "+5511888888888"
	users := new(mockUserStore)
	users.On("ListEnabled", mock.Anything).Return([]domain.User{
		{UserID: "user-1", Phone: &phone},
	}, nil)

	notifier := new(mockNotifier)
	notifier.On("SendIfAllowed", mock.Anything, "user-1", mock.Anything, domain.CategoryDailyReminder).
		Return(notification.Outcome{Status: notification.OutcomeSkippedPreferences})

	sms := new(mockSMS)

	svc := NewService(ServiceDeps{UserRepo: users, Notifier: notifier, SMS: sms})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}
