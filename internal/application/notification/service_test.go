package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sindoca/api/internal/domain"
)

type mockSubscriptionStore struct{ mock.Mock }

func (m *mockSubscriptionStore) ListByUser(ctx context.Context, userID string) ([]domain.PushSubscription, error) {
	args := m.Called(ctx, userID)
	if subs, ok := args.Get(0).([]domain.PushSubscription); ok {
		return subs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSubscriptionStore) Delete(ctx context.Context, userID, endpoint string) error {
	return m.Called(ctx, userID, endpoint).Error(0)
}

func (m *mockSubscriptionStore) IncrementFailure(ctx context.Context, userID, endpoint string) error {
	return m.Called(ctx, userID, endpoint).Error(0)
}

type mockPreferenceStore struct{ mock.Mock }

func (m *mockPreferenceStore) Get(ctx context.Context, userID string) (*domain.NotificationPreference, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*domain.NotificationPreference); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPreferenceStore) Put(ctx context.Context, p *domain.NotificationPreference) error {
	return m.Called(ctx, p).Error(0)
}

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) Put(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotificationStore) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, ok := args.Get(0).(*domain.Notification); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationStore) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if ns, ok := args.Get(0).([]domain.Notification); ok {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationStore) MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, ok := args.Get(0).(*domain.Notification); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

// mockSender counts deliveries and can fail selected endpoints. It is safe
// for concurrent use because Dispatch fans out in goroutines.
type mockSender struct {
	mu       sync.Mutex
	calls    int
	failWith map[string]error
}

func (m *mockSender) Send(_ context.Context, sub domain.PushSubscription, _ []byte) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if err, ok := m.failWith[sub.Endpoint]; ok {
		return err
	}
	return nil
}

func (m *mockSender) sent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newTestService(subs *mockSubscriptionStore, prefs *mockPreferenceStore, repo *mockNotificationStore, sender *mockSender) Service {
	return NewService(ServiceDeps{
		SubscriptionRepo: subs,
		PreferenceRepo:   prefs,
		NotificationRepo: repo,
		Sender:           sender,
	})
}

func enabledPreference(userID string) *domain.NotificationPreference {
	p := domain.DefaultPreference(userID, time.Now().UTC())
	p.Enabled = true
	return p
}

func subscription(userID, endpoint string) domain.PushSubscription {
	return domain.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   "p256dh-key",
		Auth:     "auth-secret",
	}
}

func TestShouldSendMasterDisabled(t *testing.T) {
	subs := new(mockSubscriptionStore)
	prefs := new(mockPreferenceStore)
	sender := &mockSender{}

	pref := domain.DefaultPreference("user-1", time.Now().UTC())
	pref.NewPhoto = true
	prefs.On("Get", mock.Anything, "user-1").Return(pref, nil)

	svc := newTestService(subs, prefs, new(mockNotificationStore), sender)

	assert.False(t, svc.ShouldSend(context.Background(), "user-1", domain.CategoryPhoto))
	assert.Equal(t, 0, sender.sent())
	subs.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
}

func TestShouldSendCategoryDisabled(t *testing.T) {
	prefs := new(mockPreferenceStore)
	pref := enabledPreference("user-1")
	pref.NewReaction = false
	prefs.On("Get", mock.Anything, "user-1").Return(pref, nil)

	svc := newTestService(new(mockSubscriptionStore), prefs, new(mockNotificationStore), &mockSender{})

	assert.False(t, svc.ShouldSend(context.Background(), "user-1", domain.CategoryReaction))
	assert.True(t, svc.ShouldSend(context.Background(), "user-1", domain.CategoryPhoto))
}

func TestShouldSendEmptyCategory(t *testing.T) {
	prefs := new(mockPreferenceStore)
	pref := enabledPreference("user-1")
	pref.NewPhoto = false
	pref.NewMessage = false
	prefs.On("Get", mock.Anything, "user-1").Return(pref, nil)

	svc := newTestService(new(mockSubscriptionStore), prefs, new(mockNotificationStore), &mockSender{})

	// Only the master flag gates an uncategorized send.
	assert.True(t, svc.ShouldSend(context.Background(), "user-1", ""))
}

func TestShouldSendUnknownCategory(t *testing.T) {
	prefs := new(mockPreferenceStore)
	prefs.On("Get", mock.Anything, "user-1").Return(enabledPreference("user-1"), nil)

	svc := newTestService(new(mockSubscriptionStore), prefs, new(mockNotificationStore), &mockSender{})

	assert.True(t, svc.ShouldSend(context.Background(), "user-1", "brand_new_category"))
}

func TestShouldSendCreatesDefaultPreference(t *testing.T) {
	prefs := new(mockPreferenceStore)
	prefs.On("Get", mock.Anything, "user-1").Return(nil, domain.ErrNotFound)
	prefs.On("Put", mock.Anything, mock.MatchedBy(func(p *domain.NotificationPreference) bool {
		return p.UserID == "user-1" && !p.Enabled && p.NewPhoto && !p.DailyReminder
	})).Return(nil)

	svc := newTestService(new(mockSubscriptionStore), prefs, new(mockNotificationStore), &mockSender{})

	// The default row has the master flag off, so nothing is sent yet.
	assert.False(t, svc.ShouldSend(context.Background(), "user-1", domain.CategoryPhoto))
	prefs.AssertExpectations(t)
}

func TestShouldSendStoreFailure(t *testing.T) {
	prefs := new(mockPreferenceStore)
	prefs.On("Get", mock.Anything, "user-1").Return(nil, errors.New("dynamo is down"))

	svc := newTestService(new(mockSubscriptionStore), prefs, new(mockNotificationStore), &mockSender{})

	assert.False(t, svc.ShouldSend(context.Background(), "user-1", domain.CategoryMessage))
}

func TestDispatchNoSubscriptions(t *testing.T) {
	subs := new(mockSubscriptionStore)
	subs.On("ListByUser", mock.Anything, "user-1").Return([]domain.PushSubscription{}, nil)
	sender := &mockSender{}

	svc := newTestService(subs, new(mockPreferenceStore), new(mockNotificationStore), sender)

	result := svc.Dispatch(context.Background(), "user-1", &domain.NotificationPayload{Title: "hi"})
	assert.Equal(t, DispatchResult{Delivered: 0, Failed: 0, Total: 0}, result)
	assert.Equal(t, 0, sender.sent())
}

func TestDispatchAllDelivered(t *testing.T) {
	subs := new(mockSubscriptionStore)
	subs.On("ListByUser", mock.Anything, "user-1").Return([]domain.PushSubscription{
		subscription("user-1", "https://push.example/a"),
		subscription("user-1", "https://push.example/b"),
	}, nil)
	sender := &mockSender{}

	svc := newTestService(subs, new(mockPreferenceStore), new(mockNotificationStore), sender)

	result := svc.Dispatch(context.Background(), "user-1", &domain.NotificationPayload{Title: "hi"})
	assert.Equal(t, DispatchResult{Delivered: 2, Failed: 0, Total: 2}, result)
	assert.Equal(t, 2, sender.sent())
}

func TestDispatchPartialFailure(t *testing.T) {
	subs := new(mockSubscriptionStore)
	subs.On("ListByUser", mock.Anything, "user-1").Return([]domain.PushSubscription{
		subscription("user-1", "https://push.example/a"),
		subscription("user-1", "https://push.example/b"),
		subscription("user-1", "https://push.example/c"),
	}, nil)
	subs.On("IncrementFailure", mock.Anything, "user-1", "https://push.example/b").Return(nil)
	sender := &mockSender{failWith: map[string]error{
		"https://push.example/b": errors.New("push service returned 500"),
	}}

	svc := newTestService(subs, new(mockPreferenceStore), new(mockNotificationStore), sender)

	// One bad endpoint must not stop delivery to the other two.
	result := svc.Dispatch(context.Background(), "user-1", &domain.NotificationPayload{Title: "hi"})
	assert.Equal(t, DispatchResult{Delivered: 2, Failed: 1, Total: 3}, result)
	subs.AssertExpectations(t)
}

func TestDispatchPrunesGoneSubscription(t *testing.T) {
	subs := new(mockSubscriptionStore)
	subs.On("ListByUser", mock.Anything, "user-1").Return([]domain.PushSubscription{
		subscription("user-1", "https://push.example/stale"),
		subscription("user-1", "https://push.example/live"),
	}, nil)
	subs.On("Delete", mock.Anything, "user-1", "https://push.example/stale").Return(nil)
	sender := &mockSender{failWith: map[string]error{
		"https://push.example/stale": fmt.Errorf("push endpoint returned 410: %w", domain.ErrGone),
	}}

	svc := newTestService(subs, new(mockPreferenceStore), new(mockNotificationStore), sender)

	result := svc.Dispatch(context.Background(), "user-1", &domain.NotificationPayload{Title: "hi"})
	assert.Equal(t, DispatchResult{Delivered: 1, Failed: 1, Total: 2}, result)
	subs.AssertCalled(t, "Delete", mock.Anything, "user-1", "https://push.example/stale")
	subs.AssertNotCalled(t, "IncrementFailure", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendIfAllowedSkippedByPreferences(t *testing.T) {
	subs := new(mockSubscriptionStore)
	prefs := new(mockPreferenceStore)
	repo := new(mockNotificationStore)
	sender := &mockSender{}

	pref := domain.DefaultPreference("user-1", time.Now().UTC())
	prefs.On("Get", mock.Anything, "user-1").Return(pref, nil)

	svc := newTestService(subs, prefs, repo, sender)

	outcome := svc.SendIfAllowed(context.Background(), "user-1", &domain.NotificationPayload{Title: "hi"}, domain.CategoryPhoto)
	assert.Equal(t, OutcomeSkippedPreferences, outcome.Status)
	assert.Equal(t, 0, sender.sent())
	subs.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestSendIfAllowedNoSubscriptions(t *testing.T) {
	subs := new(mockSubscriptionStore)
	subs.On("ListByUser", mock.Anything, "user-1").Return([]domain.PushSubscription{}, nil)
	prefs := new(mockPreferenceStore)
	prefs.On("Get", mock.Anything, "user-1").Return(enabledPreference("user-1"), nil)
	repo := new(mockNotificationStore)
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(subs, prefs, repo, &mockSender{})

	outcome := svc.SendIfAllowed(context.Background(), "user-1", &domain.NotificationPayload{Title: "hi"}, domain.CategoryPhoto)
	assert.Equal(t, OutcomeNoSubscriptions, outcome.Status)
	assert.Equal(t, DispatchResult{}, outcome.Result)
}

func TestSendIfAllowedSent(t *testing.T) {
	subs := new(mockSubscriptionStore)
	subs.On("ListByUser", mock.Anything, "user-1").Return([]domain.PushSubscription{
		subscription("user-1", "https://push.example/a"),
	}, nil)
	prefs := new(mockPreferenceStore)
	prefs.On("Get", mock.Anything, "user-1").Return(enabledPreference("user-1"), nil)
	repo := new(mockNotificationStore)
	repo.On("Put", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == "user-1" && n.Category == domain.CategoryMessage && n.Title == "New message"
	})).Return(nil)
	sender := &mockSender{}

	svc := newTestService(subs, prefs, repo, sender)

	outcome := svc.SendIfAllowed(context.Background(), "user-1", &domain.NotificationPayload{Title: "New message", Body: "hey"}, domain.CategoryMessage)
	require.Equal(t, OutcomeSent, outcome.Status)
	assert.Equal(t, DispatchResult{Delivered: 1, Failed: 0, Total: 1}, outcome.Result)
	repo.AssertExpectations(t)
}

func TestMarkAsReadWrongOwner(t *testing.T) {
	repo := new(mockNotificationStore)
	repo.On("Get", mock.Anything, "notif-1").Return(&domain.Notification{
		NotificationID: "notif-1",
		UserID:         "someone-else",
	}, nil)

	svc := newTestService(new(mockSubscriptionStore), new(mockPreferenceStore), repo, &mockSender{})

	_, err := svc.MarkAsRead(context.Background(), "notif-1", "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
}
