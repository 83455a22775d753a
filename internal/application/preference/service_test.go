package preference

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sindoca/api/internal/domain"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Get(ctx context.Context, userID string) (*domain.NotificationPreference, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*domain.NotificationPreference); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Put(ctx context.Context, p *domain.NotificationPreference) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

func TestGetCreatesDefault(t *testing.T) {
	repo := new(mockStore)
	repo.On("Get", mock.Anything, "user-1").Return(nil, domain.ErrNotFound)
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo)

	pref, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, pref.Enabled)
	assert.True(t, pref.NewPhoto)
	assert.True(t, pref.NewMessage)
	assert.False(t, pref.DailyReminder)
	repo.AssertExpectations(t)
}

func TestUpdatePartial(t *testing.T) {
	existing := domain.DefaultPreference("user-1", time.Now().UTC())
	existing.Enabled = true

	repo := new(mockStore)
	repo.On("Get", mock.Anything, "user-1").Return(existing, nil)
	repo.On("Update", mock.Anything, "user-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		// Only the flipped flag goes to the store.
		v, ok := updates["new_photo"].(bool)
		return ok && !v && len(updates) == 1
	})).Return(nil)

	svc := NewService(repo)

	off := false
	pref, err := svc.Update(context.Background(), "user-1", &domain.UpdatePreferenceRequest{NewPhoto: &off})
	require.NoError(t, err)
	assert.False(t, pref.NewPhoto)
	assert.True(t, pref.Enabled)
	repo.AssertExpectations(t)
}

func TestUpdateNothingToChange(t *testing.T) {
	existing := domain.DefaultPreference("user-1", time.Now().UTC())

	repo := new(mockStore)
	repo.On("Get", mock.Anything, "user-1").Return(existing, nil)

	svc := NewService(repo)

	pref, err := svc.Update(context.Background(), "user-1", &domain.UpdatePreferenceRequest{})
	require.NoError(t, err)
	assert.False(t, pref.Enabled)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}
