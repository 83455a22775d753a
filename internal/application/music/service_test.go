package music

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sindoca/api/internal/domain"
	"github.com/sindoca/api/internal/infrastructure/spotify"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, t *domain.MusicToken) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockStore) Get(ctx context.Context, workspaceID string) (*domain.MusicToken, error) {
	args := m.Called(ctx, workspaceID)
	if t, ok := args.Get(0).(*domain.MusicToken); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, workspaceID string, updates map[string]interface{}) error {
	return m.Called(ctx, workspaceID, updates).Error(0)
}

func (m *mockStore) Delete(ctx context.Context, workspaceID string) error {
	return m.Called(ctx, workspaceID).Error(0)
}

type mockClient struct{ mock.Mock }

func (m *mockClient) ExchangeCode(ctx context.Context, code string) (*spotify.Token, error) {
	args := m.Called(ctx, code)
	if t, ok := args.Get(0).(*spotify.Token); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClient) Refresh(ctx context.Context, refreshToken string) (*spotify.Token, error) {
	args := m.Called(ctx, refreshToken)
	if t, ok := args.Get(0).(*spotify.Token); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClient) CurrentlyPlaying(ctx context.Context, accessToken string) (*domain.NowPlaying, error) {
	args := m.Called(ctx, accessToken)
	if n, ok := args.Get(0).(*domain.NowPlaying); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestConnect(t *testing.T) {
	client := new(mockClient)
	client.On("ExchangeCode", mock.Anything, "auth-code").Return(&spotify.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Scope:        "user-read-currently-playing",
		ExpiresIn:    3600,
	}, nil)
	repo := new(mockStore)
	repo.On("Put", mock.Anything, mock.MatchedBy(func(mt *domain.MusicToken) bool {
		return mt.WorkspaceID == "ws-1" && mt.AccessToken == "access" && mt.RefreshToken == "refresh"
	})).Return(nil)

	svc := NewService(repo, client)

	mt, err := svc.Connect(context.Background(), "ws-1", &domain.ConnectMusicRequest{Code: "auth-code"})
	require.NoError(t, err)
	assert.Greater(t, mt.ExpiresAt, time.Now().Unix())
	repo.AssertExpectations(t)
}

func TestNowPlayingFreshToken(t *testing.T) {
	repo := new(mockStore)
	repo.On("Get", mock.Anything, "ws-1").Return(&domain.MusicToken{
		WorkspaceID: "ws-1",
		AccessToken: "still-good",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	}, nil)
	client := new(mockClient)
	client.On("CurrentlyPlaying", mock.Anything, "still-good").Return(&domain.NowPlaying{
		Playing: true,
		Track:   "Something",
	}, nil)

	svc := NewService(repo, client)

	np, err := svc.NowPlaying(context.Background(), "ws-1")
	require.NoError(t, err)
	assert.True(t, np.Playing)
	client.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
}

func TestNowPlayingRefreshesExpiringToken(t *testing.T) {
	repo := new(mockStore)
	repo.On("Get", mock.Anything, "ws-1").Return(&domain.MusicToken{
		WorkspaceID:  "ws-1",
		AccessToken:  "about-to-expire",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(10 * time.Second).Unix(),
	}, nil)
	repo.On("Update", mock.Anything, "ws-1", mock.Anything).Return(nil)
	client := new(mockClient)
	client.On("Refresh", mock.Anything, "refresh").Return(&spotify.Token{
		AccessToken: "fresh",
		ExpiresIn:   3600,
	}, nil)
	client.On("CurrentlyPlaying", mock.Anything, "fresh").Return(&domain.NowPlaying{Playing: false}, nil)

	svc := NewService(repo, client)

	np, err := svc.NowPlaying(context.Background(), "ws-1")
	require.NoError(t, err)
	assert.False(t, np.Playing)
	client.AssertExpectations(t)
	repo.AssertExpectations(t)
}
