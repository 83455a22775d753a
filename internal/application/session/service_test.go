package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sindoca/api/internal/domain"
)

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Put(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if s, ok := args.Get(0).(*domain.Session); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionStore) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	args := m.Called(ctx, refreshToken)
	if s, ok := args.Get(0).(*domain.Session); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionStore) RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error {
	return m.Called(ctx, sessionID, newToken, newExpiry).Error(0)
}

func (m *mockSessionStore) Update(ctx context.Context, sessionID string, updates map[string]interface{}) error {
	return m.Called(ctx, sessionID, updates).Error(0)
}

func (m *mockSessionStore) SoftDeleteByUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(userID, workspaceID, sessionID string) (string, error) {
	args := m.Called(userID, workspaceID, sessionID)
	return args.String(0), args.Error(1)
}

func enabledUser(password string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &domain.User{
		UserID:       "user-1",
		WorkspaceID:  "ws-1",
		Email:        "owner@example.com",
		PasswordHash: string(hash),
		Enable:       true,
	}
}

func TestLogin(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetByEmail", mock.Anything, "owner@example.com").Return(enabledUser("correct-horse"), nil)
	sessions := new(mockSessionStore)
	sessions.On("Put", mock.Anything, mock.MatchedBy(func(s *domain.Session) bool {
		return s.UserID == "user-1" && s.WorkspaceID == "ws-1" && s.Enable && s.RefreshToken != ""
	})).Return(nil)
	signer := new(mockSigner)
	signer.On("Sign", "user-1", "ws-1", mock.Anything).Return("signed-jwt", nil)

	svc := NewService(ServiceDeps{
		SessionRepo: sessions,
		UserRepo:    users,
		Signer:      signer,
		RefreshDur:  30 * 24 * time.Hour,
	})

	pair, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "owner@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "signed-jwt", pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	require.NotNil(t, pair.Session)
	assert.Equal(t, "user-1", pair.Session.User.UserID)
	sessions.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetByEmail", mock.Anything, "owner@example.com").Return(enabledUser("correct-horse"), nil)
	sessions := new(mockSessionStore)

	svc := NewService(ServiceDeps{SessionRepo: sessions, UserRepo: users, Signer: new(mockSigner)})

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "owner@example.com",
		Password: "battery-staple",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	sessions.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	svc := NewService(ServiceDeps{SessionRepo: new(mockSessionStore), UserRepo: users, Signer: new(mockSigner)})

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefreshRotatesToken(t *testing.T) {
	sessions := new(mockSessionStore)
	sessions.On("GetByRefreshToken", mock.Anything, "old-token").Return(&domain.Session{
		SessionID:        "sess-1",
		UserID:           "user-1",
		WorkspaceID:      "ws-1",
		Enable:           true,
		RefreshToken:     "old-token",
		RefreshExpiresAt: time.Now().Add(time.Hour).Unix(),
	}, nil)
	sessions.On("RotateRefreshToken", mock.Anything, "sess-1", mock.Anything, mock.Anything).Return(nil)
	signer := new(mockSigner)
	signer.On("Sign", "user-1", "ws-1", "sess-1").Return("new-jwt", nil)

	svc := NewService(ServiceDeps{
		SessionRepo: sessions,
		UserRepo:    new(mockUserStore),
		Signer:      signer,
		RefreshDur:  30 * 24 * time.Hour,
	})

	pair, err := svc.Refresh(context.Background(), &domain.RefreshRequest{RefreshToken: "old-token"})
	require.NoError(t, err)
	assert.Equal(t, "new-jwt", pair.AccessToken)
	assert.NotEqual(t, "old-token", pair.RefreshToken)
	sessions.AssertExpectations(t)
}

func TestRefreshExpiredToken(t *testing.T) {
	sessions := new(mockSessionStore)
	sessions.On("GetByRefreshToken", mock.Anything, "old-token").Return(&domain.Session{
		SessionID:        "sess-1",
		Enable:           true,
		RefreshExpiresAt: time.Now().Add(-time.Hour).Unix(),
	}, nil)

	svc := NewService(ServiceDeps{SessionRepo: sessions, UserRepo: new(mockUserStore), Signer: new(mockSigner)})

	_, err := svc.Refresh(context.Background(), &domain.RefreshRequest{RefreshToken: "old-token"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	sessions.AssertNotCalled(t, "RotateRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCurrentRevokedSession(t *testing.T) {
	sessions := new(mockSessionStore)
	sessions.On("Get", mock.Anything, "sess-1").Return(&domain.Session{
		SessionID: "sess-1",
		Enable:    false,
	}, nil)

	svc := NewService(ServiceDeps{SessionRepo: sessions, UserRepo: new(mockUserStore), Signer: new(mockSigner)})

	_, err := svc.Current(context.Background(), "sess-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
