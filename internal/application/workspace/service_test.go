package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sindoca/api/internal/config"
	"github.com/sindoca/api/internal/domain"
)

type mockWorkspaceStore struct{ mock.Mock }

func (m *mockWorkspaceStore) Get(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	args := m.Called(ctx, workspaceID)
	if w, ok := args.Get(0).(*domain.Workspace); ok {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWorkspaceStore) Update(ctx context.Context, workspaceID string, updates map[string]interface{}) error {
	return m.Called(ctx, workspaceID, updates).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.User, error) {
	args := m.Called(ctx, workspaceID)
	if us, ok := args.Get(0).([]domain.User); ok {
		return us, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

func newGateService(users *mockUserStore, mail *mockMailer) Service {
	return NewService(ServiceDeps{
		WorkspaceRepo: new(mockWorkspaceStore),
		UserRepo:      users,
		Mailer:        mail,
		Config: &config.Config{
			InviteSecret:   "banana",
			InviteEmail:    "partner@example.com",
			InvitePassword: "hunter2",
		},
	})
}

func redeemedUsers() *mockUserStore {
	users := new(mockUserStore)
	users.On("GetByEmail", mock.Anything, "partner@example.com").Return(&domain.User{
		UserID:      "user-2",
		WorkspaceID: "ws-1",
		Email:       "partner@example.com",
	}, nil)
	users.On("ListByWorkspace", mock.Anything, "ws-1").Return([]domain.User{
		{UserID: "user-1", Email: "owner@example.com"},
		{UserID: "user-2", Email: "partner@example.com"},
	}, nil)
	return users
}

func TestVerifyInviteSubstringMatch(t *testing.T) {
	users := redeemedUsers()
	mail := new(mockMailer)
	mail.On("SendEmail", "owner@example.com", mock.Anything, mock.Anything).Return(nil)

	svc := newGateService(users, mail)

	creds, err := svc.VerifyInvite(context.Background(), &domain.InviteRequest{
		Answer: "eu gosto de banana com aveia",
	})
	require.NoError(t, err)
	assert.Equal(t, "partner@example.com", creds.Email)
	assert.Equal(t, "hunter2", creds.Password)
	mail.AssertExpectations(t)
}

func TestVerifyInviteCaseAndSpacing(t *testing.T) {
	users := redeemedUsers()
	mail := new(mockMailer)
	mail.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newGateService(users, mail)

	creds, err := svc.VerifyInvite(context.Background(), &domain.InviteRequest{Answer: "  BANANA  "})
	require.NoError(t, err)
	assert.Equal(t, "partner@example.com", creds.Email)
}

func TestVerifyInviteWrongAnswer(t *testing.T) {
	mail := new(mockMailer)
	svc := newGateService(new(mockUserStore), mail)

	creds, err := svc.VerifyInvite(context.Background(), &domain.InviteRequest{Answer: "abacaxi"})
	require.Error(t, err)
	assert.Nil(t, creds)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	mail.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyInviteUnconfigured(t *testing.T) {
	svc := NewService(ServiceDeps{
		WorkspaceRepo: new(mockWorkspaceStore),
		UserRepo:      new(mockUserStore),
		Config:        &config.Config{},
	})

	_, err := svc.VerifyInvite(context.Background(), &domain.InviteRequest{Answer: "banana"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifyInviteMailFailureDoesNotBlock(t *testing.T) {
	users := redeemedUsers()
	mail := new(mockMailer)
	mail.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	svc := newGateService(users, mail)

	creds, err := svc.VerifyInvite(context.Background(), &domain.InviteRequest{Answer: "banana"})
	require.NoError(t, err)
	assert.NotNil(t, creds)
}
