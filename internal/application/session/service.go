package session

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sindoca/api/internal/domain"
	"github.com/sindoca/api/internal/pkg/id"
	"github.com/sindoca/api/internal/pkg/token"
)

type Service interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenPair, error)
	Refresh(ctx context.Context, req *domain.RefreshRequest) (*domain.TokenPair, error)
	Logout(ctx context.Context, sessionID string) error
	// LogoutAll revokes every session of the user, across devices.
	LogoutAll(ctx context.Context, userID string) error
	Current(ctx context.Context, sessionID string) (*domain.Session, error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error
	Update(ctx context.Context, sessionID string, updates map[string]interface{}) error
	SoftDeleteByUser(ctx context.Context, userID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type tokenSigner interface {
	Sign(userID, workspaceID, sessionID string) (string, error)
}

type service struct {
	sessions   sessionStore
	users      userStore
	signer     tokenSigner
	refreshDur time.Duration
}

type ServiceDeps struct {
	SessionRepo sessionStore
	UserRepo    userStore
	Signer      tokenSigner
	RefreshDur  time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		sessions:   deps.SessionRepo,
		users:      deps.UserRepo,
		signer:     deps.Signer,
		refreshDur: deps.RefreshDur,
	}
}

func (s *service) Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same answer for unknown email and wrong password.
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if !user.Enable {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	refresh, err := token.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID:        id.New(),
		UserID:           user.UserID,
		WorkspaceID:      user.WorkspaceID,
		Enable:           true,
		RefreshToken:     refresh,
		RefreshExpiresAt: now.Add(s.refreshDur).Unix(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	access, err := s.signer.Sign(user.UserID, user.WorkspaceID, sess.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	sess.User = user
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh, Session: sess}, nil
}

func (s *service) Refresh(ctx context.Context, req *domain.RefreshRequest) (*domain.TokenPair, error) {
	sess, err := s.sessions.GetByRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", domain.ErrUnauthorized)
	}
	if !sess.Enable {
		return nil, fmt.Errorf("session revoked: %w", domain.ErrUnauthorized)
	}
	if time.Now().Unix() > sess.RefreshExpiresAt {
		return nil, fmt.Errorf("refresh token expired: %w", domain.ErrUnauthorized)
	}

	newRefresh, err := token.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	newExpiry := time.Now().UTC().Add(s.refreshDur).Unix()
	if err := s.sessions.RotateRefreshToken(ctx, sess.SessionID, newRefresh, newExpiry); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	access, err := s.signer.Sign(sess.UserID, sess.WorkspaceID, sess.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: newRefresh}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Update(ctx, sessionID, map[string]interface{}{
		"enable":     false,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *service) LogoutAll(ctx context.Context, userID string) error {
	return s.sessions.SoftDeleteByUser(ctx, userID)
}

func (s *service) Current(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Enable {
		return nil, fmt.Errorf("session revoked: %w", domain.ErrUnauthorized)
	}
	user, err := s.users.Get(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	sess.User = user
	return sess, nil
}
