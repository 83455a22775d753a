package music

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sindoca/api/internal/domain"
	"github.com/sindoca/api/internal/infrastructure/spotify"
)

// refreshLeeway renews the access token slightly before it expires so a
// request never goes out with a token about to die mid-flight.
const refreshLeeway = 60 * time.Second

type Service interface {
	// Connect trades the OAuth authorization code for tokens and stores
	// them on the workspace.
	Connect(ctx context.Context, workspaceID string, req *domain.ConnectMusicRequest) (*domain.MusicToken, error)
	Disconnect(ctx context.Context, workspaceID string) error
	// NowPlaying returns the connected account's current track, refreshing
	// the stored access token when needed.
	NowPlaying(ctx context.Context, workspaceID string) (*domain.NowPlaying, error)
}

type store interface {
	Put(ctx context.Context, t *domain.MusicToken) error
	Get(ctx context.Context, workspaceID string) (*domain.MusicToken, error)
	Update(ctx context.Context, workspaceID string, updates map[string]interface{}) error
	Delete(ctx context.Context, workspaceID string) error
}

type service struct {
	repo   store
	client spotify.Client
}

func NewService(repo store, client spotify.Client) Service {
	return &service{repo: repo, client: client}
}

func (s *service) Connect(ctx context.Context, workspaceID string, req *domain.ConnectMusicRequest) (*domain.MusicToken, error) {
	if s.client == nil {
		return nil, fmt.Errorf("music integration not configured: %w", domain.ErrBadRequest)
	}
	tok, err := s.client.ExchangeCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	now := time.Now().UTC()
	mt := &domain.MusicToken{
		WorkspaceID:  workspaceID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    now.Add(time.Duration(tok.ExpiresIn) * time.Second).Unix(),
		Scope:        tok.Scope,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, mt); err != nil {
		return nil, fmt.Errorf("failed to store music tokens: %w", err)
	}
	return mt, nil
}

func (s *service) Disconnect(ctx context.Context, workspaceID string) error {
	return s.repo.Delete(ctx, workspaceID)
}

func (s *service) NowPlaying(ctx context.Context, workspaceID string) (*domain.NowPlaying, error) {
	if s.client == nil {
		return nil, fmt.Errorf("music integration not configured: %w", domain.ErrBadRequest)
	}
	mt, err := s.repo.Get(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	access, err := s.freshAccessToken(ctx, mt)
	if err != nil {
		return nil, err
	}

	playing, err := s.client.CurrentlyPlaying(ctx, access)
	if errors.Is(err, domain.ErrUnauthorized) {
		// The provider rejected a token we thought was fresh; force a
		// refresh and retry once.
		access, err = s.refresh(ctx, mt)
		if err != nil {
			return nil, err
		}
		return s.client.CurrentlyPlaying(ctx, access)
	}
	return playing, err
}

func (s *service) freshAccessToken(ctx context.Context, mt *domain.MusicToken) (string, error) {
	if time.Now().Add(refreshLeeway).Unix() < mt.ExpiresAt {
		return mt.AccessToken, nil
	}
	return s.refresh(ctx, mt)
}

func (s *service) refresh(ctx context.Context, mt *domain.MusicToken) (string, error) {
	tok, err := s.client.Refresh(ctx, mt.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh music token: %w", err)
	}

	now := time.Now().UTC()
	mt.AccessToken = tok.AccessToken
	mt.ExpiresAt = now.Add(time.Duration(tok.ExpiresIn) * time.Second).Unix()
	updates := map[string]interface{}{
		"access_token": tok.AccessToken,
		"expires_at":   mt.ExpiresAt,
		"updated_at":   now.Format(time.RFC3339),
	}
	// The provider only rotates the refresh token sometimes.
	if tok.RefreshToken != "" {
		mt.RefreshToken = tok.RefreshToken
		updates["refresh_token"] = tok.RefreshToken
	}
	if err := s.repo.Update(ctx, mt.WorkspaceID, updates); err != nil {
		return "", fmt.Errorf("failed to store refreshed token: %w", err)
	}
	return mt.AccessToken, nil
}
