package user

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sindoca/api/internal/domain"
)

type Service interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.User, error)
	Update(ctx context.Context, userID string, req *domain.UpdateUserRequest) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, current, newPassword string) error
}

type store interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type service struct {
	repo store
}

func NewService(repo store) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.User, error) {
	return s.repo.ListByWorkspace(ctx, workspaceID)
}

func (s *service) Update(ctx context.Context, userID string, req *domain.UpdateUserRequest) (*domain.User, error) {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.Email != nil {
		existing, err := s.repo.GetByEmail(ctx, *req.Email)
		if err == nil && existing.UserID != userID {
			return nil, fmt.Errorf("email already in use: %w", domain.ErrConflict)
		}
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.AvatarKey != nil {
		updates["avatar_key"] = *req.AvatarKey
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID, current, newPassword string) error {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return fmt.Errorf("current password does not match: %w", domain.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.Update(ctx, userID, map[string]interface{}{
		"password_hash": string(hash),
		"updated_at":    time.Now().UTC().Format(time.RFC3339),
	})
}
