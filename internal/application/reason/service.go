package reason

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sindoca/api/internal/application/notification"
	"github.com/sindoca/api/internal/domain"
	"github.com/sindoca/api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, workspaceID, userID string, req *domain.ReasonInput) (*domain.Reason, error)
	List(ctx context.Context, workspaceID string) ([]domain.Reason, error)
	Update(ctx context.Context, workspaceID, userID, reasonID string, req *domain.ReasonInput) (*domain.Reason, error)
	Delete(ctx context.Context, workspaceID, userID, reasonID string) error
}

type store interface {
	Put(ctx context.Context, re *domain.Reason) error
	Get(ctx context.Context, reasonID string) (*domain.Reason, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.Reason, error)
	Update(ctx context.Context, reasonID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, reasonID string) error
}

type userStore interface {
	ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.User, error)
}

type notifier interface {
	SendIfAllowed(ctx context.Context, recipientID string, payload *domain.NotificationPayload, category string) notification.Outcome
}

type service struct {
	repo     store
	users    userStore
	notifier notifier
}

type ServiceDeps struct {
	ReasonRepo store
	UserRepo   userStore
	Notifier   notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.ReasonRepo, users: deps.UserRepo, notifier: deps.Notifier}
}

func (s *service) Create(ctx context.Context, workspaceID, userID string, req *domain.ReasonInput) (*domain.Reason, error) {
	now := time.Now().UTC()
	re := &domain.Reason{
		ReasonID:     id.New(),
		WorkspaceID:  workspaceID,
		AuthorUserID: userID,
		Text:         req.Text,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, re); err != nil {
		return nil, fmt.Errorf("failed to store reason: %w", err)
	}

	s.notifyPartner(ctx, workspaceID, userID, re)

	return re, nil
}

func (s *service) List(ctx context.Context, workspaceID string) ([]domain.Reason, error) {
	return s.repo.ListByWorkspace(ctx, workspaceID)
}

func (s *service) Update(ctx context.Context, workspaceID, userID, reasonID string, req *domain.ReasonInput) (*domain.Reason, error) {
	re, err := s.scoped(ctx, workspaceID, reasonID)
	if err != nil {
		return nil, err
	}
	if re.AuthorUserID != userID {
		return nil, fmt.Errorf("only the author can edit a reason: %w", domain.ErrForbidden)
	}
	if err := s.repo.Update(ctx, reasonID, map[string]interface{}{
		"text":       req.Text,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, err
	}
	re.Text = req.Text
	return re, nil
}

func (s *service) Delete(ctx context.Context, workspaceID, userID, reasonID string) error {
	re, err := s.scoped(ctx, workspaceID, reasonID)
	if err != nil {
		return err
	}
	if re.AuthorUserID != userID {
		return fmt.Errorf("only the author can delete a reason: %w", domain.ErrForbidden)
	}
	return s.repo.HardDelete(ctx, reasonID)
}

func (s *service) scoped(ctx context.Context, workspaceID, reasonID string) (*domain.Reason, error) {
	re, err := s.repo.Get(ctx, reasonID)
	if err != nil {
		return nil, err
	}
	if re.WorkspaceID != workspaceID {
		return nil, fmt.Errorf("reason belongs to another workspace: %w", domain.ErrForbidden)
	}
	return re, nil
}

func (s *service) notifyPartner(ctx context.Context, workspaceID, actorID string, re *domain.Reason) {
	if s.notifier == nil {
		return
	}
	members, err := s.users.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		slog.Warn("failed to list workspace members", "workspace_id", workspaceID, "err", err)
		return
	}
	payload := &domain.NotificationPayload{
		Title: "New reason",
		Body:  "Your partner added a new reason why they love you.",
		Tag:   re.ReasonID,
		Data:  map[string]string{"reason_id": re.ReasonID},
	}
	for _, member := range members {
		if member.UserID == actorID || !member.Enable {
			continue
		}
		outcome := s.notifier.SendIfAllowed(ctx, member.UserID, payload, domain.CategoryReason)
		slog.Info("reason notification", "recipient", member.UserID, "status", outcome.Status)
	}
}
