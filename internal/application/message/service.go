package message

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
	Create(ctx context.Context, workspaceID, userID string, req *domain.CreateMessageRequest) (*domain.Message, error)
	List(ctx context.Context, workspaceID string) ([]domain.Message, error)
	Delete(ctx context.Context, workspaceID, userID, messageID string) error
}

type store interface {
	Put(ctx context.Context, m *domain.Message) error
	Get(ctx context.Context, messageID string) (*domain.Message, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.Message, error)
	HardDelete(ctx context.Context, messageID string) error
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
	MessageRepo store
	UserRepo    userStore
	Notifier    notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.MessageRepo, users: deps.UserRepo, notifier: deps.Notifier}
}

func (s *service) Create(ctx context.Context, workspaceID, userID string, req *domain.CreateMessageRequest) (*domain.Message, error) {
	now := time.Now().UTC()
	m := &domain.Message{
		MessageID:    id.New(),
		WorkspaceID:  workspaceID,
		AuthorUserID: userID,
		Body:         req.Body,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	s.notifyPartner(ctx, workspaceID, userID, m)

	return m, nil
}

func (s *service) List(ctx context.Context, workspaceID string) ([]domain.Message, error) {
	return s.repo.ListByWorkspace(ctx, workspaceID)
}

func (s *service) Delete(ctx context.Context, workspaceID, userID, messageID string) error {
	m, err := s.repo.Get(ctx, messageID)
	if err != nil {
		return err
	}
	if m.WorkspaceID != workspaceID {
		return fmt.Errorf("message belongs to another workspace: %w", domain.ErrForbidden)
	}
	if m.AuthorUserID != userID {
		return fmt.Errorf("only the author can delete a message: %w", domain.ErrForbidden)
	}
	return s.repo.HardDelete(ctx, messageID)
}

func (s *service) notifyPartner(ctx context.Context, workspaceID, actorID string, m *domain.Message) {
	if s.notifier == nil {
		return
	}
	members, err := s.users.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		slog.Warn("failed to list workspace members", "workspace_id", workspaceID, "err", err)
		return
	}
	payload := &domain.NotificationPayload{
		Title: "New message",
		Body:  "Your partner left you a message.",
		Tag:   m.MessageID,
		Data:  map[string]string{"message_id": m.MessageID},
	}
	for _, member := range members {
		if member.UserID == actorID || !member.Enable {
			continue
		}
		outcome := s.notifier.SendIfAllowed(ctx, member.UserID, payload, domain.CategoryMessage)
		slog.Info("message notification", "recipient", member.UserID, "status", outcome.Status)
	}
}
