package reaction

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
	Create(ctx context.Context, workspaceID, userID string, req *domain.CreateReactionRequest) (*domain.Reaction, error)
	ListByContent(ctx context.Context, workspaceID, contentID string) ([]domain.Reaction, error)
	Delete(ctx context.Context, workspaceID, userID, reactionID string) error
}

type store interface {
	Put(ctx context.Context, re *domain.Reaction) error
	Get(ctx context.Context, reactionID string) (*domain.Reaction, error)
	ListByContent(ctx context.Context, contentID string) ([]domain.Reaction, error)
	HardDelete(ctx context.Context, reactionID string) error
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
	ReactionRepo store
	UserRepo     userStore
	Notifier     notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.ReactionRepo, users: deps.UserRepo, notifier: deps.Notifier}
}

func (s *service) Create(ctx context.Context, workspaceID, userID string, req *domain.CreateReactionRequest) (*domain.Reaction, error) {
	re := &domain.Reaction{
		ReactionID:  id.New(),
		WorkspaceID: workspaceID,
		ContentID:   req.ContentID,
		ContentType: req.ContentType,
		Emoji:       req.Emoji,
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, re); err != nil {
		return nil, fmt.Errorf("failed to store reaction: %w", err)
	}

	// Notification is best-effort; the reaction is already saved.
	s.notifyPartner(ctx, workspaceID, userID, re)

	return re, nil
}

func (s *service) ListByContent(ctx context.Context, workspaceID, contentID string) ([]domain.Reaction, error) {
	reactions, err := s.repo.ListByContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	scoped := make([]domain.Reaction, 0, len(reactions))
	for _, re := range reactions {
		if re.WorkspaceID == workspaceID {
			scoped = append(scoped, re)
		}
	}
	return scoped, nil
}

func (s *service) Delete(ctx context.Context, workspaceID, userID, reactionID string) error {
	re, err := s.repo.Get(ctx, reactionID)
	if err != nil {
		return err
	}
	if re.WorkspaceID != workspaceID {
		return fmt.Errorf("reaction belongs to another workspace: %w", domain.ErrForbidden)
	}
	if re.UserID != userID {
		return fmt.Errorf("only the author can remove a reaction: %w", domain.ErrForbidden)
	}
	return s.repo.HardDelete(ctx, reactionID)
}

func (s *service) notifyPartner(ctx context.Context, workspaceID, actorID string, re *domain.Reaction) {
	if s.notifier == nil {
		return
	}
	members, err := s.users.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		slog.Warn("failed to list workspace members", "workspace_id", workspaceID, "err", err)
		return
	}
	payload := &domain.NotificationPayload{
		Title: "New reaction",
		Body:  fmt.Sprintf("Your partner reacted with %s.", re.Emoji),
		Tag:   re.ReactionID,
		Data: map[string]string{
			"content_id":   re.ContentID,
			"content_type": re.ContentType,
		},
	}
	for _, member := range members {
		if member.UserID == actorID || !member.Enable {
			continue
		}
		outcome := s.notifier.SendIfAllowed(ctx, member.UserID, payload, domain.CategoryReaction)
		slog.Info("reaction notification", "recipient", member.UserID, "status", outcome.Status)
	}
}
