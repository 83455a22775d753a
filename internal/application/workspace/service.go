package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sindoca/api/internal/config"
	"github.com/sindoca/api/internal/domain"
)

type Service interface {
	Get(ctx context.Context, workspaceID string) (*domain.Workspace, error)
	Update(ctx context.Context, workspaceID string, updates map[string]interface{}) (*domain.Workspace, error)
	// VerifyInvite checks the free-text answer against the shared secret
	// and, on a match, hands back the pre-provisioned partner credentials.
	// Rejections are generic on purpose: the caller learns nothing about
	// how close the answer was.
	VerifyInvite(ctx context.Context, req *domain.InviteRequest) (*domain.InviteCredentials, error)
}

type workspaceStore interface {
	Get(ctx context.Context, workspaceID string) (*domain.Workspace, error)
	Update(ctx context.Context, workspaceID string, updates map[string]interface{}) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.User, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type service struct {
	workspaces     workspaceStore
	users          userStore
	mailer         mailer
	inviteSecret   string
	inviteEmail    string
	invitePassword string
}

type ServiceDeps struct {
	WorkspaceRepo workspaceStore
	UserRepo      userStore
	Mailer        mailer
	Config        *config.Config
}

func NewService(deps ServiceDeps) Service {
	return &service{
		workspaces:     deps.WorkspaceRepo,
		users:          deps.UserRepo,
		mailer:         deps.Mailer,
		inviteSecret:   deps.Config.InviteSecret,
		inviteEmail:    deps.Config.InviteEmail,
		invitePassword: deps.Config.InvitePassword,
	}
}

func (s *service) Get(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	return s.workspaces.Get(ctx, workspaceID)
}

func (s *service) Update(ctx context.Context, workspaceID string, updates map[string]interface{}) (*domain.Workspace, error) {
	if err := s.workspaces.Update(ctx, workspaceID, updates); err != nil {
		return nil, err
	}
	return s.workspaces.Get(ctx, workspaceID)
}

func (s *service) VerifyInvite(ctx context.Context, req *domain.InviteRequest) (*domain.InviteCredentials, error) {
	if s.inviteSecret == "" || s.inviteEmail == "" {
		slog.Error("invite gate is not configured")
		return nil, fmt.Errorf("invite not available: %w", domain.ErrUnauthorized)
	}

	answer := normalizeAnswer(req.Answer)
	secret := normalizeAnswer(s.inviteSecret)
	if !strings.Contains(answer, secret) {
		return nil, fmt.Errorf("wrong answer: %w", domain.ErrUnauthorized)
	}

	s.notifyOwner(ctx)

	return &domain.InviteCredentials{
		Email:    s.inviteEmail,
		Password: s.invitePassword,
	}, nil
}

// normalizeAnswer lowercases and collapses runs of whitespace so the match
// tolerates casing and spacing, nothing more.
func normalizeAnswer(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// notifyOwner emails the other member of the workspace that the invite was
// redeemed. Failures are logged and swallowed: the invite itself succeeded.
func (s *service) notifyOwner(ctx context.Context) {
	if s.mailer == nil {
		return
	}
	partner, err := s.users.GetByEmail(ctx, s.inviteEmail)
	if err != nil {
		slog.Warn("failed to resolve invited account", "err", err)
		return
	}
	members, err := s.users.ListByWorkspace(ctx, partner.WorkspaceID)
	if err != nil {
		slog.Warn("failed to list workspace members", "err", err)
		return
	}
	for _, member := range members {
		if member.Email == s.inviteEmail {
			continue
		}
		body := fmt.Sprintf("Your partner answered the invite question at %s.", time.Now().UTC().Format(time.RFC3339))
		if err := s.mailer.SendEmail(member.Email, "Someone joined your space", body); err != nil {
			slog.Warn("failed to send invite email", "to", member.Email, "err", err)
		}
	}
}
