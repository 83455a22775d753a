package photo

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sindoca/api/internal/application/notification"
	"github.com/sindoca/api/internal/domain"
	"github.com/sindoca/api/internal/pkg/id"
)

const presignTTL = 15 * time.Minute

// View is a photo plus a short-lived download URL.
type View struct {
	domain.Photo
	URL string `json:"url,omitempty"`
}

type UploadInput struct {
	Name        string
	ContentType string
	Caption     string
	TakenAt     *string
	Body        io.Reader
}

type Service interface {
	Upload(ctx context.Context, workspaceID, userID string, in *UploadInput) (*View, error)
	Get(ctx context.Context, workspaceID, photoID string) (*View, error)
	List(ctx context.Context, workspaceID string) ([]View, error)
	UpdateCaption(ctx context.Context, workspaceID, photoID, caption string) (*View, error)
	Delete(ctx context.Context, workspaceID, photoID string) error
}

type store interface {
	Put(ctx context.Context, p *domain.Photo) error
	Get(ctx context.Context, photoID string) (*domain.Photo, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.Photo, error)
	Update(ctx context.Context, photoID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, photoID string) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type userStore interface {
	ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.User, error)
}

type notifier interface {
	SendIfAllowed(ctx context.Context, recipientID string, payload *domain.NotificationPayload, category string) notification.Outcome
}

type service struct {
	repo     store
	objects  objectStore
	users    userStore
	notifier notifier
}

type ServiceDeps struct {
	PhotoRepo   store
	ObjectStore objectStore
	UserRepo    userStore
	Notifier    notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:     deps.PhotoRepo,
		objects:  deps.ObjectStore,
		users:    deps.UserRepo,
		notifier: deps.Notifier,
	}
}

func (s *service) Upload(ctx context.Context, workspaceID, userID string, in *UploadInput) (*View, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty upload: %w", domain.ErrBadRequest)
	}

	sum := sha256.Sum256(data)
	photoID := id.New()
	key := fmt.Sprintf("photos/%s/%s", workspaceID, photoID)

	if _, err := s.objects.Upload(ctx, key, bytes.NewReader(data), in.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store object: %w", err)
	}

	now := time.Now().UTC()
	p := &domain.Photo{
		PhotoID:          photoID,
		WorkspaceID:      workspaceID,
		Object:           key,
		Name:             in.Name,
		Caption:          in.Caption,
		Size:             int64(len(data)),
		Type:             in.ContentType,
		Hash:             hex.EncodeToString(sum[:]),
		UploadedByUserID: userID,
		TakenAt:          in.TakenAt,
		Enable:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	s.notifyPartner(ctx, workspaceID, userID, p)

	return s.view(ctx, p), nil
}

func (s *service) Get(ctx context.Context, workspaceID, photoID string) (*View, error) {
	p, err := s.repo.Get(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if p.WorkspaceID != workspaceID {
		return nil, fmt.Errorf("photo belongs to another workspace: %w", domain.ErrForbidden)
	}
	return s.view(ctx, p), nil
}

func (s *service) List(ctx context.Context, workspaceID string) ([]View, error) {
	photos, err := s.repo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(photos))
	for i := range photos {
		views = append(views, *s.view(ctx, &photos[i]))
	}
	return views, nil
}

func (s *service) UpdateCaption(ctx context.Context, workspaceID, photoID, caption string) (*View, error) {
	p, err := s.repo.Get(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if p.WorkspaceID != workspaceID {
		return nil, fmt.Errorf("photo belongs to another workspace: %w", domain.ErrForbidden)
	}
	if err := s.repo.Update(ctx, photoID, map[string]interface{}{
		"caption":    caption,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, err
	}
	p.Caption = caption
	return s.view(ctx, p), nil
}

func (s *service) Delete(ctx context.Context, workspaceID, photoID string) error {
	p, err := s.repo.Get(ctx, photoID)
	if err != nil {
		return err
	}
	if p.WorkspaceID != workspaceID {
		return fmt.Errorf("photo belongs to another workspace: %w", domain.ErrForbidden)
	}
	if err := s.repo.SoftDelete(ctx, photoID); err != nil {
		return err
	}
	// The object stays in the bucket; the row is only disabled.
	return nil
}

func (s *service) view(ctx context.Context, p *domain.Photo) *View {
	v := &View{Photo: *p}
	url, err := s.objects.PresignedURL(ctx, p.Object, presignTTL)
	if err != nil {
		slog.Warn("failed to presign photo url", "photo_id", p.PhotoID, "err", err)
		return v
	}
	v.URL = url
	return v
}

func (s *service) notifyPartner(ctx context.Context, workspaceID, actorID string, p *domain.Photo) {
	if s.notifier == nil {
		return
	}
	members, err := s.users.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		slog.Warn("failed to list workspace members", "workspace_id", workspaceID, "err", err)
		return
	}
	payload := &domain.NotificationPayload{
		Title: "New photo",
		Body:  "Your partner added a photo to your gallery.",
		Tag:   p.PhotoID,
		Data:  map[string]string{"photo_id": p.PhotoID},
	}
	for _, member := range members {
		if member.UserID == actorID || !member.Enable {
			continue
		}
		outcome := s.notifier.SendIfAllowed(ctx, member.UserID, payload, domain.CategoryPhoto)
		slog.Info("photo notification", "recipient", member.UserID, "status", outcome.Status)
	}
}
