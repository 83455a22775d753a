package subscription

import (
	"context"
	"time"

	"github.com/sindoca/api/internal/domain"
)

type Service interface {
	// Register stores a push subscription for the user. Re-registering an
	// endpoint the user already has overwrites it in place.
	Register(ctx context.Context, userID, userAgent string, req *domain.RegisterSubscriptionRequest) (*domain.PushSubscription, error)
	List(ctx context.Context, userID string) ([]domain.PushSubscription, error)
	Remove(ctx context.Context, userID, endpoint string) error
}

type store interface {
	Put(ctx context.Context, sub *domain.PushSubscription) error
	ListByUser(ctx context.Context, userID string) ([]domain.PushSubscription, error)
	Delete(ctx context.Context, userID, endpoint string) error
}

type service struct {
	repo store
}

func NewService(repo store) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, userID, userAgent string, req *domain.RegisterSubscriptionRequest) (*domain.PushSubscription, error) {
	now := time.Now().UTC()
	sub := &domain.PushSubscription{
		UserID:     userID,
		Endpoint:   req.Endpoint,
		P256dh:     req.P256dh,
		Auth:       req.Auth,
		UserAgent:  userAgent,
		LastSeenAt: now,
		CreatedAt:  now,
	}
	if err := s.repo.Put(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.PushSubscription, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Remove(ctx context.Context, userID, endpoint string) error {
	return s.repo.Delete(ctx, userID, endpoint)
}
