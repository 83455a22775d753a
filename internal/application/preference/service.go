package preference

import (
	"context"
	"errors"
	"time"

	"github.com/sindoca/api/internal/domain"
)

type Service interface {
	// Get returns the user's preference row, creating the default one on
	// first access.
	Get(ctx context.Context, userID string) (*domain.NotificationPreference, error)
	// Update applies whichever flags the request carries and leaves the
	// rest untouched.
	Update(ctx context.Context, userID string, req *domain.UpdatePreferenceRequest) (*domain.NotificationPreference, error)
}

type store interface {
	Get(ctx context.Context, userID string) (*domain.NotificationPreference, error)
	Put(ctx context.Context, p *domain.NotificationPreference) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type service struct {
	repo store
}

func NewService(repo store) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.NotificationPreference, error) {
	pref, err := s.repo.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		pref = domain.DefaultPreference(userID, time.Now().UTC())
		if err := s.repo.Put(ctx, pref); err != nil {
			return nil, err
		}
		return pref, nil
	}
	return pref, err
}

func (s *service) Update(ctx context.Context, userID string, req *domain.UpdatePreferenceRequest) (*domain.NotificationPreference, error) {
	pref, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Enabled != nil {
		pref.Enabled = *req.Enabled
		updates["enabled"] = *req.Enabled
	}
	if req.NewReaction != nil {
		pref.NewReaction = *req.NewReaction
		updates["new_reaction"] = *req.NewReaction
	}
	if req.NewPhoto != nil {
		pref.NewPhoto = *req.NewPhoto
		updates["new_photo"] = *req.NewPhoto
	}
	if req.NewMessage != nil {
		pref.NewMessage = *req.NewMessage
		updates["new_message"] = *req.NewMessage
	}
	if req.NewReason != nil {
		pref.NewReason = *req.NewReason
		updates["new_reason"] = *req.NewReason
	}
	if req.DailyReminder != nil {
		pref.DailyReminder = *req.DailyReminder
		updates["daily_reminder"] = *req.DailyReminder
	}
	if len(updates) == 0 {
		return pref, nil
	}

	pref.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return pref, nil
}
