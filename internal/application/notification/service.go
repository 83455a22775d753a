package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sindoca/api/internal/domain"
	"github.com/sindoca/api/internal/pkg/id"
)

// OutcomeStatus says what happened to a preference-aware send. Suppression by
// preference is deliberately distinct from having no registered devices and
// from delivery failure so callers and tests can tell them apart.
type OutcomeStatus string

const (
	OutcomeSent               OutcomeStatus = "sent"
	OutcomeSkippedPreferences OutcomeStatus = "skipped_preferences"
	OutcomeNoSubscriptions    OutcomeStatus = "no_subscriptions"
)

// DispatchResult aggregates one fan-out: how many endpoints got the payload,
// how many attempts failed, and how many subscriptions were targeted.
type DispatchResult struct {
	Delivered int `json:"sent"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

// Outcome is the result of SendIfAllowed.
type Outcome struct {
	Status OutcomeStatus  `json:"status"`
	Result DispatchResult `json:"result"`
}

type Service interface {
	// ShouldSend reports whether the recipient accepts the given category.
	// An empty category means an unconditional send (gated only by the
	// master flag). Never returns an error: a failed preference lookup
	// reads as "do not send".
	ShouldSend(ctx context.Context, recipientID, category string) bool
	// Dispatch fans the payload out to every subscription of the recipient.
	// Partial failure is reported in the counts, never as an error.
	Dispatch(ctx context.Context, recipientID string, payload *domain.NotificationPayload) DispatchResult
	// SendIfAllowed composes ShouldSend and Dispatch and records a history row.
	SendIfAllowed(ctx context.Context, recipientID string, payload *domain.NotificationPayload, category string) Outcome

	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error)
}

type subscriptionStore interface {
	ListByUser(ctx context.Context, userID string) ([]domain.PushSubscription, error)
	Delete(ctx context.Context, userID, endpoint string) error
	IncrementFailure(ctx context.Context, userID, endpoint string) error
}

type preferenceStore interface {
	Get(ctx context.Context, userID string) (*domain.NotificationPreference, error)
	Put(ctx context.Context, p *domain.NotificationPreference) error
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error)
}

type pushSender interface {
	Send(ctx context.Context, sub domain.PushSubscription, payload []byte) error
}

type service struct {
	subs   subscriptionStore
	prefs  preferenceStore
	repo   notificationStore
	sender pushSender
}

type ServiceDeps struct {
	SubscriptionRepo subscriptionStore
	PreferenceRepo   preferenceStore
	NotificationRepo notificationStore
	Sender           pushSender
}

func NewService(deps ServiceDeps) Service {
	return &service{
		subs:   deps.SubscriptionRepo,
		prefs:  deps.PreferenceRepo,
		repo:   deps.NotificationRepo,
		sender: deps.Sender,
	}
}

func (s *service) ShouldSend(ctx context.Context, recipientID, category string) bool {
	pref, err := s.prefs.Get(ctx, recipientID)
	if errors.Is(err, domain.ErrNotFound) {
		pref = domain.DefaultPreference(recipientID, time.Now().UTC())
		if perr := s.prefs.Put(ctx, pref); perr != nil {
			slog.Warn("failed to create default notification preference", "user_id", recipientID, "err", perr)
		}
	} else if err != nil {
		// Notifications are best-effort: storage trouble reads as opted out.
		slog.Warn("preference lookup failed", "user_id", recipientID, "err", err)
		return false
	}
	if !pref.Enabled {
		return false
	}
	if category == "" {
		return true
	}
	return pref.Category(category)
}

func (s *service) Dispatch(ctx context.Context, recipientID string, payload *domain.NotificationPayload) DispatchResult {
	subs, err := s.subs.ListByUser(ctx, recipientID)
	if err != nil {
		slog.Warn("failed to load push subscriptions", "user_id", recipientID, "err", err)
		return DispatchResult{}
	}
	if len(subs) == 0 {
		// Not an error: the recipient simply has no registered devices.
		return DispatchResult{}
	}
	if s.sender == nil {
		slog.Warn("push sender not configured, dropping dispatch", "user_id", recipientID)
		return DispatchResult{Failed: len(subs), Total: len(subs)}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("failed to marshal notification payload", "err", err)
		return DispatchResult{Failed: len(subs), Total: len(subs)}
	}

	var (
		mu        sync.Mutex
		delivered int
		failed    int
		wg        sync.WaitGroup
	)
	for _, sub := range subs {
		wg.Add(1)
		go func(sub domain.PushSubscription) {
			defer wg.Done()
			err := s.sender.Send(ctx, sub, body)
			switch {
			case err == nil:
				mu.Lock()
				delivered++
				mu.Unlock()
			case errors.Is(err, domain.ErrGone):
				// The endpoint no longer exists; prune the registration.
				if derr := s.subs.Delete(ctx, sub.UserID, sub.Endpoint); derr != nil {
					slog.Warn("failed to prune gone subscription", "user_id", sub.UserID, "endpoint", sub.Endpoint, "err", derr)
				}
				mu.Lock()
				failed++
				mu.Unlock()
			default:
				slog.Warn("push delivery failed", "user_id", sub.UserID, "endpoint", sub.Endpoint, "err", err)
				if ferr := s.subs.IncrementFailure(ctx, sub.UserID, sub.Endpoint); ferr != nil {
					slog.Warn("failed to record delivery failure", "user_id", sub.UserID, "err", ferr)
				}
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(sub)
	}
	wg.Wait()

	return DispatchResult{Delivered: delivered, Failed: failed, Total: len(subs)}
}

func (s *service) SendIfAllowed(ctx context.Context, recipientID string, payload *domain.NotificationPayload, category string) Outcome {
	if !s.ShouldSend(ctx, recipientID, category) {
		return Outcome{Status: OutcomeSkippedPreferences}
	}

	now := time.Now().UTC()
	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         recipientID,
		Category:       category,
		Title:          payload.Title,
		Body:           payload.Body,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Put(ctx, n); err != nil {
		slog.Warn("failed to store notification history", "user_id", recipientID, "err", err)
	}

	result := s.Dispatch(ctx, recipientID, payload)
	if result.Total == 0 {
		return Outcome{Status: OutcomeNoSubscriptions}
	}
	return Outcome{Status: OutcomeSent, Result: result}
}

func (s *service) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListUnread(ctx, userID)
}

func (s *service) MarkAsRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, fmt.Errorf("forbidden: %w", domain.ErrForbidden)
	}
	return s.repo.MarkAsRead(ctx, notificationID)
}
