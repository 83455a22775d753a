package reminder

import (
	"context"
	"log/slog"

	"github.com/sindoca/api/internal/application/notification"
	"github.com/sindoca/api/internal/domain"
)

// Result summarizes one daily-reminder run.
type Result struct {
	Users   int `json:"users"`
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	SMSSent int `json:"sms_sent"`
}

type Service interface {
	// Run sends the daily reminder to every enabled user who opted in.
	// Meant to be hit by an external scheduler once a day; running it
	// twice just annoys people, it never breaks anything.
	Run(ctx context.Context) (*Result, error)
}

type userStore interface {
	ListEnabled(ctx context.Context) ([]domain.User, error)
}

type notifier interface {
	SendIfAllowed(ctx context.Context, recipientID string, payload *domain.NotificationPayload, category string) notification.Outcome
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	users    userStore
	notifier notifier
	sms      smsSender
}

type ServiceDeps struct {
	UserRepo userStore
	Notifier notifier
	SMS      smsSender
}

func NewService(deps ServiceDeps) Service {
	return &service{users: deps.UserRepo, notifier: deps.Notifier, sms: deps.SMS}
}

func (s *service) Run(ctx context.Context) (*Result, error) {
	users, err := s.users.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}

	payload := &domain.NotificationPayload{
		Title: "Daily reminder",
		Body:  "Take a moment for your partner today.",
		Tag:   "daily-reminder",
	}

	result := &Result{Users: len(users)}
	for _, u := range users {
		outcome := s.notifier.SendIfAllowed(ctx, u.UserID, payload, domain.CategoryDailyReminder)
		switch outcome.Status {
		case notification.OutcomeSkippedPreferences:
			result.Skipped++
			continue
		case notification.OutcomeSent:
			result.Sent++
		}

		// SMS rides along for opted-in users with a phone number, even
		// when they have no push subscriptions.
		if s.sms != nil && u.Phone != nil && *u.Phone != "" {
			if err := s.sms.SendSMS(ctx, *u.Phone, payload.Body); err != nil {
				slog.Warn("failed to send reminder sms", "user_id", u.UserID, "err", err)
				continue
			}
			result.SMSSent++
		}
	}

	slog.Info("daily reminder run finished",
		"users", result.Users, "sent", result.Sent, "skipped", result.Skipped, "sms", result.SMSSent)
	return result, nil
}
