package webpush

import (
	"context"
	"fmt"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/sindoca/api/internal/config"
	"github.com/sindoca/api/internal/domain"
)

// A hung push gateway is treated as a failed delivery after this long.
const deliveryTimeout = 30 * time.Second

// Sender delivers an encrypted payload to one push endpoint.
type Sender interface {
	Send(ctx context.Context, sub domain.PushSubscription, payload []byte) error
}

type sender struct {
	httpClient      *http.Client
	subscriber      string
	vapidPublicKey  string
	vapidPrivateKey string
}

// NewSender creates a web-push sender. Returns an error when the VAPID key
// pair is not configured.
func NewSender(cfg *config.Config) (Sender, error) {
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		return nil, fmt.Errorf("VAPID keys not configured")
	}
	return &sender{
		httpClient:      &http.Client{Timeout: deliveryTimeout},
		subscriber:      cfg.VAPIDSubscriber,
		vapidPublicKey:  cfg.VAPIDPublicKey,
		vapidPrivateKey: cfg.VAPIDPrivateKey,
	}, nil
}

// Send pushes the payload to the subscription's endpoint. A 404/410 from the
// gateway means the endpoint no longer exists and is reported as
// domain.ErrGone so the caller can prune the registration; every other
// failure class is transient.
func (s *sender) Send(ctx context.Context, sub domain.PushSubscription, payload []byte) error {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      s.httpClient,
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.vapidPublicKey,
		VAPIDPrivateKey: s.vapidPrivateKey,
		TTL:             int((24 * time.Hour).Seconds()),
	})
	if err != nil {
		return fmt.Errorf("webpush send: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("push endpoint returned %d: %w", resp.StatusCode, domain.ErrGone)
	case resp.StatusCode >= 400:
		return fmt.Errorf("push endpoint returned %d", resp.StatusCode)
	}
	return nil
}
