package push

import (
	"context"
	"encoding/json"
	"fmt"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/busradar/busradar/core/model"
	corepush "github.com/busradar/busradar/core/push"
)

// Sender mirrors the core push.Sender interface.
type Sender = corepush.Sender

// Config defines the VAPID credentials used for Web Push delivery.
type Config struct {
	// Subscriber is the contact address sent to push services,
	// usually a mailto: URL.
	Subscriber      string `json:"subscriber"`
	VAPIDPublicKey  string `json:"vapid_public_key"`
	VAPIDPrivateKey string `json:"vapid_private_key"`
	// TTLSeconds is how long push services hold an undelivered message.
	TTLSeconds int `json:"ttl_seconds"`
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.VAPIDPublicKey == "" || c.VAPIDPrivateKey == "" {
		return fmt.Errorf("push: VAPID key pair is required")
	}
	return nil
}

// WebPushSender delivers payloads via the Web Push protocol.
type WebPushSender struct {
	cfg Config
}

// NewWebPushSender creates a sender from the configuration.
func NewWebPushSender(cfg Config) (*WebPushSender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.TTLSeconds <= 0 {
		cfg.TTLSeconds = 60
	}
	return &WebPushSender{cfg: cfg}, nil
}

// Send serializes the payload and posts it to the subscription endpoint.
// Any transport or push-service error counts as a failed delivery.
func (s *WebPushSender) Send(ctx context.Context, sub model.PushSubscription, payload corepush.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	wsub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}
	resp, err := webpush.SendNotificationWithContext(ctx, body, wsub, &webpush.Options{
		Subscriber:      s.cfg.Subscriber,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             s.cfg.TTLSeconds,
	})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}
	return nil
}
