package push

import (
	"context"

	"github.com/busradar/busradar/core/model"
)

// Payload is the message delivered to subscribers. Data is serialized
// as-is; the core never interprets it.
type Payload struct {
	// ID identifies one fan-out event across all its deliveries.
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Data  map[string]any `json:"data,omitempty"`
}

// Sender delivers one payload to one push subscription. A returned
// error counts as a failed delivery; the core never retries.
type Sender interface {
	Send(ctx context.Context, sub model.PushSubscription, payload Payload) error
}
