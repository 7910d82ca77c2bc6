package app

import (
	"github.com/busradar/busradar/core/events"
	"github.com/busradar/busradar/infra/logger"
	"github.com/busradar/busradar/internal/eventbus"
)

// runEventLog drains the engine event bus into the structured log,
// one record per bus event. It returns once the bus is closed.
func runEventLog(bus eventbus.EventBus, log logger.Logger) {
	for e := range bus.Subscribe() {
		switch ev := e.(type) {
		case events.UpdateEvent:
			log.Debugw("vehicle update accepted", map[string]any{
				"vehicle_id": ev.Update.VehicleID,
				"event":      ev.Update.Kind.String(),
			})
		case events.DeliveryEvent:
			fields := map[string]any{
				"subscriber_id": ev.SubscriberID,
				"route_key":     ev.RouteKey,
				"event":         ev.Kind.String(),
				"latency_ms":    ev.Latency.Milliseconds(),
			}
			if ev.Err != nil {
				fields["error"] = ev.Err.Error()
				log.Debugw("push delivery failed", fields)
				continue
			}
			log.Debugw("push delivered", fields)
		case events.RosterEvent:
			log.Infof("roster %s (%d subscribers)", ev.Action, ev.Subscribers)
		}
	}
}
