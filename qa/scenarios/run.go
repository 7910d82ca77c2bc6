package scenarios

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/busradar/busradar/core/fleet"
	coremetrics "github.com/busradar/busradar/core/metrics"
	"github.com/busradar/busradar/core/model"
	"github.com/busradar/busradar/core/notify"
	"github.com/busradar/busradar/core/roster"
	"github.com/busradar/busradar/infra/logger"
	"github.com/busradar/busradar/infra/metrics"
	"github.com/busradar/busradar/infra/push"
	"github.com/busradar/busradar/internal/eventbus"
)

// RunScenario replays a scripted update sequence against a fresh engine
// and checks the observed deliveries and fleet state.
func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	sender := push.NewMockSender()
	for _, ep := range sc.FailEndpoints {
		sender.FailEndpoints[ep] = true
	}

	eng, err := notify.NewEngine(roster.NewMemoryStore(), fleet.NewMemoryTracker(), sender, notify.Config{RadiusKM: sc.RadiusKM}, logger.NopLogger{})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	eng.SetMetricsSink(sink)
	eng.SetEventBus(eventbus.New())

	ctx := context.Background()
	subs := make([]model.Subscriber, len(sc.Subscribers))
	for i, s := range sc.Subscribers {
		subs[i] = s.ToModel()
	}
	if err := eng.RefreshRoster(ctx, subs); err != nil {
		t.Fatalf("refresh roster: %v", err)
	}

	for i, ud := range sc.Updates {
		u, err := ud.ToModel()
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
		if _, err := eng.HandleUpdate(ctx, u); err != nil {
			t.Fatalf("update %d (%s %s): %v", i, u.VehicleID, u.Kind, err)
		}
	}

	// Started fan-outs run asynchronously; wait for deliveries to settle.
	deadline := time.Now().Add(2 * time.Second)
	for sender.Deliveries() < sc.Expected.Delivered && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := sender.Deliveries(); got != sc.Expected.Delivered {
		t.Errorf("deliveries: got %d want %d", got, sc.Expected.Delivered)
	}
	if got := len(eng.FleetSnapshot()); got != sc.Expected.ActiveRoutes {
		t.Errorf("active routes: got %d want %d", got, sc.Expected.ActiveRoutes)
	}
}
