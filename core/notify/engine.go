package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/busradar/busradar/core/events"
	"github.com/busradar/busradar/core/fleet"
	"github.com/busradar/busradar/core/geo"
	"github.com/busradar/busradar/core/logger"
	"github.com/busradar/busradar/core/metrics"
	"github.com/busradar/busradar/core/model"
	"github.com/busradar/busradar/core/push"
	"github.com/busradar/busradar/core/roster"
	"github.com/busradar/busradar/core/tracklog"
	"github.com/busradar/busradar/internal/eventbus"
)

// Config defines tunables of the dispatch engine.
type Config struct {
	// RadiusKM is the proximity radius around a reported position.
	RadiusKM float64 `json:"radius_km"`
	// SendTimeoutSeconds bounds each individual push delivery attempt.
	SendTimeoutSeconds int `json:"send_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.RadiusKM <= 0 {
		c.RadiusKM = 1
	}
	if c.SendTimeoutSeconds <= 0 {
		c.SendTimeoutSeconds = 5
	}
}

// Engine processes vehicle updates and dispatches push notifications.
//
// All state-mutating handling goes through mu, one lock for the whole
// store. Overlapping updates run their select, dispatch and mark steps
// strictly one after another.
type Engine struct {
	store       roster.Store
	fleet       fleet.Tracker
	sender      push.Sender
	tracks      tracklog.Store
	log         logger.Logger
	sink        metrics.Sink
	bus         eventbus.EventBus
	radiusKM    float64
	sendTimeout time.Duration
	mu          sync.Mutex
}

// Outcome aggregates the settled delivery attempts of one fan-out.
type Outcome struct {
	Success int `json:"success"`
	Fail    int `json:"fail"`
}

// NewEngine creates an engine. Store, tracker and sender are mandatory.
func NewEngine(store roster.Store, tracker fleet.Tracker, sender push.Sender, cfg Config, log logger.Logger) (*Engine, error) {
	if store == nil || tracker == nil || sender == nil {
		return nil, fmt.Errorf("notify: nil parameter provided to NewEngine")
	}
	cfg.SetDefaults()
	return &Engine{
		store:       store,
		fleet:       tracker,
		sender:      sender,
		log:         log,
		radiusKM:    cfg.RadiusKM,
		sendTimeout: time.Duration(cfg.SendTimeoutSeconds) * time.Second,
	}, nil
}

// SetTrackLog configures the append-only coordinate log written on
// every location report.
func (e *Engine) SetTrackLog(store tracklog.Store) {
	e.mu.Lock()
	e.tracks = store
	e.mu.Unlock()
}

// SetMetricsSink configures the sink used to persist delivery outcomes.
func (e *Engine) SetMetricsSink(sink metrics.Sink) {
	e.mu.Lock()
	e.sink = sink
	e.mu.Unlock()
}

// SetEventBus configures the bus used to publish engine events.
func (e *Engine) SetEventBus(bus eventbus.EventBus) {
	e.mu.Lock()
	e.bus = bus
	e.mu.Unlock()
}

// HandleUpdate validates and processes one inbound vehicle update.
// Validation failures are reported as errors wrapping
// model.ErrInvalidUpdate and never enter the critical section. The
// returned Outcome is meaningful for location reports only; Started
// fan-out is fire-and-forget and settles after HandleUpdate returns.
func (e *Engine) HandleUpdate(ctx context.Context, u model.VehicleUpdate) (Outcome, error) {
	if err := u.Validate(); err != nil {
		return Outcome{}, err
	}
	updatesHandled.WithLabelValues(u.Kind.String()).Inc()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bus != nil {
		e.bus.Publish(events.UpdateEvent{Update: u})
	}

	switch u.Kind {
	case model.EventStarted:
		return Outcome{}, e.handleStarted(ctx, u)
	case model.EventStopped:
		e.fleet.MarkStopped(u.RouteKey())
		e.recordFleetSize()
		e.log.Infof("route %s stopped", u.RouteKey())
		return Outcome{}, nil
	default:
		return e.handleLocation(ctx, u)
	}
}

// handleStarted notifies every subscriber of the route that the vehicle
// is running, ignoring per-cycle notified flags, then registers the
// route as active. Delivery happens outside the lock and the caller
// does not wait for it. Started does not re-arm notified flags; only a
// roster refresh does.
func (e *Engine) handleStarted(ctx context.Context, u model.VehicleUpdate) error {
	route := u.RouteKey()
	subs, err := e.store.SelectByRoute(ctx, route)
	if err != nil {
		return fmt.Errorf("select route subscribers: %w", err)
	}
	e.fleet.MarkStarted(route)
	e.recordFleetSize()
	e.log.Infof("route %s started, notifying %d subscribers", route, len(subs))
	if len(subs) == 0 {
		return nil
	}
	payload := push.Payload{
		ID:    uuid.NewString(),
		Title: fmt.Sprintf("Bus %s has started", u.VehicleID),
		Data: map[string]any{
			"vehicle_id": u.VehicleID,
			"event":      u.Kind.String(),
		},
	}
	go func() {
		out := e.fanOut(context.Background(), subs, payload, u.Kind, route)
		e.log.Infof("route %s start notice settled: %d delivered, %d failed", route, out.Success, out.Fail)
	}()
	return nil
}

// handleLocation runs the fence, select, dispatch and mark pipeline and
// appends the raw coordinate as the last action before unlocking.
func (e *Engine) handleLocation(ctx context.Context, u model.VehicleUpdate) (Outcome, error) {
	route := u.RouteKey()
	box := geo.FenceAround(u.Lat, u.Lon, e.radiusKM)
	cands, err := e.store.SelectCandidates(ctx, route, box)
	if err != nil {
		return Outcome{}, fmt.Errorf("select candidates: %w", err)
	}

	var out Outcome
	if len(cands) > 0 {
		payload := push.Payload{
			ID:    uuid.NewString(),
			Title: fmt.Sprintf("Bus %s is nearby", u.VehicleID),
			Data: map[string]any{
				"vehicle_id": u.VehicleID,
				"event":      u.Kind.String(),
				"lat":        u.Lat,
				"lon":        u.Lon,
			},
		}
		out = e.fanOut(ctx, cands, payload, u.Kind, route)
		// Every candidate is marked once, delivered or not. A failed
		// push must not re-fire on the next location tick.
		for _, sub := range cands {
			if err := e.store.MarkNotified(ctx, sub.ID); err != nil {
				e.log.Errorf("mark notified %s: %v", sub.ID, err)
			}
		}
		e.log.Infof("route %s proximity event: %d candidates, %d delivered, %d failed",
			route, len(cands), out.Success, out.Fail)
	}

	if e.tracks != nil {
		p := tracklog.Point{VehicleID: u.VehicleID, Lat: u.Lat, Lon: u.Lon, Timestamp: time.Now().UTC()}
		if err := e.tracks.Append(ctx, p); err != nil {
			e.log.Errorf("track log append for %s: %v", u.VehicleID, err)
		}
	}
	return out, nil
}

// RefreshRoster swaps the whole roster under the serialization lock,
// re-arming all notified flags by construction.
func (e *Engine) RefreshRoster(ctx context.Context, subs []model.Subscriber) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.ReplaceAll(ctx, subs); err != nil {
		return fmt.Errorf("replace roster: %w", err)
	}
	if e.bus != nil {
		e.bus.Publish(events.RosterEvent{Action: "replace", Subscribers: len(subs)})
	}
	if rr, ok := e.sink.(metrics.RosterSizeRecorder); ok {
		if err := rr.RecordRosterSize(len(subs)); err != nil {
			e.log.Errorf("roster size metrics: %v", err)
		}
	}
	e.log.Infof("roster replaced with %d subscribers", len(subs))
	return nil
}

// ResetRoster clears all subscriber state under the serialization lock.
func (e *Engine) ResetRoster(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.ResetAll(ctx); err != nil {
		return fmt.Errorf("reset roster: %w", err)
	}
	if e.bus != nil {
		e.bus.Publish(events.RosterEvent{Action: "reset"})
	}
	e.log.Infof("roster reset")
	return nil
}

// ResetCycle starts a fresh service day: the active route set and the
// subscriber roster are emptied atomically with respect to update
// handling. Nothing is eligible for notification again until the next
// roster refresh repopulates the store.
func (e *Engine) ResetCycle(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.ResetAll(ctx); err != nil {
		return fmt.Errorf("reset roster: %w", err)
	}
	e.fleet.Clear()
	e.recordFleetSize()
	if e.bus != nil {
		e.bus.Publish(events.RosterEvent{Action: "reset"})
	}
	e.log.Infof("service day cycle reset")
	return nil
}

// ClearFleet empties the active route set. The daily cutoff job calls
// this after the track logs have been exported.
func (e *Engine) ClearFleet() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fleet.Clear()
	e.recordFleetSize()
	e.log.Infof("fleet set cleared")
}

// recordFleetSize reports the active route count to the sink after a
// fleet mutation. Callers hold the serialization lock.
func (e *Engine) recordFleetSize() {
	fr, ok := e.sink.(metrics.FleetSizeRecorder)
	if !ok {
		return
	}
	if err := fr.RecordFleetSize(len(e.fleet.Snapshot())); err != nil {
		e.log.Errorf("fleet size metrics: %v", err)
	}
}

// FleetSnapshot returns the active route keys. Read-only observability
// path, bypasses the serialization lock.
func (e *Engine) FleetSnapshot() []string {
	return e.fleet.Snapshot()
}
