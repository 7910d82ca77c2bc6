package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/busradar/busradar/core/events"
	"github.com/busradar/busradar/core/model"
	"github.com/busradar/busradar/internal/eventbus"
)

type recordingLogger struct {
	mu    sync.Mutex
	debug []string
	info  []string
}

func (l *recordingLogger) Debugf(string, ...any) {}
func (l *recordingLogger) Debugw(msg string, _ map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = append(l.debug, msg)
}
func (l *recordingLogger) Infof(format string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.info = append(l.info, format)
}
func (l *recordingLogger) Warnf(string, ...any)  {}
func (l *recordingLogger) Errorf(string, ...any) {}

func (l *recordingLogger) snapshot() ([]string, []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.debug...), append([]string(nil), l.info...)
}

func TestRunEventLogDrainsBus(t *testing.T) {
	bus := eventbus.New()
	log := &recordingLogger{}
	done := make(chan struct{})
	go func() {
		runEventLog(bus, log)
		close(done)
	}()

	bus.Publish(events.UpdateEvent{Update: model.VehicleUpdate{VehicleID: "7", Kind: model.EventStarted}})
	bus.Publish(events.DeliveryEvent{SubscriberID: "s1", RouteKey: "7.0", Kind: model.EventLocation, Delivered: true})
	bus.Publish(events.DeliveryEvent{SubscriberID: "s2", RouteKey: "7.0", Kind: model.EventLocation, Err: errors.New("endpoint gone")})
	bus.Publish(events.RosterEvent{Action: "replace", Subscribers: 3})

	require.Eventually(t, func() bool {
		debug, info := log.snapshot()
		return len(debug) == 3 && len(info) == 1
	}, time.Second, 10*time.Millisecond)

	debug, _ := log.snapshot()
	assert.Contains(t, debug, "vehicle update accepted")
	assert.Contains(t, debug, "push delivered")
	assert.Contains(t, debug, "push delivery failed")

	bus.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("event log did not stop after bus close")
	}
}
