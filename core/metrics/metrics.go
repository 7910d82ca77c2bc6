package metrics

import (
	"time"

	"github.com/busradar/busradar/core/model"
)

// DeliveryRecord represents one push delivery attempt to be recorded.
type DeliveryRecord struct {
	SubscriberID string
	RouteKey     string
	Kind         model.EventKind
	Delivered    bool
	Latency      time.Duration
	Time         time.Time
}

// Sink records delivery outcomes for observability purposes.
type Sink interface {
	RecordDeliveries(recs []DeliveryRecord) error
}

// FleetSizeRecorder is implemented by sinks able to record the number
// of currently active routes.
type FleetSizeRecorder interface {
	RecordFleetSize(size int) error
}

// RosterSizeRecorder is implemented by sinks able to record the roster
// size after a refresh.
type RosterSizeRecorder interface {
	RecordRosterSize(size int) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordDeliveries([]DeliveryRecord) error { return nil }
func (NopSink) RecordFleetSize(int) error               { return nil }
func (NopSink) RecordRosterSize(int) error              { return nil }

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}
