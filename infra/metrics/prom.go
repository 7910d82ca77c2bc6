package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/busradar/busradar/core/metrics"
)

// PromSink records delivery outcomes in Prometheus metrics.
type PromSink struct {
	deliveries *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	fleet      prometheus.Gauge
	roster     prometheus.Gauge
}

// NewPromSink registers delivery metrics on the default Prometheus
// registerer. The metrics server is started separately.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_deliveries_total",
		Help: "Total number of push delivery attempts",
	}, []string{"route_key", "event_kind", "delivered"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notification_delivery_seconds",
		Help:    "Time spent on one push delivery attempt",
		Buckets: prometheus.DefBuckets,
	}, []string{"route_key", "event_kind", "delivered"})
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_active_routes",
		Help: "Number of routes with a currently running vehicle",
	})
	roster := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roster_subscribers",
		Help: "Number of subscribers loaded at the last roster refresh",
	})

	if err := reg.Register(deliveries); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			deliveries = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fleet); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fleet = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(roster); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			roster = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{deliveries: deliveries, latency: latency, fleet: fleet, roster: roster}, nil
}

// RecordDeliveries increments the counter for each delivery attempt.
func (s *PromSink) RecordDeliveries(recs []coremetrics.DeliveryRecord) error {
	for _, r := range recs {
		labels := []string{r.RouteKey, r.Kind.String(), strconv.FormatBool(r.Delivered)}
		s.deliveries.WithLabelValues(labels...).Inc()
		s.latency.WithLabelValues(labels...).Observe(r.Latency.Seconds())
	}
	return nil
}

// RecordFleetSize sets the gauge to the number of active routes.
func (s *PromSink) RecordFleetSize(size int) error {
	s.fleet.Set(float64(size))
	return nil
}

// RecordRosterSize sets the gauge to the roster size.
func (s *PromSink) RecordRosterSize(size int) error {
	s.roster.Set(float64(size))
	return nil
}
