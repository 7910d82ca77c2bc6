package notify

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	deliveryLatency *prometheus.HistogramVec
	updatesHandled  *prometheus.CounterVec
	pushSuccess     prometheus.Counter
	pushFailure     prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.HistogramVec, *prometheus.CounterVec, prometheus.Counter, prometheus.Counter) {
	lat := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "push_delivery_latency_seconds",
			Help:    "Latency of individual push delivery attempts",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"event_kind"},
	)
	upd := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vehicle_updates_total",
			Help: "Number of vehicle updates accepted for processing",
		},
		[]string{"event_kind"},
	)
	suc := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "push_delivery_success_total",
			Help: "Number of successful push deliveries",
		},
	)
	fail := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "push_delivery_failure_total",
			Help: "Number of failed push deliveries",
		},
	)
	return lat, upd, suc, fail
}

func init() {
	deliveryLatency, updatesHandled, pushSuccess, pushFailure = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers notify metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(deliveryLatency, updatesHandled, pushSuccess, pushFailure)
}

// ResetMetrics reinitializes metric collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	deliveryLatency, updatesHandled, pushSuccess, pushFailure = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
