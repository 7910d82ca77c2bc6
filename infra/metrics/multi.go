package metrics

import coremetrics "github.com/busradar/busradar/core/metrics"

// MultiSink fans delivery records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordDeliveries forwards the records to all sinks, returning the
// first error encountered.
func (m *MultiSink) RecordDeliveries(recs []coremetrics.DeliveryRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordDeliveries(recs); err != nil {
			return err
		}
	}
	return nil
}

// RecordFleetSize forwards the fleet size when supported by the sink.
func (m *MultiSink) RecordFleetSize(size int) error {
	for _, s := range m.Sinks {
		if fr, ok := s.(coremetrics.FleetSizeRecorder); ok {
			if err := fr.RecordFleetSize(size); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordRosterSize forwards the roster size when supported by the sink.
func (m *MultiSink) RecordRosterSize(size int) error {
	for _, s := range m.Sinks {
		if rr, ok := s.(coremetrics.RosterSizeRecorder); ok {
			if err := rr.RecordRosterSize(size); err != nil {
				return err
			}
		}
	}
	return nil
}
