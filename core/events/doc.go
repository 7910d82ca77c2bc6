// Package events defines the notification related events emitted on the
// event bus.
//
// Available event types:
//   - UpdateEvent: inbound vehicle update accepted for processing
//   - DeliveryEvent: outcome of one push delivery attempt
//   - RosterEvent: roster replace or reset
package events
