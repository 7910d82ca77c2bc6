// Package notify implements the proximity-triggered notification
// dispatch engine. It interprets inbound vehicle updates, converts
// location reports into geofence candidate queries, fans out push
// deliveries and keeps the at-most-once bookkeeping consistent under
// concurrent updates.
package notify
