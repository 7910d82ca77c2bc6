package scheduler

// Package scheduler runs the daily service-day cutoff. At the configured
// local time it invokes a job that exports the day's track log and clears
// the active fleet, so stale routes never carry into the next service day.
