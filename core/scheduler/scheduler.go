package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/busradar/busradar/core/logger"
)

// Config defines when the daily cutoff runs.
type Config struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// CutoffTime is the local wall-clock time of the cutoff, "HH:MM".
	CutoffTime string `json:"cutoff_time" yaml:"cutoff_time"`
	// Timezone is an IANA zone name. Empty means the host's local zone.
	Timezone string `json:"timezone" yaml:"timezone"`
	// ExportDir receives the daily track exports. Empty disables export.
	ExportDir string `json:"export_dir" yaml:"export_dir"`
}

// SetDefaults fills missing fields with sensible values.
func (c *Config) SetDefaults() {
	if c.CutoffTime == "" {
		c.CutoffTime = "03:00"
	}
}

// Job is the work run at each cutoff instant.
type Job func(ctx context.Context) error

// Cutoff schedules a Job once per day at the configured time.
type Cutoff struct {
	hour, minute int
	loc          *time.Location
	job          Job
	log          logger.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewCutoff validates cfg and builds a Cutoff runner.
func NewCutoff(cfg Config, job Job, log logger.Logger) (*Cutoff, error) {
	if job == nil {
		return nil, errors.New("scheduler: job is required")
	}
	h, m, err := parseClock(cfg.CutoffTime)
	if err != nil {
		return nil, err
	}
	loc := time.Local
	if cfg.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("scheduler: load timezone %q: %w", cfg.Timezone, err)
		}
	}
	return &Cutoff{hour: h, minute: m, loc: loc, job: job, log: log, now: time.Now}, nil
}

// Next returns the first cutoff instant strictly after t.
func (c *Cutoff) Next(t time.Time) time.Time {
	t = t.In(c.loc)
	next := time.Date(t.Year(), t.Month(), t.Day(), c.hour, c.minute, 0, 0, c.loc)
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks until ctx is done, firing the job at each cutoff instant.
// Job errors are logged, never fatal.
func (c *Cutoff) Run(ctx context.Context) {
	for {
		now := c.now()
		next := c.Next(now)
		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		c.log.Infof("daily cutoff firing at %s", next.Format(time.RFC3339))
		if err := c.job(ctx); err != nil {
			c.log.Errorf("daily cutoff job failed: %v", err)
		}
	}
}

func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("scheduler: invalid cutoff time %q, want HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("scheduler: invalid cutoff hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("scheduler: invalid cutoff minute in %q", s)
	}
	return hour, minute, nil
}
