package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/busradar/busradar/auth"
	"github.com/busradar/busradar/core/logger"
	"github.com/busradar/busradar/core/model"
)

// Config defines the connection parameters for the roster directory.
type Config struct {
	URL string `json:"url"`
	// Token, when set, is sent as a static bearer token.
	Token          string `json:"token"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	// OAuth, when configured, takes precedence over Token. The client
	// then obtains bearer tokens via the client-credentials grant.
	OAuth auth.Conf `json:"oauth"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("roster: url is required")
	}
	return nil
}

// Record is one raw roster entry as served by the directory. Location
// holds the combined "lat,lon" coordinate string.
type Record struct {
	ID           string                 `json:"id"`
	Subscription model.PushSubscription `json:"subscription"`
	RouteKey     string                 `json:"clgNo"`
	Location     string                 `json:"location"`
}

// Client fetches the subscriber roster from the external directory.
type Client struct {
	cfg   Config
	http  *http.Client
	creds *auth.ClientCred
	log   logger.Logger
}

// NewClient creates a roster client from the configuration.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:  log,
	}
	if cfg.OAuth.Enabled() {
		c.creds = auth.NewClientCred(cfg.OAuth)
	}
	return c, nil
}

// Load fetches the full roster and converts it to subscribers.
// Malformed records are skipped, not fatal: a broken coordinate string
// yields a subscriber without position, a missing endpoint drops the
// record entirely.
func (c *Client) Load(ctx context.Context) ([]model.Subscriber, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, err
	}
	switch {
	case c.creds != nil:
		if err := c.creds.SetAuthHeader(req); err != nil {
			return nil, fmt.Errorf("roster auth: %w", err)
		}
	case c.cfg.Token != "":
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("roster directory returned %d", resp.StatusCode)
	}
	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return c.convert(records), nil
}

func (c *Client) convert(records []Record) []model.Subscriber {
	subs := make([]model.Subscriber, 0, len(records))
	for _, r := range records {
		if r.Subscription.Endpoint == "" {
			c.log.Warnf("skipping roster record %q: missing subscription endpoint", r.ID)
			continue
		}
		sub := model.Subscriber{
			ID:           r.ID,
			Subscription: r.Subscription,
			RouteKey:     model.NormalizeRouteKey(r.RouteKey),
		}
		if sub.ID == "" {
			sub.ID = uuid.NewString()
		}
		if lat, lon, ok := parseLocation(r.Location); ok {
			sub.Lat, sub.Lon, sub.HasPosition = lat, lon, true
		} else if r.Location != "" {
			c.log.Warnf("roster record %q has malformed location %q", sub.ID, r.Location)
		}
		subs = append(subs, sub)
	}
	return subs
}

// parseLocation splits a combined "lat,lon" string into its two
// numeric fields.
func parseLocation(s string) (float64, float64, bool) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}
