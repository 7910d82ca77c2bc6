package config

import (
	"os"
	"path/filepath"
	"testing"
)

//nolint:gocyclo
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `http:
  addr: ":9000"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  client_id: "cli"
  username: "user"
  password: "pass"
  topic: "fleet/vehicle/+/update"
push:
  subscriber: "mailto:ops@example.com"
  vapid_public_key: "pub"
  vapid_private_key: "priv"
  ttl_seconds: 120
roster:
  url: "https://roster.example.com/students"
  token: "secret"
notify:
  radius_km: 2.5
  send_timeout_seconds: 5
storage:
  backend: "sqlite"
  path: "/tmp/roster.db"
track_log:
  enabled: true
  backend: "jsonl"
  path: "/tmp/tracks.log"
metrics:
  prometheus_enabled: true
  prometheus_port: ":2112"
cutoff:
  enabled: true
  cutoff_time: "02:30"
  timezone: "Asia/Kolkata"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"http.addr", cfg.HTTP.Addr, ":9000"},
		{"mqtt.enabled", cfg.MQTT.Enabled, true},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.client_id", cfg.MQTT.ClientID, "cli"},
		{"mqtt.topic", cfg.MQTT.Topic, "fleet/vehicle/+/update"},
		{"push.subscriber", cfg.Push.Subscriber, "mailto:ops@example.com"},
		{"push.ttl", cfg.Push.TTLSeconds, 120},
		{"roster.url", cfg.Roster.URL, "https://roster.example.com/students"},
		{"notify.radius_km", cfg.Notify.RadiusKM, 2.5},
		{"notify.send_timeout_seconds", cfg.Notify.SendTimeoutSeconds, 5},
		{"storage.backend", cfg.Storage.Backend, "sqlite"},
		{"storage.path", cfg.Storage.Path, "/tmp/roster.db"},
		{"track_log.backend", cfg.TrackLog.Backend, "jsonl"},
		{"metrics.prometheus", cfg.Metrics.PrometheusEnabled, true},
		{"cutoff.time", cfg.Cutoff.CutoffTime, "02:30"},
		{"cutoff.timezone", cfg.Cutoff.Timezone, "Asia/Kolkata"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{"push": {"vapid_public_key": "pub", "vapid_private_key": "priv"}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("http addr default: got %q", cfg.HTTP.Addr)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("storage backend default: got %q", cfg.Storage.Backend)
	}
	if cfg.TrackLog.Backend != "jsonl" || cfg.TrackLog.Path != "tracks.log" {
		t.Errorf("track log defaults: got %q %q", cfg.TrackLog.Backend, cfg.TrackLog.Path)
	}
	if cfg.Cutoff.CutoffTime != "03:00" {
		t.Errorf("cutoff default: got %q", cfg.Cutoff.CutoffTime)
	}
	if cfg.Notify.RadiusKM != 1 {
		t.Errorf("radius default: got %v", cfg.Notify.RadiusKM)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLoadRejectsMissingVAPIDKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("http:\n  addr: \":8080\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing VAPID keys")
	}
}

func TestStorageConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     StorageConfig
		wantErr bool
	}{
		{"memory", StorageConfig{Backend: "memory"}, false},
		{"sqlite", StorageConfig{Backend: "sqlite", Path: "x.db"}, false},
		{"sqlite without path", StorageConfig{Backend: "sqlite"}, true},
		{"unknown", StorageConfig{Backend: "postgres"}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.cfg.Validate()
			if c.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !c.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
