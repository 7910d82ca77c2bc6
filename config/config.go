package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/busradar/busradar/core/metrics"
	"github.com/busradar/busradar/core/notify"
	"github.com/busradar/busradar/core/scheduler"
	"github.com/busradar/busradar/infra/mqtt"
	"github.com/busradar/busradar/infra/push"
	"github.com/busradar/busradar/infra/roster"
)

type Config struct {
	HTTP     HTTPConfig       `json:"http"`
	MQTT     mqtt.Config      `json:"mqtt"`
	Push     push.Config      `json:"push"`
	Roster   roster.Config    `json:"roster"`
	Notify   notify.Config    `json:"notify"`
	Storage  StorageConfig    `json:"storage"`
	TrackLog TrackLogConfig   `json:"track_log"`
	Metrics  metrics.Config   `json:"metrics"`
	Cutoff   scheduler.Config `json:"cutoff"`
}

// HTTPConfig defines the listen address of the API server.
type HTTPConfig struct {
	Addr string `json:"addr"`
}

func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("BR_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "br_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.HTTP.SetDefaults()
	cfg.Notify.SetDefaults()
	cfg.Storage.SetDefaults()
	cfg.TrackLog.SetDefaults()
	cfg.Cutoff.SetDefaults()
	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.TrackLog.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Push.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
