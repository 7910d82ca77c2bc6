package config

import (
	"fmt"
)

// StorageConfig defines where the subscriber roster is kept.
type StorageConfig struct {
	// Backend selects the roster store type: "memory" or "sqlite".
	Backend string `json:"backend"`
	// Path is the database file location. Only used by the sqlite backend.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *StorageConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "roster.db"
	}
}

// Validate checks mandatory fields.
func (c StorageConfig) Validate() error {
	if c.Backend != "memory" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown storage backend %s", c.Backend)
	}
	if c.Backend == "sqlite" && c.Path == "" {
		return fmt.Errorf("storage path is required for sqlite")
	}
	return nil
}

// TrackLogConfig defines settings for the vehicle coordinate log.
type TrackLogConfig struct {
	Enabled bool `json:"enabled"`
	// Backend selects the log store type: "jsonl" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the log store.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *TrackLogConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "tracks.log"
	}
}

// Validate checks mandatory fields.
func (c TrackLogConfig) Validate() error {
	if c.Backend != "jsonl" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown track log backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("track log path is required")
	}
	return nil
}
