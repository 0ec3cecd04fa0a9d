package app

import (
	"time"

	"github.com/pentrail/pentrail/internal/snapshot"
	"github.com/pentrail/pentrail/internal/webclient"
)

// Config contains the runtime configuration shared by the CLI and the HTTP
// server. Fields map one-to-one onto config file keys and flags.
type Config struct {
	// ListenAddr is the HTTP API bind address.
	ListenAddr string

	// StoreBackend selects where analyses are kept: "memory" or "sqlite".
	StoreBackend string

	// StorePath is the SQLite database path. Ignored for the memory backend.
	StorePath string

	// MemoryTTL bounds how long the memory backend retains an analysis.
	MemoryTTL time.Duration

	// WebClientCfg configures the header-fetching HTTP client.
	WebClientCfg webclient.Config

	// SnapshotCfg selects and configures the page capture backend.
	SnapshotCfg snapshot.Config

	// JobTimeout bounds a single analysis job.
	JobTimeout time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:   ":8089",
		StoreBackend: "memory",
		StorePath:    "pentrail.db",
		MemoryTTL:    time.Hour,
		WebClientCfg: webclient.Config{
			Backend: webclient.DefaultBackend,
			Timeout: 30 * time.Second,
		},
		SnapshotCfg: snapshot.Config{
			Backend: snapshot.DefaultBackend,
			Timeout: 45 * time.Second,
		},
		JobTimeout: 2 * time.Minute,
	}
}
