package snapshot

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pentrail/pentrail/internal/logging"
)

// DefaultBackend is used when Config.Backend is empty.
const DefaultBackend = "static"

// Config selects and parameterizes a snapshot backend.
type Config struct {
	// Backend names a registered capturer; empty means "static".
	Backend string

	// Timeout bounds a single capture. Zero means the backend default.
	Timeout time.Duration
}

// CapturerConstructor constructs a Capturer given the config and logger.
type CapturerConstructor func(cfg Config, logger logging.Logger) (Capturer, error)

var (
	mu       sync.RWMutex
	registry = map[string]CapturerConstructor{}
)

// RegisterBackend registers a named capturer constructor.
func RegisterBackend(name string, ctor CapturerConstructor) {
	if name == "" || ctor == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(name)] = ctor
}

// New constructs the configured snapshot backend.
func New(cfg Config, logger logging.Logger) (Capturer, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = DefaultBackend
	}

	mu.RLock()
	ctor, ok := registry[backend]
	mu.RUnlock()
	if !ok || ctor == nil {
		return nil, fmt.Errorf("snapshot backend %q not registered: available backends=%v", backend, ListBackends())
	}

	cap, err := ctor(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to construct snapshot backend %q: %w", backend, err)
	}
	return cap, nil
}

// ListBackends returns the registered backend names.
func ListBackends() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	return out
}

func init() {
	RegisterBackend("static", func(cfg Config, logger logging.Logger) (Capturer, error) {
		return NewStaticCapturer(nil, logger), nil
	})
	RegisterBackend("chromedp", func(cfg Config, logger logging.Logger) (Capturer, error) {
		return NewChromedpCapturer(cfg.Timeout, logger)
	})
}
