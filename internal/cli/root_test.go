package cli

import (
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/pentrail/pentrail/internal/logging"
)

func TestBuildConfigDefaults(t *testing.T) {
	viper.Reset()

	cfg := buildConfig()
	if cfg.StoreBackend != "memory" {
		t.Errorf("StoreBackend = %q, want memory", cfg.StoreBackend)
	}
	if cfg.SnapshotCfg.Backend != "static" {
		t.Errorf("SnapshotCfg.Backend = %q, want static", cfg.SnapshotCfg.Backend)
	}
}

func TestBuildConfigOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("store", "sqlite")
	viper.Set("db", "/tmp/custom.db")
	viper.Set("snapshot", "chromedp")
	viper.Set("timeout", "10s")
	viper.Set("listen_addr", ":9000")

	cfg := buildConfig()
	if cfg.StoreBackend != "sqlite" {
		t.Errorf("StoreBackend = %q, want sqlite", cfg.StoreBackend)
	}
	if cfg.StorePath != "/tmp/custom.db" {
		t.Errorf("StorePath = %q", cfg.StorePath)
	}
	if cfg.SnapshotCfg.Backend != "chromedp" {
		t.Errorf("SnapshotCfg.Backend = %q", cfg.SnapshotCfg.Backend)
	}
	if cfg.WebClientCfg.Timeout != 10*time.Second {
		t.Errorf("WebClientCfg.Timeout = %v, want 10s", cfg.WebClientCfg.Timeout)
	}
	if cfg.SnapshotCfg.Timeout != 10*time.Second {
		t.Errorf("SnapshotCfg.Timeout = %v, want 10s", cfg.SnapshotCfg.Timeout)
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, want :9000", cfg.ListenAddr)
	}
}

func TestBuildLogger(t *testing.T) {
	verbose, jsonLogs = false, false
	if _, ok := buildLogger().(*logging.NopLogger); !ok {
		t.Error("quiet mode should use the nop logger")
	}

	verbose, jsonLogs = true, false
	if _, ok := buildLogger().(*logging.StdoutLogger); !ok {
		t.Error("verbose mode should use the stdout logger")
	}

	verbose, jsonLogs = false, true
	if _, ok := buildLogger().(*logging.ZapLogger); !ok {
		t.Error("json mode should use the zap logger")
	}

	verbose, jsonLogs = false, false
}
