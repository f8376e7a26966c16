package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courtside.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8888" {
		t.Errorf("server.addr = %q", cfg.Server.Addr)
	}
	if cfg.Pipeline.MaxItems != 25 {
		t.Errorf("pipeline.max_items = %d", cfg.Pipeline.MaxItems)
	}
	if cfg.Pipeline.AdapterTimeout != 45*time.Second {
		t.Errorf("pipeline.adapter_timeout = %v", cfg.Pipeline.AdapterTimeout)
	}
	if cfg.Fetch.PageTimeout != 15*time.Second || cfg.Fetch.APITimeout != 10*time.Second {
		t.Errorf("timeouts = %v / %v", cfg.Fetch.PageTimeout, cfg.Fetch.APITimeout)
	}
	if cfg.Client.RefreshInterval != 5*time.Minute {
		t.Errorf("client.refresh_interval = %v", cfg.Client.RefreshInterval)
	}
	if cfg.Fallback.PerSource {
		t.Error("fallback.per_source should default to false")
	}

	enabled := cfg.EnabledAdapters()
	if len(enabled) != 4 {
		t.Fatalf("expected 4 enabled default adapters, got %d", len(enabled))
	}
	wantKinds := []string{KindNBA, KindESPN, KindScores, KindSchedule}
	for i, k := range wantKinds {
		if enabled[i].Kind != k {
			t.Errorf("adapter %d kind = %q, want %q", i, enabled[i].Kind, k)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
pipeline:
  max_items: 10
fallback:
  per_source: true
adapters:
  - name: NBA RSS
    kind: rss
    enabled: true
  - name: NBA Scores
    kind: scores
    enabled: true
    days: 2
log:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Pipeline.MaxItems != 10 || !cfg.Fallback.PerSource {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if len(cfg.Adapters) != 2 || cfg.Adapters[1].Days != 2 {
		t.Errorf("adapters = %+v", cfg.Adapters)
	}
	if cfg.Fetch.APITimeout != 10*time.Second {
		t.Error("unset keys should keep defaults")
	}
}

func TestEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("COURTSIDE_SERVER_ADDR", ":7777")
	t.Setenv("COURTSIDE_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7777" {
		t.Errorf("server.addr = %q, want :7777", cfg.Server.Addr)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want warn", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]string{
		"bad level":    "log:\n  level: loud\n",
		"bad kind":     "adapters:\n  - name: x\n    kind: twitter\n    enabled: true\n",
		"none enabled": "adapters:\n  - name: x\n    kind: rss\n    enabled: false\n",
		"zero cap":     "pipeline:\n  max_items: 0\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
