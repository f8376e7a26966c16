package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abelbrown/courtside/internal/config"
	"github.com/abelbrown/courtside/internal/feeds"
	"github.com/abelbrown/courtside/internal/logging"
	"github.com/abelbrown/courtside/internal/otel"
)

func testConfig() *config.Config {
	return &config.Config{
		Fetch: config.FetchConfig{PageTimeout: time.Second, APITimeout: time.Second},
		Pipeline: config.PipelineConfig{
			MaxItems:       25,
			AdapterTimeout: time.Second,
			FilterPromos:   true,
		},
		Adapters: config.DefaultAdapters(),
	}
}

func TestSourcesFollowEnabledOrder(t *testing.T) {
	cfg := testConfig()
	cfg.Adapters = append(cfg.Adapters, config.AdapterConfig{Name: "Hoops Feed", Kind: config.KindRSS, URL: "https://example.test/feed", Enabled: true})

	sources, err := Sources(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		name string
		typ  feeds.Type
	}{
		{"NBA Official", feeds.TypeNews},
		{"ESPN NBA", feeds.TypeNews},
		{"NBA Scores", feeds.TypeScore},
		{"NBA Schedule", feeds.TypeSchedule},
		{"Hoops Feed", feeds.TypeNews},
	}
	if len(sources) != len(want) {
		t.Fatalf("expected %d sources, got %d", len(want), len(sources))
	}
	for i, w := range want {
		if sources[i].Name() != w.name || sources[i].Type() != w.typ {
			t.Errorf("source %d = %s/%s, want %s/%s", i, sources[i].Name(), sources[i].Type(), w.name, w.typ)
		}
	}
}

func TestUnknownKind(t *testing.T) {
	cfg := testConfig()
	cfg.Adapters = []config.AdapterConfig{{Name: "x", Kind: "telnet", Enabled: true}}
	if _, err := Sources(cfg, nil); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestPipelineNames(t *testing.T) {
	p, err := Pipeline(testConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"NBA Official", "ESPN NBA", "NBA Scores", "NBA Schedule"}
	if got := p.Sources(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("sources = %v, want %v", got, want)
	}
}

func TestObservabilityWritesEventsFile(t *testing.T) {
	cfg := testConfig()
	cfg.Log.EventsFile = filepath.Join(t.TempDir(), "events.jsonl")

	obs, err := NewObservability(cfg, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	obs.Sink.Emit(otel.Event{Kind: otel.KindStartup, Level: otel.LevelInfo})
	if dropped := obs.Close(); dropped != 0 {
		t.Errorf("dropped = %d", dropped)
	}

	if len(obs.SessionID()) != 16 {
		t.Errorf("session id = %q", obs.SessionID())
	}
	if obs.Ring.Len() != 1 {
		t.Errorf("ring should hold the event, Len = %d", obs.Ring.Len())
	}

	f, err := os.Open(cfg.Log.EventsFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		t.Fatal("events file is empty")
	}
	var ev map[string]any
	if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
		t.Fatal(err)
	}
	if ev["kind"] != "sys.startup" {
		t.Errorf("kind = %v", ev["kind"])
	}
}

func TestObservabilityWithoutEventsFile(t *testing.T) {
	obs, err := NewObservability(testConfig(), logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	obs.Sink.Emit(otel.Event{Kind: otel.KindStartup, Level: otel.LevelInfo})
	if obs.SessionID() == "" {
		t.Error("session id should be set without an events file")
	}
	if dropped := obs.Close(); dropped != 0 {
		t.Errorf("dropped = %d", dropped)
	}
	if obs.Ring.Len() != 1 {
		t.Errorf("ring should hold the event, Len = %d", obs.Ring.Len())
	}
}
