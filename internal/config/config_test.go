package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/justyntemme/dropshell/internal/dnd"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dropshell", "config.json")
	m := NewManagerAt(path)

	if err := m.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config to be written: %v", err)
	}
	cfg := m.Get()
	if cfg.Navigation.MaxHistory != 100 {
		t.Errorf("expected maxHistory 100, got %d", cfg.Navigation.MaxHistory)
	}
	if cfg.Hotkeys.Back == "" {
		t.Error("expected default hotkeys")
	}
}

func TestLoadMergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"drag": {"internalPolicy": "move"}, "watch": {"enabled": false, "debounceMs": 50}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	m := NewManagerAt(path)

	if err := m.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg := m.Get()
	if cfg.Watch.Enabled {
		t.Error("expected watch disabled")
	}
	if got := m.Debounce(); got != 50*time.Millisecond {
		t.Errorf("expected 50ms, got %v", got)
	}
	if cfg.Navigation.MaxHistory != 100 {
		t.Errorf("expected missing section to keep defaults, got %d", cfg.Navigation.MaxHistory)
	}
	if _, ok := m.DropPolicy().(dnd.InternalMove); !ok {
		t.Errorf("expected InternalMove policy, got %T", m.DropPolicy())
	}
}

func TestLoadParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := NewManagerAt(path)

	if err := m.Load(); err != nil {
		t.Fatalf("parse errors must not fail Load: %v", err)
	}
	if m.ParseError() == nil {
		t.Error("expected ParseError to be set")
	}
	if _, ok := m.DropPolicy().(dnd.VolumeAffinity); !ok {
		t.Errorf("expected default policy, got %T", m.DropPolicy())
	}
}

func TestLoadRejectsUnknownPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"drag": {"internalPolicy": "teleport"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	m := NewManagerAt(path)

	if err := m.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.ParseError() == nil {
		t.Error("expected validation error")
	}
	if m.Get().Drag.InternalPolicy != "volume" {
		t.Errorf("expected defaults, got %q", m.Get().Drag.InternalPolicy)
	}
}

func TestSetInternalPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	m := NewManagerAt(path)
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}

	if err := m.SetInternalPolicy("bogus"); err == nil {
		t.Error("expected error for unknown policy")
	}
	if err := m.SetInternalPolicy("move"); err != nil {
		t.Fatalf("SetInternalPolicy failed: %v", err)
	}

	reloaded := NewManagerAt(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Get().Drag.InternalPolicy; got != "move" {
		t.Errorf("expected saved policy move, got %q", got)
	}
}

func TestJournalPath(t *testing.T) {
	dir := t.TempDir()
	m := NewManagerAt(filepath.Join(dir, "config.json"))

	if got, want := m.JournalPath(), filepath.Join(dir, "journal.db"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestGenerateConfigBacksUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"old": true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	backup, err := GenerateConfig(path)
	if err != nil {
		t.Fatalf("GenerateConfig failed: %v", err)
	}
	if backup == "" {
		t.Fatal("expected a backup path")
	}
	data, err := os.ReadFile(backup)
	if err != nil || string(data) != `{"old": true}` {
		t.Errorf("unexpected backup content %q (%v)", data, err)
	}
}
