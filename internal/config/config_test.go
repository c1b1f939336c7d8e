package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Default()
	if cfg.Endpoint != want.Endpoint || cfg.Model != want.Model || cfg.Timeout != want.Timeout {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "murmur.yaml")
	doc := `boardPath: /tmp/board.json
endpoint: http://localhost:11434/v1
model: llama3
timeout: 10s
layout:
  noteWidth: 300
  spacing: 50
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BoardPath != "/tmp/board.json" {
		t.Fatalf("boardPath = %q", cfg.BoardPath)
	}
	if cfg.Model != "llama3" || cfg.Endpoint != "http://localhost:11434/v1" {
		t.Fatalf("unexpected model config: %#v", cfg)
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("timeout = %v", cfg.Timeout)
	}
	if cfg.Layout.NoteWidth != 300 || cfg.Layout.Spacing != 50 {
		t.Fatalf("layout overrides not applied: %#v", cfg.Layout)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("boardPath: [unclosed"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestNormalizeEnvironmentFallback(t *testing.T) {
	t.Setenv("MURMUR_ENDPOINT", "http://example.test/v1")
	t.Setenv("MURMUR_MODEL", "test-model")
	t.Setenv("MURMUR_API_KEY", "sk-test")

	cfg := Config{Model: "from-file"}
	cfg.Normalize()
	if cfg.Endpoint != "http://example.test/v1" {
		t.Fatalf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.Model != "from-file" {
		t.Fatalf("file value must win over environment, got %q", cfg.Model)
	}
	if cfg.APIKey != "sk-test" {
		t.Fatalf("apiKey = %q", cfg.APIKey)
	}
}
