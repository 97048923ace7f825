package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	def := Default()
	if cfg.Display.Provider != def.Display.Provider ||
		cfg.Display.Width != def.Display.Width ||
		cfg.Stream.Listen != def.Stream.Listen {
		t.Fatalf("config = %+v, want defaults", cfg)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
display:
  provider: x11
session:
  autosave: true
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Display.Provider != "x11" {
		t.Errorf("provider = %q, want x11", cfg.Display.Provider)
	}
	if cfg.Logging.MaxSizeMB != 10 || cfg.Logging.MaxFiles != 3 {
		t.Errorf("logging defaults not applied: %+v", cfg.Logging)
	}
	if cfg.Stream.Listen != "127.0.0.1:7465" {
		t.Errorf("stream listen = %q, want default", cfg.Stream.Listen)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("dsiplay:\n  provider: x11\n"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("load accepted a misspelled key")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default ok", func(c *Config) {}, ""},
		{"bad provider", func(c *Config) { c.Display.Provider = "wayland" }, "unknown provider"},
		{"zero static extent", func(c *Config) { c.Display.Width = 0 }, "must be positive"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "unknown level"},
		{"negative rotation", func(c *Config) { c.Logging.MaxFiles = -1 }, "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Display.Provider = "x11"
	cfg.Stream.Enabled = true
	cfg.Session.Path = "/tmp/driftwm-test-session.json"

	if err := cfg.SaveToPath(path); err != nil {
		t.Fatalf("SaveToPath failed: %v", err)
	}
	got, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if got.Display.Provider != "x11" || !got.Stream.Enabled {
		t.Fatalf("round trip lost values: %+v", got)
	}
	sp, err := got.SessionPath()
	if err != nil || sp != "/tmp/driftwm-test-session.json" {
		t.Fatalf("SessionPath() = %q, %v", sp, err)
	}
}

func TestSessionPathDefaults(t *testing.T) {
	cfg := Default()
	sp, err := cfg.SessionPath()
	if err != nil {
		t.Fatalf("SessionPath failed: %v", err)
	}
	if !strings.HasSuffix(sp, filepath.Join(".local", "share", "driftwm", "session.json")) {
		t.Fatalf("default session path = %q", sp)
	}
}
