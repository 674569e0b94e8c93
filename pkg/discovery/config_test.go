package discovery

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.AppName = "demo-app"
	cfg.EntryPoints = []string{"https://demo.test/"}
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing app name", func(c *Config) { c.AppName = "" }, true},
		{"no entry points", func(c *Config) { c.EntryPoints = nil }, true},
		{"negative depth", func(c *Config) { c.MaxDepth = -1 }, true},
		{"zero max nodes", func(c *Config) { c.MaxNodes = 0 }, true},
		{"zero elements per page", func(c *Config) { c.MaxElementsPerPage = 0 }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"missing output dir", func(c *Config) { c.OutputDir = "" }, true},
		{"depth zero is allowed", func(c *Config) { c.MaxDepth = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxDepth != 4 {
		t.Errorf("MaxDepth = %d, want 4", cfg.MaxDepth)
	}
	if cfg.MaxNodes != 50 {
		t.Errorf("MaxNodes = %d, want 50", cfg.MaxNodes)
	}
	if cfg.MaxElementsPerPage != 30 {
		t.Errorf("MaxElementsPerPage = %d, want 30", cfg.MaxElementsPerPage)
	}
	if cfg.Timeout != 5*time.Minute {
		t.Errorf("Timeout = %v, want 5m", cfg.Timeout)
	}
	if !cfg.Screenshots {
		t.Error("Screenshots should default to true")
	}
	if !cfg.Browser.Headless {
		t.Error("Browser should default to headless")
	}
}

func TestConfigClone(t *testing.T) {
	cfg := validConfig()
	cfg.ScopeWhitelist = []string{"demo.test"}

	clone := cfg.Clone()
	clone.AppName = "other"
	clone.ScopeWhitelist[0] = "evil.test"
	clone.EntryPoints = append(clone.EntryPoints, "https://demo.test/extra")

	if cfg.AppName != "demo-app" {
		t.Error("clone mutation leaked into original AppName")
	}
	if cfg.ScopeWhitelist[0] != "demo.test" {
		t.Error("clone mutation leaked into original whitelist")
	}
	if len(cfg.EntryPoints) != 1 {
		t.Error("clone mutation leaked into original entry points")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := validConfig()
	cfg.MaxNodes = 7
	cfg.SlowMo = 250 * time.Millisecond

	for _, ext := range []string{"config.yaml", "config.json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, ext)
			if err := cfg.SaveToFile(path); err != nil {
				t.Fatalf("SaveToFile: %v", err)
			}

			loaded, err := LoadFromFile(path)
			if err != nil {
				t.Fatalf("LoadFromFile: %v", err)
			}
			if loaded.AppName != cfg.AppName {
				t.Errorf("AppName = %q, want %q", loaded.AppName, cfg.AppName)
			}
			if loaded.MaxNodes != 7 {
				t.Errorf("MaxNodes = %d, want 7", loaded.MaxNodes)
			}
			if len(loaded.EntryPoints) != 1 || loaded.EntryPoints[0] != cfg.EntryPoints[0] {
				t.Errorf("EntryPoints = %v, want %v", loaded.EntryPoints, cfg.EntryPoints)
			}
		})
	}
}

func TestLoadFromFileDefaultsPreserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "app_name: partial\nentry_points:\n  - https://partial.test/\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.MaxDepth != 4 {
		t.Errorf("MaxDepth = %d, want default 4", cfg.MaxDepth)
	}
	if cfg.OutputDir != "test-results" {
		t.Errorf("OutputDir = %q, want default", cfg.OutputDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("partial config with defaults should validate: %v", err)
	}
}

func TestLoadFromFileBadContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("{not valid: [yaml or json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for unparseable config")
	}
}
