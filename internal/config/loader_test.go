package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultFlappyConfig()
	if err := yaml.Unmarshal(GetDefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if cfg != DefaultFlappyConfig() {
		t.Errorf("embedded YAML diverges from DefaultFlappyConfig:\n%+v\n%+v", cfg, DefaultFlappyConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFlappyCustomPathPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flappy.yaml")
	data := []byte("physics:\n  gravity: 0.8\nobstacles:\n  spawn_interval: 3s\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFlappy(path)
	if err != nil {
		t.Fatalf("LoadFlappy() failed: %v", err)
	}
	if cfg.Physics.Gravity != 0.8 {
		t.Errorf("Gravity = %v, expected 0.8", cfg.Physics.Gravity)
	}
	if cfg.Obstacles.SpawnInterval != 3*time.Second {
		t.Errorf("SpawnInterval = %v, expected 3s", cfg.Obstacles.SpawnInterval)
	}
	// Untouched fields keep their defaults
	if cfg.Physics.FlapStrength != -12 {
		t.Errorf("FlapStrength = %v, expected default -12", cfg.Physics.FlapStrength)
	}
}

func TestLoadFlappyInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"positive flap", "physics:\n  flap_strength: 5\n"},
		{"gap too tall", "obstacles:\n  gap_height: 700\n"},
		{"bad yaml", "physics: [\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "flappy.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFlappy(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadFlappyMissingCustomPath(t *testing.T) {
	if _, err := LoadFlappy(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestLoadServiceEnvOverrides(t *testing.T) {
	env := map[string]string{
		EnvPort:       "4000",
		EnvWebhookURL: "http://hooks.local/hs",
	}
	cfg, err := LoadService("", func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("LoadService() failed: %v", err)
	}
	if cfg.Port != 4000 {
		t.Errorf("Port = %d, expected 4000", cfg.Port)
	}
	if cfg.Addr() != ":4000" {
		t.Errorf("Addr() = %q, expected :4000", cfg.Addr())
	}
	if cfg.WebhookURL != "http://hooks.local/hs" {
		t.Errorf("WebhookURL = %q", cfg.WebhookURL)
	}
	if cfg.ScoresFile != "scores.json" {
		t.Errorf("ScoresFile = %q, expected default", cfg.ScoresFile)
	}
}

func TestLoadServiceDefaults(t *testing.T) {
	cfg, err := LoadService("", func(string) string { return "" })
	if err != nil {
		t.Fatalf("LoadService() failed: %v", err)
	}
	if cfg.Port != 3001 {
		t.Errorf("default Port = %d, expected 3001", cfg.Port)
	}
	if cfg.WebhookURL != "" {
		t.Errorf("default WebhookURL should be empty, got %q", cfg.WebhookURL)
	}
}

func TestLoadServiceFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.yaml")
	if err := os.WriteFile(path, []byte("port: 5000\nscores_file: /tmp/s.json\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadService(path, func(k string) string {
		if k == EnvPort {
			return "5001"
		}
		return ""
	})
	if err != nil {
		t.Fatalf("LoadService() failed: %v", err)
	}
	if cfg.Port != 5001 {
		t.Errorf("env should win over file, Port = %d", cfg.Port)
	}
	if cfg.ScoresFile != "/tmp/s.json" {
		t.Errorf("ScoresFile = %q, expected value from file", cfg.ScoresFile)
	}
}

func TestLoadServiceBadPort(t *testing.T) {
	_, err := LoadService("", func(k string) string {
		if k == EnvPort {
			return "http"
		}
		return ""
	})
	if err == nil {
		t.Error("expected an error for a non-numeric PORT")
	}
}

func TestClientFromEnv(t *testing.T) {
	cfg := ClientFromEnv(func(k string) string {
		switch k {
		case EnvServer:
			return "http://localhost:3001"
		case EnvWallet:
			return "0xabc"
		}
		return ""
	})
	if !cfg.Online() {
		t.Error("client with a server URL should be online")
	}
	if cfg.Identity != "0xabc" {
		t.Errorf("Identity = %q", cfg.Identity)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, expected default 5s", cfg.Timeout)
	}
}
