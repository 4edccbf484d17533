package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by the service and the client.
const (
	EnvPort       = "PORT"
	EnvWebhookURL = "WEBHOOK_URL"
	EnvScoresFile = "SCORES_FILE"
	EnvServer     = "FLAPPY_SERVER"
	EnvWallet     = "FLAPPY_WALLET"
)

// LoadFlappy loads the flappy engine configuration.
// Search order: customPath -> ~/.flappy/configs/flappy.yaml -> ./configs/flappy.yaml -> embedded default
// Files are decoded over the defaults, so a file may set only some fields.
func LoadFlappy(customPath string) (FlappyConfig, error) {
	cfg := DefaultFlappyConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{userConfigPath("flappy.yaml"), filepath.Join("configs", "flappy.yaml")} {
		if path == "" {
			continue
		}
		if candidate, ok := tryFlappyFile(path); ok {
			return candidate, nil
		}
	}

	// Use embedded default YAML
	embedded := DefaultFlappyConfig()
	if err := yaml.Unmarshal(defaultFlappyYAML, &embedded); err != nil || embedded.Validate() != nil {
		return DefaultFlappyConfig(), nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

// tryFlappyFile decodes an optional config file; unreadable or invalid files are skipped.
func tryFlappyFile(path string) (FlappyConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FlappyConfig{}, false
	}
	cfg := DefaultFlappyConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FlappyConfig{}, false
	}
	if cfg.Validate() != nil {
		return FlappyConfig{}, false
	}
	return cfg, true
}

// LoadService loads the leaderboard service configuration.
// Precedence: defaults < YAML file at path (optional) < environment.
func LoadService(path string, getenv func(string) string) (ServiceConfig, error) {
	cfg := DefaultServiceConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return cfg, fmt.Errorf("invalid %s %q", EnvPort, v)
		}
		cfg.Port = port
	}
	if v := getenv(EnvWebhookURL); v != "" {
		cfg.WebhookURL = v
	}
	if v := getenv(EnvScoresFile); v != "" {
		cfg.ScoresFile = v
	}

	return cfg, nil
}

// ClientFromEnv returns the client configuration with environment overrides applied.
func ClientFromEnv(getenv func(string) string) ClientConfig {
	cfg := DefaultClientConfig()
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg.ServerURL = getenv(EnvServer)
	cfg.Identity = getenv(EnvWallet)
	return cfg
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// DataDir returns ~/.flappy, the directory for local history, logs and keys.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flappy"
	}
	return filepath.Join(home, ".flappy")
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flappy", "configs", filename)
}

// WithTimeout returns d, or fallback when d is not positive.
func WithTimeout(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
