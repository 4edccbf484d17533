package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the default flappy configuration.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		World: FlappyWorld{
			Height:       720,
			GroundMargin: 100,
		},
		Physics: FlappyPhysics{
			Gravity:       0.6,
			FlapStrength:  -12,
			ObstacleSpeed: 4,
			FlapDuration:  200 * time.Millisecond,
		},
		Bird: FlappyBird{
			X:      100,
			StartY: 250,
			Width:  70,
			Height: 70,
		},
		Obstacles: FlappyObstacles{
			Width:         80,
			GapHeight:     350,
			GapMargin:     50,
			SpawnInterval: 2500 * time.Millisecond,
		},
		Trail: FlappyTrail{
			MaxPoints: 100,
		},
	}
}

// DefaultServiceConfig returns the default leaderboard service configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Port:            3001,
		ScoresFile:      "scores.json",
		WebhookTimeout:  5 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
	}
}

// DefaultClientConfig returns the default leaderboard client configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout: 5 * time.Second,
	}
}

// GetDefaultYAML returns the embedded default YAML for the game.
func GetDefaultYAML() []byte {
	return defaultFlappyYAML
}
