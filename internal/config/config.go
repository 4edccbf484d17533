// Package config provides YAML-based configuration loading for the game,
// the leaderboard service and the leaderboard client.
package config

import (
	"errors"
	"fmt"
	"time"
)

// FlappyConfig contains all tuning for the flappy engine. Units are world
// units (pixels of a virtual viewport) and frames.
type FlappyConfig struct {
	World     FlappyWorld     `yaml:"world"`
	Physics   FlappyPhysics   `yaml:"physics"`
	Bird      FlappyBird      `yaml:"bird"`
	Obstacles FlappyObstacles `yaml:"obstacles"`
	Trail     FlappyTrail     `yaml:"trail"`
}

// FlappyWorld defines the virtual viewport. The width follows the terminal
// aspect ratio and is computed at reset time.
type FlappyWorld struct {
	Height       float64 `yaml:"height"`
	GroundMargin float64 `yaml:"ground_margin"` // Bird top may not go below Height-GroundMargin
}

// FlappyPhysics defines per-frame physics parameters.
type FlappyPhysics struct {
	Gravity       float64       `yaml:"gravity"`        // Added to velocity every frame
	FlapStrength  float64       `yaml:"flap_strength"`  // Velocity after a flap (negative = up)
	ObstacleSpeed float64       `yaml:"obstacle_speed"` // Leftward obstacle movement per frame
	FlapDuration  time.Duration `yaml:"flap_duration"`  // How long the flapping flag stays set
}

// FlappyBird defines the bird hitbox and start position.
type FlappyBird struct {
	X      float64 `yaml:"x"`
	StartY float64 `yaml:"start_y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// FlappyObstacles defines obstacle geometry and spawn cadence.
type FlappyObstacles struct {
	Width         float64       `yaml:"width"`
	GapHeight     float64       `yaml:"gap_height"`
	GapMargin     float64       `yaml:"gap_margin"` // Minimum distance of the gap from top and bottom
	SpawnInterval time.Duration `yaml:"spawn_interval"`
}

// FlappyTrail defines the cosmetic trail behind the bird.
type FlappyTrail struct {
	MaxPoints int `yaml:"max_points"`
}

// Validate checks that the configuration describes a playable world.
func (c FlappyConfig) Validate() error {
	var errs []error
	if c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world.height must be positive, got %v", c.World.Height))
	}
	if c.World.GroundMargin < 0 || c.World.GroundMargin >= c.World.Height {
		errs = append(errs, fmt.Errorf("world.ground_margin must be in [0, height), got %v", c.World.GroundMargin))
	}
	if c.Physics.Gravity <= 0 {
		errs = append(errs, fmt.Errorf("physics.gravity must be positive, got %v", c.Physics.Gravity))
	}
	if c.Physics.FlapStrength >= 0 {
		errs = append(errs, fmt.Errorf("physics.flap_strength must be negative, got %v", c.Physics.FlapStrength))
	}
	if c.Physics.ObstacleSpeed <= 0 {
		errs = append(errs, fmt.Errorf("physics.obstacle_speed must be positive, got %v", c.Physics.ObstacleSpeed))
	}
	if c.Bird.Width <= 0 || c.Bird.Height <= 0 {
		errs = append(errs, errors.New("bird.width and bird.height must be positive"))
	}
	if c.Obstacles.Width <= 0 || c.Obstacles.GapHeight <= 0 {
		errs = append(errs, errors.New("obstacles.width and obstacles.gap_height must be positive"))
	}
	if c.Obstacles.GapHeight+2*c.Obstacles.GapMargin > c.World.Height {
		errs = append(errs, fmt.Errorf("obstacles.gap_height plus margins (%v) does not fit world.height %v",
			c.Obstacles.GapHeight+2*c.Obstacles.GapMargin, c.World.Height))
	}
	if c.Obstacles.SpawnInterval <= 0 {
		errs = append(errs, errors.New("obstacles.spawn_interval must be positive"))
	}
	if c.Trail.MaxPoints < 0 {
		errs = append(errs, errors.New("trail.max_points must not be negative"))
	}
	return errors.Join(errs...)
}

// ServiceConfig configures the leaderboard HTTP service.
type ServiceConfig struct {
	Port            int           `yaml:"port"`
	WebhookURL      string        `yaml:"webhook_url"`
	ScoresFile      string        `yaml:"scores_file"`
	WebhookTimeout  time.Duration `yaml:"webhook_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
}

// Addr returns the listen address for the configured port.
func (c ServiceConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ClientConfig configures the leaderboard client used by the game.
type ClientConfig struct {
	ServerURL string        // Base URL of the leaderboard service; empty = offline
	Identity  string        // Player identity (wallet address or user name)
	Timeout   time.Duration // Per-request timeout
}

// Online reports whether scores should be sent to a leaderboard service.
func (c ClientConfig) Online() bool {
	return c.ServerURL != ""
}
