// Package config holds the tunables for terrain generation, slope effects
// and the frame loop.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/platformgen/common"
	"github.com/milk9111/platformgen/descriptor"
	"github.com/milk9111/platformgen/physics"
	"github.com/milk9111/platformgen/slope"
)

type Config struct {
	// TileSize is the world size of one grid cell.
	TileSize float64 `yaml:"tile_size"`
	// Gravity is the downward gravity magnitude.
	Gravity float64 `yaml:"gravity"`

	Physics   PhysicsConfig   `yaml:"physics"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Cleanup   CleanupConfig   `yaml:"cleanup"`
	Slopes    SlopeConfig     `yaml:"slopes"`
	Watch     WatchConfig     `yaml:"watch"`
}

type PhysicsConfig struct {
	Iterations int `yaml:"iterations"`
}

type SchedulerConfig struct {
	MaxPerFrame int `yaml:"max_per_frame"`
}

type CleanupConfig struct {
	Enabled bool `yaml:"enabled"`
	// Distance is in world units from the focus point.
	Distance       float64 `yaml:"distance"`
	IntervalFrames int     `yaml:"interval_frames"`
}

type SlopeConfig struct {
	AffectedLayers    uint       `yaml:"affected_layers"`
	VelocityThreshold float64    `yaml:"velocity_threshold"`
	MaxSpeed          float64    `yaml:"max_speed"`
	BaseThickness     float64    `yaml:"base_thickness"`
	TriggerSize       common.Vec `yaml:"trigger_size"`
}

type WatchConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

func Default() *Config {
	return &Config{
		TileSize: 1,
		Gravity:  9.81,
		Physics: PhysicsConfig{
			Iterations: 10,
		},
		Scheduler: SchedulerConfig{
			MaxPerFrame: 4,
		},
		Cleanup: CleanupConfig{
			Enabled:        true,
			Distance:       200,
			IntervalFrames: 30,
		},
		Slopes: SlopeConfig{
			AffectedLayers:    physics.CategoryAll,
			VelocityThreshold: 0.1,
			MaxSpeed:          40,
			BaseThickness:     descriptor.DefaultBaseThickness,
			TriggerSize:       descriptor.DefaultTriggerSize,
		},
	}
}

// Load reads configuration from a YAML file. An empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.TileSize <= 0 {
		return errors.New("tile_size must be positive")
	}
	if c.Gravity < 0 {
		return errors.New("gravity cannot be negative")
	}
	if c.Physics.Iterations <= 0 {
		return errors.New("physics.iterations must be positive")
	}
	if c.Scheduler.MaxPerFrame <= 0 {
		return errors.New("scheduler.max_per_frame must be positive")
	}
	if c.Cleanup.Enabled && c.Cleanup.Distance <= 0 {
		return errors.New("cleanup.distance must be positive when cleanup is enabled")
	}
	if c.Cleanup.Enabled && c.Cleanup.IntervalFrames <= 0 {
		return errors.New("cleanup.interval_frames must be positive when cleanup is enabled")
	}
	if c.Slopes.VelocityThreshold < 0 {
		return errors.New("slopes.velocity_threshold cannot be negative")
	}
	if c.Slopes.MaxSpeed < 0 {
		return errors.New("slopes.max_speed cannot be negative")
	}
	if c.Slopes.BaseThickness <= 0 {
		return errors.New("slopes.base_thickness must be positive")
	}
	if c.Slopes.TriggerSize.X <= 0 || c.Slopes.TriggerSize.Y <= 0 {
		return errors.New("slopes.trigger_size components must be positive")
	}
	if c.Watch.Enabled && c.Watch.Dir == "" {
		return errors.New("watch.dir must be set when watch is enabled")
	}
	return nil
}

// GravityVector returns gravity in the Y-up world frame.
func (c *Config) GravityVector() common.Vec {
	return common.Vec{Y: -c.Gravity}
}

// SlopeEngine returns the slope engine settings.
func (c *Config) SlopeEngine() slope.Config {
	cfg := slope.DefaultConfig()
	cfg.LayerMask = c.Slopes.AffectedLayers
	cfg.VelocityThreshold = c.Slopes.VelocityThreshold
	cfg.MaxSpeed = c.Slopes.MaxSpeed
	return cfg
}

// SlopeDefaults fills the configured base thickness and trigger size into
// a slope descriptor that left them at the built-in defaults.
func (c *Config) SlopeDefaults(d *descriptor.Slope) {
	if d.BaseThickness == descriptor.DefaultBaseThickness {
		d.BaseThickness = c.Slopes.BaseThickness
	}
	if d.TriggerSize == descriptor.DefaultTriggerSize {
		d.TriggerSize = c.Slopes.TriggerSize
	}
}
