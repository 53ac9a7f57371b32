// Package config handles simulator configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/stride/internal/engine/mover"
	"github.com/Faultbox/stride/internal/engine/physics"
	"github.com/Faultbox/stride/internal/engine/sensor"
	"github.com/Faultbox/stride/internal/engine/walker"
)

// Config holds all simulator settings.
type Config struct {
	Movement MovementConfig `yaml:"movement"`
	Collider ColliderConfig `yaml:"collider"`
	Sensor   SensorConfig   `yaml:"sensor"`
	Sim      SimConfig      `yaml:"sim"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// MovementConfig tunes the momentum controller. Speeds are world units
// per second, durations seconds, angles degrees.
type MovementConfig struct {
	Speed            float32 `yaml:"speed"`
	SprintMultiplier float32 `yaml:"sprint_multiplier"`
	CrouchMultiplier float32 `yaml:"crouch_multiplier"`
	SpeedSmoothTime  float32 `yaml:"speed_smooth_time"`
	JumpSpeed        float32 `yaml:"jump_speed"`
	JumpDuration     float32 `yaml:"jump_duration"`
	AirControlRate   float32 `yaml:"air_control_rate"`
	AirFriction      float32 `yaml:"air_friction"`
	GroundFriction   float32 `yaml:"ground_friction"`
	Gravity          float32 `yaml:"gravity"`
	SlideGravity     float32 `yaml:"slide_gravity"`
	SlopeLimit       float32 `yaml:"slope_limit"`
	TerminalVelocity float32 `yaml:"terminal_velocity"`
	LocalMomentum    bool    `yaml:"local_momentum"`
}

// ColliderConfig shapes the capsule and its ground handling.
type ColliderConfig struct {
	Height           float32 `yaml:"height"`
	Thickness        float32 `yaml:"thickness"`
	Offset           float32 `yaml:"offset"`
	StepHeightRatio  float32 `yaml:"step_height_ratio"`
	CrouchFraction   float32 `yaml:"crouch_fraction"`
	CrouchTime       float32 `yaml:"crouch_time"`
	CrouchImpulse    float32 `yaml:"crouch_impulse"`
	CameraFraction   float32 `yaml:"camera_fraction"`
	CeilingAngle     float32 `yaml:"ceiling_angle"`
	WallNudge        float32 `yaml:"wall_nudge"`
	GroundAdjustment float32 `yaml:"ground_adjustment"`
}

// SensorConfig selects the ground probe shape and its filter.
type SensorConfig struct {
	Shape        string  `yaml:"shape"` // "ray" or "sphere"
	SafetyFactor float32 `yaml:"safety_factor"`
	Layers       uint32  `yaml:"layers"` // collision layer mask bits
}

// SimConfig drives the demo scene and loop cadence.
type SimConfig struct {
	TickRate         int           `yaml:"tick_rate"` // fixed physics ticks per second
	Agents           int           `yaml:"agents"`
	Seed             int64         `yaml:"seed"`
	TerrainSize      int           `yaml:"terrain_size"` // samples per side
	TerrainAmplitude float64       `yaml:"terrain_amplitude"`
	TerrainFrequency float64       `yaml:"terrain_frequency"`
	Duration         time.Duration `yaml:"duration"`    // 0 runs until interrupted
	LiveReload       bool          `yaml:"live_reload"` // re-apply tuning when the config file changes
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Movement: MovementConfig{
			Speed:            7,
			SprintMultiplier: 1.5,
			CrouchMultiplier: 0.5,
			SpeedSmoothTime:  0.2,
			JumpSpeed:        10,
			JumpDuration:     0.2,
			AirControlRate:   2,
			AirFriction:      0.5,
			GroundFriction:   100,
			Gravity:          30,
			SlideGravity:     5,
			SlopeLimit:       45,
			TerminalVelocity: 0,
			LocalMomentum:    false,
		},
		Collider: ColliderConfig{
			Height:           2,
			Thickness:        1,
			Offset:           0.5,
			StepHeightRatio:  0.25,
			CrouchFraction:   0.5,
			CrouchTime:       0.3,
			CrouchImpulse:    1,
			CameraFraction:   0.9,
			CeilingAngle:     30,
			WallNudge:        0.05,
			GroundAdjustment: 1,
		},
		Sensor: SensorConfig{
			Shape:        "ray",
			SafetyFactor: 0.001,
			Layers:       uint32(physics.AllLayers),
		},
		Sim: SimConfig{
			TickRate:         60,
			Agents:           3,
			Seed:             1,
			TerrainSize:      64,
			TerrainAmplitude: 3,
			TerrainFrequency: 0.06,
			Duration:         0,
			LiveReload:       false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate rejects malformed configuration before the simulation starts.
// Degenerate capsule dimensions are not checked here; the mover clamps
// those on construction.
func (c *Config) Validate() error {
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("sim: tick_rate must be positive, got %d", c.Sim.TickRate)
	}
	if c.Sim.Agents <= 0 {
		return fmt.Errorf("sim: agents must be positive, got %d", c.Sim.Agents)
	}
	if c.Sim.TerrainSize < 2 {
		return fmt.Errorf("sim: terrain_size must be at least 2, got %d", c.Sim.TerrainSize)
	}
	if c.Sim.Duration < 0 {
		return fmt.Errorf("sim: duration must not be negative, got %v", c.Sim.Duration)
	}
	if c.Movement.JumpDuration < 0 {
		return fmt.Errorf("movement: jump_duration must not be negative, got %v", c.Movement.JumpDuration)
	}
	if c.Movement.SpeedSmoothTime < 0 {
		return fmt.Errorf("movement: speed_smooth_time must not be negative, got %v", c.Movement.SpeedSmoothTime)
	}
	if c.Collider.CrouchTime < 0 {
		return fmt.Errorf("collider: crouch_time must not be negative, got %v", c.Collider.CrouchTime)
	}
	if c.Movement.SlopeLimit <= 0 || c.Movement.SlopeLimit >= 90 {
		return fmt.Errorf("movement: slope_limit must be between 0 and 90 degrees exclusive, got %v", c.Movement.SlopeLimit)
	}
	if c.Movement.SprintMultiplier <= 0 || c.Movement.CrouchMultiplier <= 0 {
		return fmt.Errorf("movement: speed multipliers must be positive")
	}
	if c.Collider.CrouchFraction <= 0 || c.Collider.CrouchFraction > 1 {
		return fmt.Errorf("collider: crouch_fraction must be in (0, 1], got %v", c.Collider.CrouchFraction)
	}
	for name, v := range map[string]float32{
		"movement.speed":             c.Movement.Speed,
		"movement.jump_speed":        c.Movement.JumpSpeed,
		"movement.air_control_rate":  c.Movement.AirControlRate,
		"movement.air_friction":      c.Movement.AirFriction,
		"movement.ground_friction":   c.Movement.GroundFriction,
		"movement.gravity":           c.Movement.Gravity,
		"movement.slide_gravity":     c.Movement.SlideGravity,
		"movement.terminal_velocity": c.Movement.TerminalVelocity,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %v", name, v)
		}
	}
	if c.Sensor.Shape != "ray" && c.Sensor.Shape != "sphere" {
		return fmt.Errorf("sensor: shape must be \"ray\" or \"sphere\", got %q", c.Sensor.Shape)
	}
	return nil
}

// MoverSettings converts the collider and sensor sections into mover
// settings. The per-agent Self collider is filled in by whoever builds
// the mover.
func (c *Config) MoverSettings() mover.Settings {
	s := mover.DefaultSettings()
	s.Height = c.Collider.Height
	s.Thickness = c.Collider.Thickness
	s.Offset = c.Collider.Offset
	s.StepHeightRatio = c.Collider.StepHeightRatio
	s.CrouchFraction = c.Collider.CrouchFraction
	s.CrouchTime = c.Collider.CrouchTime
	s.CrouchImpulse = c.Collider.CrouchImpulse
	s.CameraFraction = c.Collider.CameraFraction
	s.CeilingAngleLimit = c.Collider.CeilingAngle
	s.WallNudge = c.Collider.WallNudge
	s.GroundAdjustment = c.Collider.GroundAdjustment
	s.SafetyFactor = c.Sensor.SafetyFactor
	s.Layers = physics.LayerMask(c.Sensor.Layers)
	if c.Sensor.Shape == "sphere" {
		s.SensorShape = sensor.Sphere
	} else {
		s.SensorShape = sensor.Ray
	}
	return s
}

// WalkerSettings converts the movement section into controller settings.
func (c *Config) WalkerSettings() walker.Settings {
	return walker.Settings{
		MovementSpeed:         c.Movement.Speed,
		SprintMultiplier:      c.Movement.SprintMultiplier,
		CrouchSpeedMultiplier: c.Movement.CrouchMultiplier,
		SpeedSmoothTime:       c.Movement.SpeedSmoothTime,
		JumpSpeed:             c.Movement.JumpSpeed,
		JumpDuration:          c.Movement.JumpDuration,
		AirControlRate:        c.Movement.AirControlRate,
		AirFriction:           c.Movement.AirFriction,
		GroundFriction:        c.Movement.GroundFriction,
		Gravity:               c.Movement.Gravity,
		SlideGravity:          c.Movement.SlideGravity,
		SlopeLimit:            c.Movement.SlopeLimit,
		TerminalVelocity:      c.Movement.TerminalVelocity,
		LocalMomentum:         c.Movement.LocalMomentum,
	}
}

// TickInterval returns the fixed tick duration.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Sim.TickRate)
}
