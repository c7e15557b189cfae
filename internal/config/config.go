// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Motion() MotionConfig
	Backend() BackendConfig
	Simulation() SimulationConfig

	// Motion Setters
	SetMotionPreset(name string)
	SetMotionSeed(seed int64)
	SetMotionDeviation(kind string)

	// Backend Setters
	SetBackendType(t string)

	// Simulation Setters
	SetSimulationCount(n int)
	SetSimulationOutputDir(dir string)
	SetSimulationConcurrency(n int)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	MotionCfg     MotionConfig     `mapstructure:"motion" yaml:"motion"`
	BackendCfg    BackendConfig    `mapstructure:"backend" yaml:"backend"`
	SimulationCfg SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
}

var _ Interface = (*Config)(nil)

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig         { return c.LoggerCfg }
func (c *Config) Motion() MotionConfig         { return c.MotionCfg }
func (c *Config) Backend() BackendConfig       { return c.BackendCfg }
func (c *Config) Simulation() SimulationConfig { return c.SimulationCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetMotionPreset(name string) { c.MotionCfg.Preset = name }
func (c *Config) SetMotionSeed(seed int64)    { c.MotionCfg.Seed = seed }
func (c *Config) SetBackendType(t string)     { c.BackendCfg.Type = t }
func (c *Config) SetSimulationCount(n int)    { c.SimulationCfg.Count = n }

func (c *Config) SetMotionDeviation(kind string) {
	c.MotionCfg.Deviation = kind
}

func (c *Config) SetSimulationOutputDir(dir string) {
	c.SimulationCfg.OutputDir = dir
}

func (c *Config) SetSimulationConcurrency(n int) {
	c.SimulationCfg.Concurrency = n
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// Deviation kinds accepted by motion.deviation.
const (
	DeviationPreset     = ""
	DeviationSinusoidal = "sinusoidal"
	DeviationPerlin     = "perlin"
	DeviationNone       = "none"
)

// MotionConfig selects a movement preset and optionally overrides parts of it.
type MotionConfig struct {
	Preset string `mapstructure:"preset" yaml:"preset"`
	// RobotMsPer100px is the pace of the robot preset.
	RobotMsPer100px float64 `mapstructure:"robot_ms_per_100px" yaml:"robot_ms_per_100px"`
	// Seed makes moves reproducible. Zero seeds from the clock.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
	// Deviation replaces the preset's arc. Empty keeps it.
	Deviation       string          `mapstructure:"deviation" yaml:"deviation"`
	PerlinFrequency float64         `mapstructure:"perlin_frequency" yaml:"perlin_frequency"`
	Overrides       MotionOverrides `mapstructure:"overrides" yaml:"overrides"`
}

// MotionOverrides replaces individual preset values. Nil fields keep the preset's value.
type MotionOverrides struct {
	TimeToStepsDivider    *float64       `mapstructure:"time_to_steps_divider" yaml:"time_to_steps_divider,omitempty"`
	MinSteps              *int           `mapstructure:"min_steps" yaml:"min_steps,omitempty"`
	EffectFadeSteps       *int           `mapstructure:"effect_fade_steps" yaml:"effect_fade_steps,omitempty"`
	ReactionTimeBase      *time.Duration `mapstructure:"reaction_time_base" yaml:"reaction_time_base,omitempty"`
	ReactionTimeVariation *time.Duration `mapstructure:"reaction_time_variation" yaml:"reaction_time_variation,omitempty"`
	MaxReplans            *int           `mapstructure:"max_replans" yaml:"max_replans,omitempty"`
	Overshoots            *int           `mapstructure:"overshoots" yaml:"overshoots,omitempty"`
	DisableNoise          bool           `mapstructure:"disable_noise" yaml:"disable_noise"`
}

// Backend types accepted by backend.type.
const (
	BackendVirtual  = "virtual"
	BackendTerminal = "terminal"
	BackendCDP      = "cdp"
)

// BackendConfig selects and configures the pointer backend.
type BackendConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	// Width and Height size the virtual screen.
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
	// Region restricts moves to a sub-rectangle of the backend's screen.
	Region RegionConfig `mapstructure:"region" yaml:"region"`
	CDP    CDPConfig    `mapstructure:"cdp" yaml:"cdp"`
}

// RegionConfig is an optional offset rectangle. A zero width disables it.
type RegionConfig struct {
	X      int `mapstructure:"x" yaml:"x"`
	Y      int `mapstructure:"y" yaml:"y"`
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// Enabled reports whether a region was configured.
func (r RegionConfig) Enabled() bool { return r.Width != 0 || r.Height != 0 }

// CDPConfig configures the Chrome DevTools backend.
type CDPConfig struct {
	// RemoteURL attaches to a running browser's DevTools websocket. When empty
	// a local browser is launched.
	RemoteURL string `mapstructure:"remote_url" yaml:"remote_url"`
	Headless  bool   `mapstructure:"headless" yaml:"headless"`
	StartURL  string `mapstructure:"start_url" yaml:"start_url"`
	// Timeout bounds browser startup and navigation.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SimulationConfig controls offline batch simulation.
type SimulationConfig struct {
	Count       int    `mapstructure:"count" yaml:"count"`
	Concurrency int    `mapstructure:"concurrency" yaml:"concurrency"`
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`
	Width       int    `mapstructure:"width" yaml:"width"`
	Height      int    `mapstructure:"height" yaml:"height"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "pointerflow")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Motion --
	v.SetDefault("motion.preset", "default")
	v.SetDefault("motion.robot_ms_per_100px", 100.0)
	v.SetDefault("motion.seed", 0)
	v.SetDefault("motion.deviation", DeviationPreset)
	v.SetDefault("motion.perlin_frequency", 1.5)

	// -- Backend --
	v.SetDefault("backend.type", BackendVirtual)
	v.SetDefault("backend.width", 1920)
	v.SetDefault("backend.height", 1080)
	v.SetDefault("backend.cdp.headless", true)
	v.SetDefault("backend.cdp.start_url", "about:blank")
	v.SetDefault("backend.cdp.timeout", "30s")

	// -- Simulation --
	v.SetDefault("simulation.count", 1)
	v.SetDefault("simulation.concurrency", 4)
	v.SetDefault("simulation.output_dir", "~/.pointerflow/traces")
	v.SetDefault("simulation.width", 1920)
	v.SetDefault("simulation.height", 1080)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Expand ~ only after validation so error messages show what the user wrote.
	dir, err := homedir.Expand(cfg.SimulationCfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to expand simulation.output_dir: %w", err)
	}
	cfg.SimulationCfg.OutputDir = dir
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.MotionCfg.Validate(); err != nil {
		return fmt.Errorf("motion configuration invalid: %w", err)
	}
	if err := c.BackendCfg.Validate(); err != nil {
		return fmt.Errorf("backend configuration invalid: %w", err)
	}
	if c.SimulationCfg.Count <= 0 {
		return fmt.Errorf("simulation.count must be a positive integer")
	}
	if c.SimulationCfg.Concurrency <= 0 {
		return fmt.Errorf("simulation.concurrency must be a positive integer")
	}
	if c.SimulationCfg.Width <= 0 || c.SimulationCfg.Height <= 0 {
		return fmt.Errorf("simulation.width and simulation.height must be positive integers")
	}
	return nil
}

// Validate checks the motion configuration. Preset names are resolved later
// by the motion package.
func (m *MotionConfig) Validate() error {
	if strings.TrimSpace(m.Preset) == "" {
		return fmt.Errorf("preset is required")
	}
	if m.RobotMsPer100px < 0 {
		return fmt.Errorf("robot_ms_per_100px must not be negative")
	}
	switch m.Deviation {
	case DeviationPreset, DeviationSinusoidal, DeviationNone:
	case DeviationPerlin:
		if m.PerlinFrequency <= 0 {
			return fmt.Errorf("perlin_frequency must be positive")
		}
	default:
		return fmt.Errorf("deviation must be one of %q, %q or %q, got %q",
			DeviationSinusoidal, DeviationPerlin, DeviationNone, m.Deviation)
	}

	o := m.Overrides
	if o.TimeToStepsDivider != nil && *o.TimeToStepsDivider <= 0 {
		return fmt.Errorf("overrides.time_to_steps_divider must be positive")
	}
	if o.MinSteps != nil && *o.MinSteps <= 0 {
		return fmt.Errorf("overrides.min_steps must be a positive integer")
	}
	if o.EffectFadeSteps != nil && *o.EffectFadeSteps <= 0 {
		return fmt.Errorf("overrides.effect_fade_steps must be a positive integer")
	}
	if (o.ReactionTimeBase != nil && *o.ReactionTimeBase < 0) ||
		(o.ReactionTimeVariation != nil && *o.ReactionTimeVariation < 0) {
		return fmt.Errorf("overrides reaction times must not be negative")
	}
	if o.MaxReplans != nil && *o.MaxReplans < 0 {
		return fmt.Errorf("overrides.max_replans must not be negative")
	}
	if o.Overshoots != nil && *o.Overshoots < 0 {
		return fmt.Errorf("overrides.overshoots must not be negative")
	}
	return nil
}

// Validate checks the backend configuration.
func (b *BackendConfig) Validate() error {
	switch b.Type {
	case BackendVirtual:
		if b.Width <= 0 || b.Height <= 0 {
			return fmt.Errorf("width and height must be positive integers for the virtual backend")
		}
	case BackendTerminal, BackendCDP:
	default:
		return fmt.Errorf("type must be one of %q, %q or %q, got %q",
			BackendVirtual, BackendTerminal, BackendCDP, b.Type)
	}
	if b.Region.Enabled() && (b.Region.Width <= 0 || b.Region.Height <= 0) {
		return fmt.Errorf("region.width and region.height must be positive integers")
	}
	if b.Type == BackendCDP && b.CDP.Timeout <= 0 {
		return fmt.Errorf("cdp.timeout must be a positive duration")
	}
	return nil
}
