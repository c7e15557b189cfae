// File: internal/config/config_test.go
package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	// Verify a few key defaults to ensure the mechanism works.
	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "pointerflow", cfg.Logger().ServiceName)
	assert.Equal(t, "default", cfg.Motion().Preset)
	assert.Equal(t, 100.0, cfg.Motion().RobotMsPer100px)
	assert.Nil(t, cfg.Motion().Overrides.MinSteps)
	assert.Equal(t, BackendVirtual, cfg.Backend().Type)
	assert.Equal(t, 1920, cfg.Backend().Width)
	assert.Equal(t, 30*time.Second, cfg.Backend().CDP.Timeout)
	assert.False(t, cfg.Backend().Region.Enabled())
	assert.Equal(t, 4, cfg.Simulation().Concurrency)
	assert.NoError(t, cfg.Validate())
}

func TestSetters(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.SetMotionPreset("granny")
	cfg.SetMotionSeed(42)
	cfg.SetBackendType(BackendTerminal)
	cfg.SetSimulationCount(9)
	cfg.SetSimulationOutputDir("/tmp/traces")
	cfg.SetSimulationConcurrency(2)
	cfg.SetMotionDeviation(DeviationPerlin)

	assert.Equal(t, "granny", cfg.Motion().Preset)
	assert.Equal(t, int64(42), cfg.Motion().Seed)
	assert.Equal(t, BackendTerminal, cfg.Backend().Type)
	assert.Equal(t, 9, cfg.Simulation().Count)
	assert.Equal(t, "/tmp/traces", cfg.Simulation().OutputDir)
	assert.Equal(t, 2, cfg.Simulation().Concurrency)
	assert.Equal(t, DeviationPerlin, cfg.Motion().Deviation)
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	intPtr := func(v int) *int { return &v }
	floatPtr := func(v float64) *float64 { return &v }
	durPtr := func(v time.Duration) *time.Duration { return &v }

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"Valid default", func(c *Config) {}, ""},
		{"Empty preset", func(c *Config) { c.MotionCfg.Preset = " " }, "preset is required"},
		{"Negative robot pace", func(c *Config) { c.MotionCfg.RobotMsPer100px = -1 }, "robot_ms_per_100px must not be negative"},
		{"Unknown deviation", func(c *Config) { c.MotionCfg.Deviation = "zigzag" }, `got "zigzag"`},
		{"Perlin without frequency", func(c *Config) {
			c.MotionCfg.Deviation = DeviationPerlin
			c.MotionCfg.PerlinFrequency = 0
		}, "perlin_frequency must be positive"},
		{"Zero divider override", func(c *Config) { c.MotionCfg.Overrides.TimeToStepsDivider = floatPtr(0) }, "time_to_steps_divider"},
		{"Zero min steps override", func(c *Config) { c.MotionCfg.Overrides.MinSteps = intPtr(0) }, "overrides.min_steps"},
		{"Zero fade override", func(c *Config) { c.MotionCfg.Overrides.EffectFadeSteps = intPtr(0) }, "overrides.effect_fade_steps"},
		{"Negative reaction override", func(c *Config) { c.MotionCfg.Overrides.ReactionTimeVariation = durPtr(-time.Millisecond) }, "reaction times"},
		{"Negative replans override", func(c *Config) { c.MotionCfg.Overrides.MaxReplans = intPtr(-1) }, "overrides.max_replans"},
		{"Negative overshoots override", func(c *Config) { c.MotionCfg.Overrides.Overshoots = intPtr(-2) }, "overrides.overshoots"},
		{"Zero overshoots override is valid", func(c *Config) { c.MotionCfg.Overrides.Overshoots = intPtr(0) }, ""},
		{"Unknown backend", func(c *Config) { c.BackendCfg.Type = "x11" }, `got "x11"`},
		{"Virtual without size", func(c *Config) { c.BackendCfg.Width = 0 }, "width and height must be positive"},
		{"Terminal ignores size", func(c *Config) {
			c.BackendCfg.Type = BackendTerminal
			c.BackendCfg.Width = 0
		}, ""},
		{"Half region", func(c *Config) { c.BackendCfg.Region.Width = 100 }, "region.width and region.height"},
		{"CDP without timeout", func(c *Config) {
			c.BackendCfg.Type = BackendCDP
			c.BackendCfg.CDP.Timeout = 0
		}, "cdp.timeout must be a positive duration"},
		{"Zero simulation count", func(c *Config) { c.SimulationCfg.Count = 0 }, "simulation.count must be a positive integer"},
		{"Zero concurrency", func(c *Config) { c.SimulationCfg.Concurrency = 0 }, "simulation.concurrency must be a positive integer"},
		{"Zero simulation screen", func(c *Config) { c.SimulationCfg.Height = 0 }, "simulation.width and simulation.height"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
motion:
  preset: fast_gamer
  seed: 7
  overrides:
    min_steps: 20
    reaction_time_base: 35ms
    overshoots: 0
backend:
  type: terminal
  region:
    x: -100
    y: 0
    width: 50
    height: 40
simulation:
  output_dir: /tmp/pointerflow
`)
		v := viper.New()
		SetDefaults(v) // Set defaults first
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		m := cfg.Motion()
		assert.Equal(t, "fast_gamer", m.Preset)
		assert.Equal(t, int64(7), m.Seed)
		require.NotNil(t, m.Overrides.MinSteps)
		assert.Equal(t, 20, *m.Overrides.MinSteps)
		require.NotNil(t, m.Overrides.ReactionTimeBase)
		assert.Equal(t, 35*time.Millisecond, *m.Overrides.ReactionTimeBase)
		require.NotNil(t, m.Overrides.Overshoots)
		assert.Zero(t, *m.Overrides.Overshoots)
		assert.Nil(t, m.Overrides.MaxReplans)

		assert.Equal(t, BackendTerminal, cfg.Backend().Type)
		assert.Equal(t, RegionConfig{X: -100, Width: 50, Height: 40}, cfg.Backend().Region)
		assert.True(t, cfg.Backend().Region.Enabled())
		assert.Equal(t, "/tmp/pointerflow", cfg.Simulation().OutputDir)
		// Check a default value was also loaded
		assert.Equal(t, "info", cfg.Logger().Level)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("simulation.concurrency", 0) // Intentionally invalid

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "simulation.concurrency must be a positive integer")
	})

	t.Run("Expands Home Directory", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		home, err := homedir.Dir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".pointerflow", "traces"), cfg.Simulation().OutputDir)
	})

	t.Run("Environment Variable Binding", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.SetEnvPrefix("POINTERFLOW")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		t.Setenv("POINTERFLOW_MOTION_PRESET", "granny")
		t.Setenv("POINTERFLOW_BACKEND_WIDTH", "640")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "granny", cfg.Motion().Preset)
		assert.Equal(t, 640, cfg.Backend().Width)
	})
}

// -- Struct and Mapping Tests --

func TestConfigStructureMapping(t *testing.T) {
	yamlInput := `
logger:
  level: debug
  log_file: /var/log/pointerflow.log
  colors:
    warn: yellow
backend:
  type: cdp
  cdp:
    remote_url: ws://127.0.0.1:9222/devtools/browser/abc
    timeout: 5s
`
	v := viper.New()
	SetDefaults(v) // Set defaults first
	v.SetConfigType("yaml")
	err := v.ReadConfig(bytes.NewBufferString(yamlInput))
	require.NoError(t, err)

	var cfg Config
	err = v.Unmarshal(&cfg)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger().Level)
	assert.Equal(t, "/var/log/pointerflow.log", cfg.Logger().LogFile)
	assert.Equal(t, "yellow", cfg.Logger().Colors.Warn)
	assert.Equal(t, "ws://127.0.0.1:9222/devtools/browser/abc", cfg.Backend().CDP.RemoteURL)
	assert.Equal(t, 5*time.Second, cfg.Backend().CDP.Timeout)
	assert.True(t, cfg.Backend().CDP.Headless)
}
