// File: cmd/root_test.go
package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_VersionFlag(t *testing.T) {
	resetForTest(t)

	out, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "pointerflow version "+Version)
}

func TestRootCmd_NoArgs(t *testing.T) {
	resetForTest(t)

	out, err := executeCommand(t)
	require.NoError(t, err)
	assert.Contains(t, out, "pointerflow moves a pointer the way a person would.")
	for _, sub := range []string{"move", "simulate", "diagnose", "presets"} {
		assert.Contains(t, out, sub)
	}
}

func TestRootCmd_ConfigFile(t *testing.T) {
	resetForTest(t)
	path := createTempConfig(t, `
logger:
  level: error
motion:
  preset: robot
  robot_ms_per_100px: 40
  seed: 11
`)

	out, err := executeCommand(t, "--config", path, "presets", "--effective")
	require.NoError(t, err)
	assert.Contains(t, out, "preset: robot")
	assert.Contains(t, out, "robot_ms_per_100px: 40")
	assert.Contains(t, out, "seed: 11")
}

func TestRootCmd_MissingConfigFile(t *testing.T) {
	resetForTest(t)

	_, err := executeCommand(t, "--config", "/does/not/exist.yaml", "presets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize configuration")
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	resetForTest(t)
	path := createTempConfig(t, `
simulation:
  concurrency: 0
`)

	_, err := executeCommand(t, "--config", path, "presets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulation.concurrency must be a positive integer")
}

func TestRootCmd_EnvironmentOverride(t *testing.T) {
	resetForTest(t)
	t.Setenv("POINTERFLOW_MOTION_PRESET", "granny")
	t.Setenv("POINTERFLOW_LOGGER_LEVEL", "error")

	out, err := executeCommand(t, "presets", "--effective")
	require.NoError(t, err)
	assert.Contains(t, out, "preset: granny")
}

func TestRootCmd_FlagBeatsEnvironment(t *testing.T) {
	resetForTest(t)
	t.Setenv("POINTERFLOW_MOTION_PRESET", "granny")

	out, err := executeCommand(t, "presets", "--effective", "--preset", "fast_gamer")
	require.NoError(t, err)
	assert.Contains(t, out, "preset: fast_gamer")
}

func TestGetConfigFromContext(t *testing.T) {
	_, err := getConfigFromContext(context.Background())
	assert.Error(t, err)

	cfg := newTestConfig()
	got, err := getConfigFromContext(context.WithValue(context.Background(), configKey, cfg))
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}
