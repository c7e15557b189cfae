// File: cmd/helpers_test.go
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pointerflow/internal/config"
	"github.com/xkilldash9x/pointerflow/internal/motion"
	"github.com/xkilldash9x/pointerflow/internal/observability"
)

// resetForTest isolates a test from the working directory's config.yaml, the
// global logger and any swapped backend factory.
func resetForTest(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	observability.ResetForTest()
	t.Cleanup(func() {
		observability.ResetForTest()
		openBackend = openConfiguredBackend
	})
}

// executeCommand runs a fresh command tree and returns everything it printed.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCommandContext(t, context.Background(), args...)
}

func executeCommandContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	rootCmd := NewRootCommand()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

// createTempConfig writes content to a config file in a temp dir.
func createTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pointerflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newTestConfig returns the default configuration scaled down for fast tests.
func newTestConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.MotionCfg.Seed = 1
	cfg.BackendCfg.Width = 800
	cfg.BackendCfg.Height = 600
	cfg.SimulationCfg.Width = 400
	cfg.SimulationCfg.Height = 300
	return cfg
}

// useBackend makes every command in the test run against b.
func useBackend(t *testing.T, b motion.AsyncBackend) {
	t.Helper()
	openBackend = func(context.Context, config.BackendConfig, *zap.Logger) (motion.AsyncBackend, func(), error) {
		return b, func() {}, nil
	}
	t.Cleanup(func() { openBackend = openConfiguredBackend })
}
