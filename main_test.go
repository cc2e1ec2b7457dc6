package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/scienceol/solvation/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailedCommandFlushesTrace(t *testing.T) {
	before := *config.Global()
	t.Cleanup(func() { *config.Global() = before })

	dir := t.TempDir()
	out := filepath.Join(dir, "trace.log")
	t.Setenv("LOG_PATH", filepath.Join(dir, "solvation.log"))
	t.Setenv("TRACE_EXPORTER", "stdout")
	t.Setenv("TRACE_OUTPUT", out)

	err := run(context.Background(), []string{"evaluate", "--solvent", "mercury"})
	require.Error(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "solvation.evaluate")
}
