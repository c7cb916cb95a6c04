package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("rollup_workers: 4\n"), 0o600))

	content, err := GetConfigFile(configPath)

	require.NoError(t, err)
	assert.Equal(t, "rollup_workers: 4\n", string(content))

	_, err = GetConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("BIKEFLOW_TEST_VALUE", "value")

	assert.Equal(t, "value", GetEnv("BIKEFLOW_TEST_VALUE", "default"))
	assert.Equal(t, "default", GetEnv("BIKEFLOW_TEST_MISSING", "default"))
}
