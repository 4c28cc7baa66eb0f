package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdfbench/kdfbench/internal/config"
)

func TestConfigShow(t *testing.T) {
	conf := testConfig("text")
	conf.Bits = 256

	stdout, _, err := execute(t, NewConfigCommand(conf, ""), "show")
	require.NoError(t, err)

	assert.Contains(t, stdout, "algorithm: SHA-256")
	assert.Contains(t, stdout, "bits: 256")
	assert.Contains(t, stdout, "backend: software")
	assert.Contains(t, stdout, "max_iterations: 10000000")
}

func TestConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	stdout, _, err := execute(t, NewConfigCommand(nil, path), "path")
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(stdout))
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kdfbench", "config.yaml")

	stdout, _, err := execute(t, NewConfigCommand(nil, path), "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, path)

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), loaded)

	_, _, err = execute(t, NewConfigCommand(nil, path), "init")
	assert.ErrorContains(t, err, "already exists")
}

func TestConfigInitForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bits: [broken"), 0o600))

	_, _, err := execute(t, NewConfigCommand(nil, path), "init", "--force")
	require.NoError(t, err)

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), loaded)
}

func TestConfigInitWithoutPath(t *testing.T) {
	_, _, err := execute(t, NewConfigCommand(nil, ""), "init")
	assert.ErrorContains(t, err, "no configuration path")
}
