package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Validate(cfg))
	assert.Zero(t, cfg.Bits, "key length must not be defaulted")
	assert.Equal(t, "software", cfg.Backend)
	assert.Equal(t, 16, cfg.SaltSize)
}

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Algorithm = "SHA-512"
	cfg.Bits = 256
	cfg.Backend = "platform"
	cfg.ClipboardTTL = 45 * time.Second
	cfg.Tune.Target = time.Second
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`algorithm: sha1
bits: 128
iterations: 5000
backend: platform
output_format: json
clipboard_ttl: 10s
tune:
  target: 500ms
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sha1", cfg.Algorithm)
	assert.Equal(t, 128, cfg.Bits)
	assert.Equal(t, 5000, cfg.Iterations)
	assert.Equal(t, "platform", cfg.Backend)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 10*time.Second, cfg.ClipboardTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.Tune.Target)
	assert.Equal(t, 10_000_000, cfg.Tune.MaxIterations, "unset keys keep their defaults")
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`bits: 100
backend: gpu
salt_size: 0
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bits must be a multiple of 8")
	assert.Contains(t, err.Error(), "backend must be one of [software platform]")
	assert.Contains(t, err.Error(), "salt_size must be at least 1")
}

func TestLoadConfigRejectsHugeKeyLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bits: 8796093022208\n"), 0o600))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "bits must be at most 65536")
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bits: [unterminated"), 0o600))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestValidateNil(t *testing.T) {
	assert.Error(t, Validate(nil))
}

func TestFormatFieldPath(t *testing.T) {
	assert.Equal(t, "tune.max_iterations", formatFieldPath("Config.Tune.MaxIterations"))
	assert.Equal(t, "clipboard_ttl", formatFieldPath("Config.ClipboardTTL"))
}
