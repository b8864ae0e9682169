package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such-config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "UTC", cfg.Converter.TimezoneHint)
	assert.Equal(t, ".", cfg.Converter.OutputDir)
	assert.False(t, cfg.Converter.MakeZip)
	assert.True(t, cfg.Converter.ShouldValidate())
	assert.False(t, cfg.Converter.Overwrite)
	assert.False(t, cfg.Publish.Enabled)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Redact())
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 127.0.0.1
  port: 9000
converter:
  timezone_hint: America/Bogota
  output_dir: /var/lib/wi2camtrapdp
  make_zip: true
  validate: false
  overwrite: true
publish:
  enabled: true
  s3_bucket: camtrap-bundles
  s3_prefix: runs/
logging:
  level: DEBUG
  redact_pii: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, "America/Bogota", cfg.Converter.TimezoneHint)
	assert.Equal(t, "/var/lib/wi2camtrapdp", cfg.Converter.OutputDir)
	assert.True(t, cfg.Converter.MakeZip)
	assert.False(t, cfg.Converter.ShouldValidate())
	assert.True(t, cfg.Converter.Overwrite)
	assert.True(t, cfg.Publish.Enabled)
	assert.Equal(t, "camtrap-bundles", cfg.Publish.S3Bucket)
	assert.Equal(t, "us-east-1", cfg.Publish.S3Region)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Redact())
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("TIMEZONE_HINT", "Africa/Nairobi")
	t.Setenv("PUBLISH_S3_BUCKET", "bundles")
	t.Setenv("LOG_LEVEL", "WARN")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "Africa/Nairobi", cfg.Converter.TimezoneHint)
	assert.Equal(t, "bundles", cfg.Publish.S3Bucket)
	assert.True(t, cfg.Publish.Enabled, "setting a bucket turns publishing on")
	assert.Equal(t, "WARN", cfg.Logging.Level)
}

func TestLoadFromEnvIgnoresBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}
