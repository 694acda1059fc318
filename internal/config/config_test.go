package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "foodgram.db", cfg.DatabaseURL)
	assert.Equal(t, 720*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 6, cfg.PageSize)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoad_TOMLThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "config.toml")
	content := `
port = "9000"
database_url = "postgres://u:p@localhost:5432/foodgram"
jwt_ttl = "2h"
page_size = 10

[s3]
bucket = "media"
region = "eu-central-1"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PAGE_SIZE", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "postgres://u:p@localhost:5432/foodgram", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 12, cfg.PageSize)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoad_ProdRequiresSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_TTL", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " https://a.example ,, https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
