package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("CERTSHOWCASE_DATABASE_DSN", "postgres://env")
	t.Setenv("CERTSHOWCASE_ACCESS_TOKEN_VALIDITY", "90s")
	t.Setenv("CERTSHOWCASE_S3_USE_SSL", "true")
	t.Setenv("CERTSHOWCASE_MAX_UPLOAD_SIZE", "1024")
	t.Setenv("CERTSHOWCASE_STORAGE_BACKEND", StorageMinio)

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c, ""))

	assert.Equal(t, "postgres://env", c.DatabaseDSN)
	assert.Equal(t, 90*time.Second, c.AccessTokenValidityDuration)
	assert.True(t, c.S3UseSSL)
	assert.Equal(t, int64(1024), c.MaxUploadSize)
	assert.Equal(t, StorageMinio, c.StorageBackend)
	assert.Equal(t, ":8080", c.HTTPAddr, "unset variables keep defaults")
}

func TestParseEnv_InvalidValues(t *testing.T) {
	for name, value := range map[string]string{
		"CERTSHOWCASE_SHUTDOWN_TIMEOUT": "soon",
		"CERTSHOWCASE_S3_USE_SSL":       "maybe",
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, value)
			var c Config
			assert.Error(t, parseEnv(&c, ""))
		})
	}
}

func TestParseEnv_DotenvFile(t *testing.T) {
	const key = "CERTSHOWCASE_ADMIN_EMAIL"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=admin@example.com\n"), 0o600))

	var c Config
	require.NoError(t, parseEnv(&c, path))
	assert.Equal(t, "admin@example.com", c.AdminEmail)
}

func TestParseEnv_EnvironmentWinsOverDotenv(t *testing.T) {
	t.Setenv("CERTSHOWCASE_ADMIN_USERNAME", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CERTSHOWCASE_ADMIN_USERNAME=from-file\n"), 0o600))

	var c Config
	require.NoError(t, parseEnv(&c, path))
	assert.Equal(t, "from-env", c.AdminUsername)
}

func TestParseEnv_MissingDotenvIsFine(t *testing.T) {
	var c Config
	assert.NoError(t, parseEnv(&c, filepath.Join(t.TempDir(), "nope.env")))
}
