package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "CERTSHOWCASE_"

// dotenvFile is loaded into the process environment when present. Variables
// already set in the environment win over the file.
var dotenvFile = ".env"

// parseEnv overlays CERTSHOWCASE_* environment variables onto config.
func parseEnv(config *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	strs := map[string]*string{
		"HTTP_ADDR":          &config.HTTPAddr,
		"GRPC_ADDR":          &config.GRPCAddr,
		"DATABASE_DSN":       &config.DatabaseDSN,
		"SECRET_KEY":         &config.SecretKey,
		"REDIS_ADDR":         &config.RedisAddr,
		"STORAGE_BACKEND":    &config.StorageBackend,
		"S3_ROOT_USER":       &config.S3RootUser,
		"S3_ROOT_PASSWORD":   &config.S3RootPassword,
		"S3_BUCKET":          &config.S3Bucket,
		"S3_REGION":          &config.S3Region,
		"S3_BASE_ENDPOINT":   &config.S3BaseEndpoint,
		"S3_PUBLIC_BASE_URL": &config.S3PublicBaseURL,
		"ADMIN_EMAIL":        &config.AdminEmail,
		"ADMIN_PASSWORD":     &config.AdminPassword,
		"ADMIN_USERNAME":     &config.AdminUsername,
		"LOG_LEVEL":          &config.LogLevel,
		"LOG_BACKEND":        &config.LogBackend,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"ACCESS_TOKEN_VALIDITY":  &config.AccessTokenValidityDuration,
		"REFRESH_TOKEN_VALIDITY": &config.RefreshTokenValidityDuration,
		"SHUTDOWN_TIMEOUT":       &config.ShutdownTimeout,
	}
	for name, dst := range durations {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return err
			}
			*dst = d
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "S3_USE_SSL"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		config.S3UseSSL = b
	}
	if v, ok := os.LookupEnv(envPrefix + "MAX_UPLOAD_SIZE"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		config.MaxUploadSize = n
	}
	return nil
}
