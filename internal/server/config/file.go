package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/certshowcase/internal/flagx"
	"github.com/dmitrijs2005/certshowcase/internal/timex"
)

// FileConfig is the on-disk form of Config, read from JSON or YAML depending
// on the file extension. Durations accept "15m" style strings or integer
// nanoseconds. Zero values leave the current setting unchanged.
type FileConfig struct {
	HTTPAddr                     string         `json:"http_addr" yaml:"http_addr"`
	GRPCAddr                     string         `json:"grpc_addr" yaml:"grpc_addr"`
	DatabaseDSN                  string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                    string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	RedisAddr                    string         `json:"redis_addr" yaml:"redis_addr"`
	StorageBackend               string         `json:"storage_backend" yaml:"storage_backend"`
	S3RootUser                   string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                     string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3PublicBaseURL              string         `json:"s3_public_base_url" yaml:"s3_public_base_url"`
	S3UseSSL                     *bool          `json:"s3_use_ssl" yaml:"s3_use_ssl"`
	MaxUploadSize                int64          `json:"max_upload_size" yaml:"max_upload_size"`
	AdminEmail                   string         `json:"admin_email" yaml:"admin_email"`
	AdminPassword                string         `json:"admin_password" yaml:"admin_password"`
	AdminUsername                string         `json:"admin_username" yaml:"admin_username"`
	LogLevel                     string         `json:"log_level" yaml:"log_level"`
	LogBackend                   string         `json:"log_backend" yaml:"log_backend"`
	ShutdownTimeout              timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// parseFile loads the config file named by -c/-config in args, if any.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return err
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(config *Config) {
	setString(&config.HTTPAddr, fc.HTTPAddr)
	setString(&config.GRPCAddr, fc.GRPCAddr)
	setString(&config.DatabaseDSN, fc.DatabaseDSN)
	setString(&config.SecretKey, fc.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, fc.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, fc.RefreshTokenValidityDuration)
	setString(&config.RedisAddr, fc.RedisAddr)
	setString(&config.StorageBackend, fc.StorageBackend)
	setString(&config.S3RootUser, fc.S3RootUser)
	setString(&config.S3RootPassword, fc.S3RootPassword)
	setString(&config.S3Bucket, fc.S3Bucket)
	setString(&config.S3Region, fc.S3Region)
	setString(&config.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, fc.S3PublicBaseURL)
	if fc.S3UseSSL != nil {
		config.S3UseSSL = *fc.S3UseSSL
	}
	if fc.MaxUploadSize > 0 {
		config.MaxUploadSize = fc.MaxUploadSize
	}
	setString(&config.AdminEmail, fc.AdminEmail)
	setString(&config.AdminPassword, fc.AdminPassword)
	setString(&config.AdminUsername, fc.AdminUsername)
	setString(&config.LogLevel, fc.LogLevel)
	setString(&config.LogBackend, fc.LogBackend)
	setDuration(&config.ShutdownTimeout, fc.ShutdownTimeout)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
