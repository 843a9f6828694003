// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	reapExpired    = pflag.Bool("reap-expired", false, "Enables the expired file reaper and runs one pass on startup")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "postgres"}
)

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.public_url", "host_public_url")
	v.BindEnv("host.cors_origins", "host_cors_origins")

	v.BindEnv("database.driver", "database_driver")
	v.BindEnv("database.dsn", "database_dsn")
	v.BindEnv("database.timeout", "database_timeout")

	v.BindEnv("storage.account_id", "storage_account_id")
	v.BindEnv("storage.access_key_id", "storage_access_key_id")
	v.BindEnv("storage.secret_access_key", "storage_secret_access_key")
	v.BindEnv("storage.bucket", "storage_bucket")
	v.BindEnv("storage.timeout", "storage_timeout")

	v.BindEnv("upload.max_size", "upload_max_size")
	v.BindEnv("upload.max_filename", "upload_max_filename")
	v.BindEnv("upload.allowed_types", "upload_allowed_types")

	v.BindEnv("quota.daily_limit", "quota_daily_limit")
	v.BindEnv("quota.burst_rps", "quota_burst_rps")

	v.BindEnv("links.retention_hours", "links_retention_hours")
	v.BindEnv("links.signed_ttl_minutes", "links_signed_ttl_minutes")

	v.BindEnv("admin.password", "admin_password")
	v.BindEnv("admin.jwt_secret", "admin_jwt_secret")

	v.BindEnv("cache.redis_addr", "cache_redis_addr")

	v.BindEnv("reaper.enabled", "reaper_enabled")
	v.BindEnv("reaper.schedule", "reaper_schedule")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.public_url", "http://localhost:5173")
	v.SetDefault("host.cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "database.db")
	v.SetDefault("database.timeout", 5)

	v.SetDefault("storage.timeout", 30)

	// Size in MiB, converted to bytes at the end
	v.SetDefault("upload.max_size", 250)
	v.SetDefault("upload.max_filename", 255)
	v.SetDefault("upload.allowed_types", []string{})

	// Old deployments disagreed on this one (10 in some, 15 in
	// others). Single knob now, 10 unless overridden.
	v.SetDefault("quota.daily_limit", 10)
	v.SetDefault("quota.burst_rps", 20)

	v.SetDefault("links.retention_hours", 72)
	v.SetDefault("links.signed_ttl_minutes", 60)

	v.SetDefault("reaper.enabled", false)
	v.SetDefault("reaper.schedule", "@hourly")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if *reapExpired {
		v.Set("reaper.enabled", true)
		v.Set("reaper.run_on_start", true)
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDrivers, v.GetString("database.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("database.dsn") == "" {
		return errors.New("database dsn can't be empty")
	}

	if v.GetInt("database.timeout") <= 0 {
		return errors.New("database.timeout must be bigger than 0")
	}

	if v.GetString("storage.account_id") == "" {
		return errors.New("account id can't be empty")
	}
	if v.GetString("storage.access_key_id") == "" {
		return errors.New("account access id can't be empty")
	}
	if v.GetString("storage.secret_access_key") == "" {
		return errors.New("secret access key can't be empty")
	}
	if v.GetString("storage.bucket") == "" {
		return errors.New("bucket can't be empty")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetInt("upload.max_filename") <= 0 {
		return errors.New("upload.max_filename must be bigger than 0")
	}

	if v.GetInt("quota.daily_limit") <= 0 {
		return errors.New("quota.daily_limit must be bigger than 0")
	}

	if v.GetInt("links.retention_hours") <= 0 {
		return errors.New("links.retention_hours must be bigger than 0")
	}

	if v.GetInt("links.signed_ttl_minutes") <= 0 {
		return errors.New("links.signed_ttl_minutes must be bigger than 0")
	}

	if v.GetString("admin.jwt_secret") == "" {
		return errors.New("admin.jwt_secret can't be empty")
	}

	if v.GetString("admin.password") == "" {
		zap.L().Warn("No admin.password set, admin login will reject everyone")
	}

	if len(v.GetStringSlice("upload.allowed_types")) == 0 {
		zap.L().Warn("No upload.allowed_types specified, any file type will be accepted")
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}
