// Package config loads surveyflow settings from defaults, an optional YAML
// file and SURVEYFLOW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Auth    AuthConfig    `mapstructure:"auth"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// RedisConfig configures the session store. SessionTTL bounds how long an
// untouched in-progress response survives.
type RedisConfig struct {
	Addr       string        `mapstructure:"addr"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type AuthConfig struct {
	HostUsername       string        `mapstructure:"host_username"`
	HostPassword       string        `mapstructure:"host_password"`
	JWTSecret          string        `mapstructure:"jwt_secret"`
	HostTokenTTL       time.Duration `mapstructure:"host_token_ttl"`
	RespondentTokenTTL time.Duration `mapstructure:"respondent_token_ttl"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig configures logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("surveyflow")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "surveyflow"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("SURVEYFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "surveyflow")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.session_ttl", 24*time.Hour)

	v.SetDefault("auth.host_username", "admin")
	v.SetDefault("auth.host_password", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.host_token_ttl", 24*time.Hour)
	v.SetDefault("auth.respondent_token_ttl", 24*time.Hour)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo.database is required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.Redis.SessionTTL <= 0 {
		return fmt.Errorf("redis.session_ttl must be positive")
	}
	if c.Auth.HostTokenTTL <= 0 || c.Auth.RespondentTokenTTL <= 0 {
		return fmt.Errorf("auth token ttls must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: console, json")
	}

	return nil
}

// ValidateServe adds the checks that only matter when running the API.
func (c *Config) ValidateServe() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required to serve")
	}
	if c.Auth.HostPassword == "" {
		return fmt.Errorf("auth.host_password is required to serve")
	}
	return nil
}

// GetLogLevel returns the zerolog level based on config
func (c *Config) GetLogLevel() zerolog.Level {
	switch c.Logging.Level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// IsJSONFormat returns true if logging format is JSON
func (c *Config) IsJSONFormat() bool {
	return c.Logging.Format == "json"
}
