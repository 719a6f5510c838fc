// Package config provides configuration management for the Clever Tips application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Stats    StatsConfig    `mapstructure:"stats" validate:"required"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Dedup    DedupConfig    `mapstructure:"dedup" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// EngineConfig selects and tunes the prediction strategy
type EngineConfig struct {
	Strategy  string   `mapstructure:"strategy" validate:"omitempty,strategy"`
	BigClubs  []string `mapstructure:"big_clubs"`
	Diversify bool     `mapstructure:"diversify"`
}

// StatsConfig represents the fixtures and form statistics provider
type StatsConfig struct {
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	APIKey            string  `mapstructure:"api_key"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit         float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CircuitBreakerMax int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
	CacheTTLSeconds   int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// TelegramConfig represents the Telegram channel publisher
type TelegramConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Token              string `mapstructure:"token"`
	ChatID             int64  `mapstructure:"chat_id"`
	SendIntervalMillis int    `mapstructure:"send_interval_millis" validate:"gte=0"`
	Digest             bool   `mapstructure:"digest"`
}

// DedupConfig selects where published prediction keys are remembered
type DedupConfig struct {
	Backend  string `mapstructure:"backend" validate:"required,dedupbackend"`
	TTLHours int    `mapstructure:"ttl_hours" validate:"required,gt=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// RedisConfig represents the Redis connection
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// ScheduleConfig represents the daily prediction run schedule
type ScheduleConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	Cron              string `mapstructure:"cron" validate:"omitempty,cronspec"`
	Timezone          string `mapstructure:"timezone"`
	LookAheadDays     int    `mapstructure:"look_ahead_days" validate:"gte=0,lte=7"`
	RunTimeoutMinutes int    `mapstructure:"run_timeout_minutes" validate:"gte=0"`
}

// ServerConfig represents the HTTP and gRPC listeners
type ServerConfig struct {
	HTTPPort    int    `mapstructure:"http_port" validate:"required,min=1,max=65535"`
	GRPCPort    int    `mapstructure:"grpc_port" validate:"gte=0,max=65535"`
	MetricsPath string `mapstructure:"metrics_path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// StatsTimeout returns the provider request timeout
func (c *Config) StatsTimeout() time.Duration {
	return time.Duration(c.Stats.TimeoutSeconds) * time.Second
}

// FormCacheTTL returns how long team form is cached
func (c *Config) FormCacheTTL() time.Duration {
	return time.Duration(c.Stats.CacheTTLSeconds) * time.Second
}

// DedupTTL returns how long a published key is remembered
func (c *Config) DedupTTL() time.Duration {
	return time.Duration(c.Dedup.TTLHours) * time.Hour
}

// TelegramSendInterval returns the minimum gap between two Telegram messages
func (c *Config) TelegramSendInterval() time.Duration {
	return time.Duration(c.Telegram.SendIntervalMillis) * time.Millisecond
}

// RunTimeout returns the deadline for one scheduled run
func (c *Config) RunTimeout() time.Duration {
	if c.Schedule.RunTimeoutMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Schedule.RunTimeoutMinutes) * time.Minute
}

// Location returns the schedule time zone, UTC when unset or unknown
func (c *Config) Location() *time.Location {
	if c.Schedule.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
