// Package config provides configuration loading and validation for the portal
// API. Configuration is loaded from YAML files with environment variable
// overrides using a layered system: defaults -> base.yaml -> {profile}.yaml
// -> env vars.
package config

import "time"

// Environment identifies the deployment environment. It is injected into the
// logger and the response pipeline instead of being read from the process
// environment at call sites, so environment-gated behavior stays testable.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// IsProduction reports whether the environment gates production behavior
// (no pretty logs, no error details echoed to clients).
func (e Environment) IsProduction() bool {
	return e == EnvProduction
}

// IsValid returns true if the environment is one of the defined constants.
func (e Environment) IsValid() bool {
	switch e {
	case EnvDevelopment, EnvStaging, EnvProduction:
		return true
	default:
		return false
	}
}

// Config holds all configuration for the portal API.
type Config struct {
	Environment Environment     `koanf:"environment"`
	Server      ServerConfig    `koanf:"server"`
	Log         LogConfig       `koanf:"log"`
	Mongo       MongoConfig     `koanf:"mongo"`
	RateLimit   RateLimitConfig `koanf:"ratelimit"`
	Mail        MailConfig      `koanf:"mail"`
	Webhook     WebhookConfig   `koanf:"webhook"`
	Telemetry   TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// LogConfig holds structured logging settings. Level takes the canonical
// upper-case names (TRACE through FATAL); Format selects the renderer.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MongoConfig holds document store connection settings.
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	MaxPoolSize    uint64        `koanf:"max_pool_size"`
	MinPoolSize    uint64        `koanf:"min_pool_size"`
	Retry          RetryConfig   `koanf:"retry"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// RateLimitConfig holds inbound request throttling settings. Each profile
// bounds a class of routes: auth for login attempts, register for account
// creation, default for everything else.
type RateLimitConfig struct {
	Enabled  bool             `koanf:"enabled"`
	Auth     RateLimitProfile `koanf:"auth"`
	Register RateLimitProfile `koanf:"register"`
	Default  RateLimitProfile `koanf:"default"`
}

// RateLimitProfile bounds requests per client key to Limit per Window.
type RateLimitProfile struct {
	Limit  int           `koanf:"limit"`
	Window time.Duration `koanf:"window"`
}

// MailConfig holds SMTP settings for outbound notification mail.
type MailConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
	TLS      bool   `koanf:"tls"`
}

// WebhookConfig holds settings for the outbound webhook notifier.
type WebhookConfig struct {
	Enabled bool         `koanf:"enabled"`
	Client  ClientConfig `koanf:"client"`
}

// ClientConfig holds outbound HTTP client settings.
type ClientConfig struct {
	BaseURL        string               `koanf:"base_url"`
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      ClientRateLimit      `koanf:"rate_limit"`
}

// ClientRateLimit holds client-side token bucket settings. A zero
// RequestsPerSecond disables outbound rate limiting.
type ClientRateLimit struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
