package config

const (
	defaultServerPort = 8080

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"environment": string(EnvDevelopment),

		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
		"server.idle_timeout":  "120s",

		"log.level":  "INFO",
		"log.format": "json",

		"mongo.uri":                   "mongodb://localhost:27017",
		"mongo.database":              "porchestDB",
		"mongo.connect_timeout":       "10s",
		"mongo.max_pool_size":         10,
		"mongo.min_pool_size":         2,
		"mongo.retry.max_attempts":    4,
		"mongo.retry.initial_interval": "2s",
		"mongo.retry.max_interval":    "30s",
		"mongo.retry.multiplier":      defaultRetryMultiplier,

		"ratelimit.enabled":         true,
		"ratelimit.auth.limit":      5,
		"ratelimit.auth.window":     "1m",
		"ratelimit.register.limit":  3,
		"ratelimit.register.window": "1h",
		"ratelimit.default.limit":   100,
		"ratelimit.default.window":  "1m",

		"mail.enabled": false,
		"mail.host":    "localhost",
		"mail.port":    587,
		"mail.from":    "noreply@porchest.com",
		"mail.tls":     true,

		"webhook.enabled":                               false,
		"webhook.client.base_url":                       "http://localhost:8081",
		"webhook.client.timeout":                        "30s",
		"webhook.client.retry.max_attempts":             defaultRetryMaxAttempts,
		"webhook.client.retry.initial_interval":         "100ms",
		"webhook.client.retry.max_interval":             "10s",
		"webhook.client.retry.multiplier":               defaultRetryMultiplier,
		"webhook.client.circuit_breaker.max_failures":   defaultCircuitBreakerMaxFailures,
		"webhook.client.circuit_breaker.timeout":        "30s",
		"webhook.client.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"webhook.client.rate_limit.requests_per_second": 0,
		"webhook.client.rate_limit.burst_size":          0,

		"telemetry.enabled":  false,
		"telemetry.exporter": "stdout",
		"telemetry.endpoint": "",
	}
}
