package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	var envErr error
	if !c.Environment.IsValid() {
		envErr = fmt.Errorf("environment must be one of: development, staging, production; got %q", c.Environment)
	}

	return errors.Join(
		envErr,
		c.Server.validate(),
		c.Log.validate(),
		c.Mongo.validate(),
		c.RateLimit.validate(),
		c.Mail.validate(),
		c.Webhook.validate(),
		c.Telemetry.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: TRACE, DEBUG, INFO, WARN, ERROR, FATAL; got %q", l.Level))
	}

	switch l.Format {
	case "json", "pretty":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, pretty; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (m *MongoConfig) validate() error {
	var errs []error

	if m.URI == "" {
		errs = append(errs, errors.New("mongo.uri must not be empty"))
	}
	if m.Database == "" {
		errs = append(errs, errors.New("mongo.database must not be empty"))
	}
	if m.ConnectTimeout <= 0 {
		errs = append(errs, errors.New("mongo.connect_timeout must be positive"))
	}
	if m.MinPoolSize > m.MaxPoolSize {
		errs = append(errs, fmt.Errorf("mongo.min_pool_size (%d) must not exceed mongo.max_pool_size (%d)",
			m.MinPoolSize, m.MaxPoolSize))
	}
	errs = append(errs, m.Retry.validate("mongo.retry"))

	return errors.Join(errs...)
}

func (r *RetryConfig) validate(prefix string) error {
	var errs []error

	if r.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("%s.max_attempts must be >= 1, got %d", prefix, r.MaxAttempts))
	}
	if r.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("%s.multiplier must be positive, got %f", prefix, r.Multiplier))
	}

	return errors.Join(errs...)
}

func (rl *RateLimitConfig) validate() error {
	if !rl.Enabled {
		return nil
	}

	return errors.Join(
		rl.Auth.validate("ratelimit.auth"),
		rl.Register.validate("ratelimit.register"),
		rl.Default.validate("ratelimit.default"),
	)
}

func (p *RateLimitProfile) validate(prefix string) error {
	var errs []error

	if p.Limit < 1 {
		errs = append(errs, fmt.Errorf("%s.limit must be >= 1, got %d", prefix, p.Limit))
	}
	if p.Window <= 0 {
		errs = append(errs, fmt.Errorf("%s.window must be positive", prefix))
	}

	return errors.Join(errs...)
}

func (m *MailConfig) validate() error {
	if !m.Enabled {
		return nil
	}

	var errs []error

	if m.Host == "" {
		errs = append(errs, errors.New("mail.host must not be empty"))
	}
	if m.Port < 1 || m.Port > 65535 {
		errs = append(errs, fmt.Errorf("mail.port must be between 1 and 65535, got %d", m.Port))
	}
	if m.From == "" {
		errs = append(errs, errors.New("mail.from must not be empty"))
	}

	return errors.Join(errs...)
}

func (w *WebhookConfig) validate() error {
	if !w.Enabled {
		return nil
	}

	var errs []error

	if w.Client.BaseURL == "" {
		errs = append(errs, errors.New("webhook.client.base_url must not be empty"))
	}
	if w.Client.Timeout <= 0 {
		errs = append(errs, errors.New("webhook.client.timeout must be positive"))
	}
	if w.Client.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("webhook.client.circuit_breaker.max_failures must be >= 1, got %d",
			w.Client.CircuitBreaker.MaxFailures))
	}
	errs = append(errs, w.Client.Retry.validate("webhook.client.retry"))

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}
