package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hashicorp/go-version"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.App.validate(),
		c.API.validate(),
		c.Server.validate(),
		c.Log.validate(),
		c.Client.validate(),
		c.Telemetry.validate(),
	)
}

func (a *AppConfig) validate() error {
	var errs []error

	if a.Name == "" {
		errs = append(errs, errors.New("app.name must not be empty"))
	}

	switch a.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// Valid environments.
	default:
		errs = append(errs, fmt.Errorf("app.environment must be one of: %s, %s, %s; got %q",
			EnvDevelopment, EnvStaging, EnvProduction, a.Environment))
	}

	return errors.Join(errs...)
}

func (a *APIConfig) validate() error {
	var errs []error

	def, err := version.NewVersion(a.DefaultVersion)
	if err != nil {
		errs = append(errs, fmt.Errorf("api.default_version %q is not a valid version: %w", a.DefaultVersion, err))
	}

	if len(a.SupportedVersions) == 0 {
		errs = append(errs, errors.New("api.supported_versions must not be empty"))
	}

	served := make([]*version.Version, 0, len(a.SupportedVersions)+len(a.DeprecatedVersions))
	for _, raw := range slices.Concat(a.SupportedVersions, a.DeprecatedVersions) {
		v, err := version.NewVersion(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("api version %q is not a valid version: %w", raw, err))
			continue
		}
		served = append(served, v)
	}

	if def != nil && len(served) > 0 && !slices.ContainsFunc(served, def.Equal) {
		errs = append(errs, fmt.Errorf("api.default_version %s must be a supported or deprecated version", def))
	}

	return errors.Join(errs...)
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
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (cl *ClientConfig) validate() error {
	var errs []error

	if cl.BaseURL == "" {
		errs = append(errs, errors.New("client.base_url must not be empty"))
	}
	if cl.Timeout <= 0 {
		errs = append(errs, errors.New("client.timeout must be positive"))
	}
	if cl.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("client.retry.max_attempts must be >= 1, got %d", cl.Retry.MaxAttempts))
	}
	if cl.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("client.retry.multiplier must be positive, got %f", cl.Retry.Multiplier))
	}
	if cl.NoncePath == "" {
		errs = append(errs, errors.New("client.nonce_path must not be empty"))
	}
	if cl.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("client.rate_limit.requests_per_second must not be negative, got %f",
			cl.RateLimit.RequestsPerSecond))
	}
	if cl.RateLimit.RequestsPerSecond > 0 && cl.RateLimit.BurstSize < 1 {
		errs = append(errs, fmt.Errorf("client.rate_limit.burst_size must be >= 1 when limiting, got %d",
			cl.RateLimit.BurstSize))
	}
	if cl.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("client.circuit_breaker.max_failures must be >= 1, got %d",
			cl.CircuitBreaker.MaxFailures))
	}

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
