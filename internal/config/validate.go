package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ochairo/buildplan/internal/domain/services"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Log.validate(),
		c.Resolver.validate(),
		c.Flutter.validate(),
		c.Audit.validate(),
		c.Monitor.validate(),
		c.Server.validate(),
	)
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

func (r *ResolverConfig) validate() error {
	switch r.PluginOrder {
	case "declaration", "topological":
		return nil
	default:
		return fmt.Errorf("resolver.plugin_order must be one of: declaration, topological; got %q", r.PluginOrder)
	}
}

func (f *FlutterConfig) validate() error {
	var errs []error

	if f.MinSdk < 1 {
		errs = append(errs, fmt.Errorf("flutter.min_sdk must be positive, got %d", f.MinSdk))
	}
	if f.TargetSdk < f.MinSdk {
		errs = append(errs, fmt.Errorf("flutter.target_sdk (%d) must not be below flutter.min_sdk (%d)", f.TargetSdk, f.MinSdk))
	}
	if f.CompileSdk < f.TargetSdk {
		errs = append(errs, fmt.Errorf("flutter.compile_sdk (%d) must not be below flutter.target_sdk (%d)", f.CompileSdk, f.TargetSdk))
	}
	if f.VersionCode < 1 {
		errs = append(errs, fmt.Errorf("flutter.version_code must be positive, got %d", f.VersionCode))
	}

	return errors.Join(errs...)
}

func (a *AuditConfig) validate() error {
	var errs []error

	if a.OSVURL == "" {
		errs = append(errs, errors.New("audit.osv_url must not be empty"))
	}
	if a.Timeout <= 0 {
		errs = append(errs, errors.New("audit.timeout must be positive"))
	}
	if a.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("audit.max_failures must be >= 1, got %d", a.MaxFailures))
	}
	if a.BreakerTimeout <= 0 {
		errs = append(errs, errors.New("audit.breaker_timeout must be positive"))
	}

	if a.FailOn != "" && !services.IsThresholdSeverity(a.FailOn) {
		errs = append(errs, fmt.Errorf("audit.fail_on must be one of: low, medium, high, critical; got %q", a.FailOn))
	}

	return errors.Join(errs...)
}

func (m *MonitorConfig) validate() error {
	var errs []error

	if len(m.Repositories) == 0 {
		errs = append(errs, errors.New("monitor.repositories must not be empty"))
	}
	for i, r := range m.Repositories {
		if !strings.HasPrefix(r, "https://") && !strings.HasPrefix(r, "http://") {
			errs = append(errs, fmt.Errorf("monitor.repositories[%d] must be an http(s) URL, got %q", i, r))
		}
	}
	if m.Timeout <= 0 {
		errs = append(errs, errors.New("monitor.timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}

	return errors.Join(errs...)
}
