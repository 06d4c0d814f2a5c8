// Package config loads buildplan settings from defaults, an optional YAML file
// and BUILDPLAN_ environment variables, in that order of precedence.
package config

import "time"

// Config holds all settings for the CLI and HTTP endpoint.
type Config struct {
	Log       LogConfig       `koanf:"log"`
	Resolver  ResolverConfig  `koanf:"resolver"`
	Flutter   FlutterConfig   `koanf:"flutter"`
	Signature SignatureConfig `koanf:"signature"`
	Audit     AuditConfig     `koanf:"audit"`
	Monitor   MonitorConfig   `koanf:"monitor"`
	Server    ServerConfig    `koanf:"server"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ResolverConfig holds manifest, catalog and plugin ordering settings.
type ResolverConfig struct {
	PluginOrder   string `koanf:"plugin_order"`
	PluginCatalog string `koanf:"plugin_catalog"`
	BomDir        string `koanf:"bom_dir"`
	ManifestDir   string `koanf:"manifest_dir"`
	Lockfile      string `koanf:"lockfile"`
}

// FlutterConfig holds the values exposed as flutter.* in HCL manifests.
type FlutterConfig struct {
	MinSdk      int    `koanf:"min_sdk"`
	TargetSdk   int    `koanf:"target_sdk"`
	CompileSdk  int    `koanf:"compile_sdk"`
	NdkVersion  string `koanf:"ndk_version"`
	VersionCode int    `koanf:"version_code"`
	VersionName string `koanf:"version_name"`
}

// SignatureConfig holds manifest signature settings.
type SignatureConfig struct {
	Keyring string `koanf:"keyring"`
	Require bool   `koanf:"require"`
}

// AuditConfig holds OSV client and circuit breaker settings.
type AuditConfig struct {
	OSVURL         string        `koanf:"osv_url"`
	Timeout        time.Duration `koanf:"timeout"`
	MaxFailures    int           `koanf:"max_failures"`
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
	FailOn         string        `koanf:"fail_on"`
}

// MonitorConfig holds Maven repository settings for update checks.
type MonitorConfig struct {
	Repositories []string      `koanf:"repositories"`
	Timeout      time.Duration `koanf:"timeout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}
