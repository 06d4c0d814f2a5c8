package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "BUILDPLAN_"

	// DefaultFile is read from the working directory when present
	DefaultFile = "buildplan.yaml"
)

// listKeys are split on commas when set from the environment
var listKeys = map[string]bool{
	"monitor.repositories": true,
}

// Load reads configuration using a 3-layer hierarchy (highest precedence last):
//
//  1. Built-in defaults
//  2. Settings file (path, or buildplan.yaml when path is empty and it exists)
//  3. Environment variables (BUILDPLAN_ prefix)
//
// Environment variable mapping uses key matching against known config keys
// to resolve ambiguity between nesting separators and field-internal underscores:
//
//	BUILDPLAN_LOG_LEVEL              -> log.level
//	BUILDPLAN_RESOLVER_PLUGIN_ORDER  -> resolver.plugin_order
//	BUILDPLAN_AUDIT_BREAKER_TIMEOUT  -> audit.breaker_timeout
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Defaults.
	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	// Layer 2: Settings file.
	settingsPath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if settingsPath != "" {
		if err := k.Load(file.Provider(settingsPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading settings %s: %w", settingsPath, err)
		}
	}

	// Layer 3: Environment variables with BUILDPLAN_ prefix.
	envLookup := buildEnvLookup(k.Keys())

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, envPrefix)
			key = strings.ToLower(key)

			koanfKey, ok := envLookup[key]
			if !ok {
				// Fallback: simple underscore-to-dot replacement.
				koanfKey = strings.ReplaceAll(key, "_", ".")
			}
			if listKeys[koanfKey] {
				return koanfKey, splitList(value)
			}
			return koanfKey, value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// resolvePath returns the settings file to load, or "" when none applies.
// An explicit path must exist.
func resolvePath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("settings file %s: %w", path, err)
		}
		return path, nil
	}

	if _, err := os.Stat(DefaultFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("settings file %s: %w", DefaultFile, err)
	}
	return DefaultFile, nil
}

// buildEnvLookup creates a reverse mapping from env-style keys to koanf dotted keys.
func buildEnvLookup(keys []string) map[string]string {
	lookup := make(map[string]string, len(keys))
	for _, key := range keys {
		envKey := strings.ReplaceAll(key, ".", "_")
		lookup[envKey] = key
	}
	return lookup
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
