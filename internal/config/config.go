// Package config handles configuration for the forensic analysis engine.
//
// The engine has almost no runtime knobs: detection thresholds are fixed
// design constants (see internal/forensics), not environment-tunable.
// What remains is read from the environment following the same
// twelve-factor style as the rest of this codebase, validated at startup
// so misconfiguration fails fast rather than surfacing as a bad analysis.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds engine-level configuration.
type Config struct {
	// LogLevel controls pkg/logger verbosity: debug, info, warn, error.
	// Env var: LOG_LEVEL (default: info)
	LogLevel string

	// EngineVersion is checked by Validate. It is not passed to the engine:
	// AnalysisResult metadata carries the build constant
	// analysis.EngineVersion.
	// Env var: ENGINE_VERSION (default: forensic-engine/1.0)
	EngineVersion string
}

// Load reads configuration from environment variables.
// Missing values get sensible defaults; Load never returns an error.
// Use Validate to check the result.
func Load() *Config {
	return &Config{
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		EngineVersion: getEnvOrDefault("ENGINE_VERSION", "forensic-engine/1.0"),
	}
}

// Validate checks that configuration values are well-formed.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid LOG_LEVEL: %q (must be debug, info, warn, or error)", c.LogLevel))
	}

	if strings.TrimSpace(c.EngineVersion) == "" {
		errs = append(errs, "ENGINE_VERSION must not be blank")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
