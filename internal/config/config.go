// Package config loads the probe's configuration by layering compiled-in
// defaults, an optional YAML file, environment variables, and command-line
// flags through a single viper.Viper instance (§4.8).
package config

import (
	"fmt"
	"regexp"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Defaults mirrors the teacher's convention of compiled-in fallbacks
// layered under everything else.
const (
	DefaultLogLevel        = "WARN"
	DefaultLogDest         = "STDERR"
	DefaultFingerprintSize = 256 // N, §9
)

// Config is the fully resolved, validated configuration for one probe
// invocation (spec.md §3).
type Config struct {
	LogFilename     string
	LogPrefix       string
	CachedPath      string
	WarningPattern  string
	CriticalPattern string
	OKPattern       string
	RotationPattern string

	LogLevel string
	LogDest  string

	// Compiled regexes, populated by Validate.
	Warning  *regexp.Regexp
	Critical *regexp.Regexp
	OK       *regexp.Regexp
	Rotation *regexp.Regexp
}

// PatternCompileError wraps a regex field name and the underlying compile
// error (§7).
type PatternCompileError struct {
	Field string
	Err   error
}

func (e *PatternCompileError) Error() string {
	return fmt.Sprintf("config: invalid %s: %v", e.Field, e.Err)
}

func (e *PatternCompileError) Unwrap() error { return e.Err }

// Load builds a viper instance layered defaults < config file < environment
// < flags, and unmarshals it into a Config. flags is typically
// cmd.Flags() from the cobra command; it is bound last so that explicit
// CLI arguments always win (§4.8, §4.9).
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_dest", DefaultLogDest)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix("LOGMONITOR")
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("config: bind flags: %w", err)
		}
	}

	cfg := &Config{
		LogFilename:     v.GetString("log_filename"),
		LogPrefix:       v.GetString("log_prefix"),
		CachedPath:      v.GetString("cached_path"),
		WarningPattern:  v.GetString("warning_pattern"),
		CriticalPattern: v.GetString("critical_pattern"),
		OKPattern:       v.GetString("ok_pattern"),
		RotationPattern: v.GetString("rotation_pattern"),
		LogLevel:        v.GetString("log_level"),
		LogDest:         v.GetString("log_dest"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate compiles every regex field and checks the required fields named
// in §6 (cached_path, rotation_pattern). An unset warning_pattern,
// critical_pattern, or ok_pattern is left as a nil *regexp.Regexp, which
// severity.FromRegexp turns into a Criterion that never matches (§3);
// rotation_pattern alone is required and always compiled.
func (c *Config) Validate() error {
	if c.CachedPath == "" {
		return fmt.Errorf("config: cached_path is required")
	}
	if c.RotationPattern == "" {
		return fmt.Errorf("config: rotation_pattern is required")
	}

	var err error
	if c.Rotation, err = regexp.Compile(c.RotationPattern); err != nil {
		return &PatternCompileError{Field: "rotation_pattern", Err: err}
	}
	if c.WarningPattern != "" {
		if c.Warning, err = regexp.Compile(c.WarningPattern); err != nil {
			return &PatternCompileError{Field: "warning_pattern", Err: err}
		}
	}
	if c.CriticalPattern != "" {
		if c.Critical, err = regexp.Compile(c.CriticalPattern); err != nil {
			return &PatternCompileError{Field: "critical_pattern", Err: err}
		}
	}
	if c.OKPattern != "" {
		if c.OK, err = regexp.Compile(c.OKPattern); err != nil {
			return &PatternCompileError{Field: "ok_pattern", Err: err}
		}
	}
	return nil
}

// HasOK reports whether an ok_pattern was configured (§4.6, §4.7).
func (c *Config) HasOK() bool { return c.OK != nil }
