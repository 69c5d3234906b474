package app

import (
	"errors"
	"fmt"
	"strings"
)

// Output formats of reports.
const (
	OutputText = "text"
	OutputYAML = "yaml"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Paths []string // hcl and yaml document files or directories

	// Project, Line and Flow select the documents bound to the validator.
	// Empty names pick the first declared entry.
	Project string
	Line    string
	Flow    string
	// All checks every project, line and flow combination instead of the
	// selected one.
	All bool

	Output    string
	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one document path is required")
	}

	cfg.Output = strings.ToLower(cfg.Output)
	switch cfg.Output {
	case "":
		cfg.Output = OutputText
	case OutputText, OutputYAML:
	default:
		return nil, fmt.Errorf("invalid output %q: must be 'text' or 'yaml'", cfg.Output)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "warn"
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	if cfg.All && (cfg.Line != "" || cfg.Flow != "") {
		return nil, errors.New("--all cannot be combined with --line or --flow")
	}
	return &cfg, nil
}
