package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Netflix/go-env"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds configuration for the pcontainer daemon.
type ServerConfig struct {
	Addr          string `yaml:"addr" env:"PC_ADDR"`                     // Listen address (default ":8080")
	LogLevel      string `yaml:"log_level" env:"PC_LOG_LEVEL"`           // Log level: debug, info, warn, error
	LogFormat     string `yaml:"log_format" env:"PC_LOG_FORMAT"`         // Log format: text, json
	JournalPath   string `yaml:"journal_path" env:"PC_JOURNAL_PATH"`     // SQLite journal path (default ":memory:")
	MaxContainers int    `yaml:"max_containers" env:"PC_MAX_CONTAINERS"` // 0 means unlimited
	MaxMembers    int    `yaml:"max_members" env:"PC_MAX_MEMBERS"`       // Per container, 0 means unlimited
	TraceFile     string `yaml:"trace_file" env:"PC_TRACE_FILE"`         // Span output file; empty disables tracing
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:        ":8080",
		LogLevel:    "info",
		LogFormat:   "text",
		JournalPath: ":memory:",
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then PC_* variables from environ.
func Load(path string, environ []string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.LoadEnv(environ); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile overlays the fields present in a YAML file.
func (c *ServerConfig) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadEnv overlays the PC_* variables present in environ.
func (c *ServerConfig) LoadEnv(environ []string) error {
	es, err := env.EnvironToEnvSet(environ)
	if err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if err := env.Unmarshal(es, c); err != nil {
		return fmt.Errorf("load environment: %w", err)
	}
	return nil
}

// Validate reports every invalid field at once.
func (c ServerConfig) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format %q: must be text or json", c.LogFormat))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q: must be debug, info, warn or error", c.LogLevel))
	}
	if c.JournalPath == "" {
		errs = append(errs, errors.New("journal_path is required"))
	}
	if c.MaxContainers < 0 {
		errs = append(errs, fmt.Errorf("max_containers %d: must not be negative", c.MaxContainers))
	}
	if c.MaxMembers < 0 {
		errs = append(errs, fmt.Errorf("max_members %d: must not be negative", c.MaxMembers))
	}
	return errors.Join(errs...)
}
