package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvServerURL  = "CAMPLOAD_SERVER_URL"
	EnvAccountID  = "CAMPLOAD_ACCOUNT_ID"
	EnvJMeterHome = "CAMPLOAD_JMETER_HOME"
	EnvLogLevel   = "CAMPLOAD_LOG_LEVEL"
)

// DefaultFiles are tried in order when no configuration path is given.
var DefaultFiles = []string{"campload.yaml", "campload.yml", "campload.json", "config.properties"}

// LoadConfig loads, defaults and validates a configuration file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
//   - .properties -> legacy key=value file (campspotServer, accountId, jmeter_home)
//
// ${VAR} references in the file are expanded from the environment before
// parsing, and CAMPLOAD_* variables override the parsed values.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := ParseConfig([]byte(os.ExpandEnv(string(data))), path)
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

// Resolve loads the configuration at path, or when path is empty the first of
// DefaultFiles found in dir. With no file at all the defaults are used.
func Resolve(path, dir string) (*Config, string, error) {
	if path != "" {
		cfg, err := LoadConfig(path)
		return cfg, path, err
	}

	for _, name := range DefaultFiles {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			cfg, err := LoadConfig(candidate)
			return cfg, candidate, err
		}
	}

	cfg, err := finish(&Config{})
	return cfg, "", err
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnv(os.LookupEnv)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConfig parses configuration data. The format is chosen from the
// extension of path and defaults to YAML.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".properties":
		if err := parseProperties(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse properties config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config (unknown format %s): %w", ext, err)
		}
	}

	return &cfg, nil
}

// parseProperties reads the Java properties file the desktop tool used.
// Escapes and line continuations follow java.util.Properties; ${...} is left
// alone because the environment has already been expanded.
func parseProperties(data []byte, cfg *Config) error {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadBytes(data)
	if err != nil {
		return err
	}

	for _, key := range []string{"campspotServer", "server.baseUrl"} {
		if v, ok := props.Get(key); ok {
			cfg.Server.BaseURL = strings.TrimSpace(v)
		}
	}
	for _, key := range []string{"accountId", "server.accountId"} {
		if v, ok := props.Get(key); ok {
			cfg.Server.AccountID = strings.TrimSpace(v)
		}
	}
	for _, key := range []string{"jmeter_home", "jmeter.home"} {
		if v, ok := props.Get(key); ok {
			cfg.JMeter.Home = strings.TrimSpace(v)
		}
	}
	if v, ok := props.Get("server.timeout"); ok {
		d, err := parseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("server.timeout: %w", err)
		}
		cfg.Server.Timeout = Duration(d)
	}
	return nil
}

// ApplyEnv overrides settings from CAMPLOAD_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvServerURL); ok && v != "" {
		c.Server.BaseURL = v
	}
	if v, ok := lookup(EnvAccountID); ok && v != "" {
		c.Server.AccountID = v
	}
	if v, ok := lookup(EnvJMeterHome); ok && v != "" {
		c.JMeter.Home = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
}

// parseDuration accepts Go durations ("30s", "1m") and bare integers as seconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	var seconds int
	if _, err := fmt.Sscanf(s, "%d", &seconds); err == nil && fmt.Sprint(seconds) == s {
		return time.Duration(seconds) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid duration %q", s)
}
