// Package config loads the campload configuration file.
//
// Example YAML:
//
//	server:
//	  baseUrl: "https://loadtest.example.com"
//	  accountId: "42"
//	  timeout: 60s
//	jmeter:
//	  home: "/opt/apache-jmeter/bin"
//	fixture:
//	  emailDomain: "campspot.com"
package config

import (
	"strings"
	"time"
)

// Default values applied by Load.
const (
	DefaultTimeout         = 60 * time.Second
	DefaultTestsDir        = "Tests"
	DefaultDataDir         = "Data"
	DefaultResultsDir      = "Results"
	DefaultLogsDir         = "Logs"
	DefaultParksFile       = "parks.csv"
	DefaultCampsitesFile   = "all-campsites.csv"
	DefaultActiveFixture   = "campsites.csv"
	DefaultEmailDomain     = "campspot.com"
	DefaultIdentityCycle   = 1000
	DefaultListingJSONPath = "#.name"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server"`
	JMeter    JMeterConfig    `json:"jmeter" yaml:"jmeter"`
	Workspace WorkspaceConfig `json:"workspace" yaml:"workspace"`
	Reference ReferenceConfig `json:"reference" yaml:"reference"`
	Fixture   FixtureConfig   `json:"fixture" yaml:"fixture"`
	Remote    RemoteConfig    `json:"remote" yaml:"remote"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

// ServerConfig describes the remote test-runner service.
type ServerConfig struct {
	// BaseURL of the service, e.g. "https://loadtest.example.com"
	BaseURL string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`

	// AccountID is sent with every run and listing request
	AccountID string `json:"accountId,omitempty" yaml:"accountId,omitempty"`

	// Timeout applies to connect, write and read of each call
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// JMeterConfig locates the local JMeter installation.
type JMeterConfig struct {
	// Home is the directory containing the jmeter executable
	Home string `json:"home,omitempty" yaml:"home,omitempty"`

	// Executable name inside Home. Defaults to "jmeter".
	Executable string `json:"executable,omitempty" yaml:"executable,omitempty"`
}

// WorkspaceConfig names the working directories.
type WorkspaceConfig struct {
	Tests   string `json:"tests,omitempty" yaml:"tests,omitempty"`
	Data    string `json:"data,omitempty" yaml:"data,omitempty"`
	Results string `json:"results,omitempty" yaml:"results,omitempty"`
	Logs    string `json:"logs,omitempty" yaml:"logs,omitempty"`
}

// ReferenceConfig points at the parks and campsites tables.
type ReferenceConfig struct {
	Parks     string `json:"parks,omitempty" yaml:"parks,omitempty"`
	Campsites string `json:"campsites,omitempty" yaml:"campsites,omitempty"`
}

// FixtureConfig tunes fixture generation.
type FixtureConfig struct {
	EmailDomain   string `json:"emailDomain,omitempty" yaml:"emailDomain,omitempty"`
	IdentityCycle int    `json:"identityCycle,omitempty" yaml:"identityCycle,omitempty"`
	ActiveFile    string `json:"activeFile,omitempty" yaml:"activeFile,omitempty"`
}

// RemoteConfig tunes how remote responses are read.
type RemoteConfig struct {
	// ListingJSONPath is the gjson path of test names when the listing
	// endpoint answers with JSON instead of comma separated text
	ListingJSONPath string `json:"listingJsonPath,omitempty" yaml:"listingJsonPath,omitempty"`
}

// LogConfig configures the durable log.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// ApplyDefaults fills every unset field with its default.
func (c *Config) ApplyDefaults() {
	if c.Server.Timeout == 0 {
		c.Server.Timeout = Duration(DefaultTimeout)
	}
	if c.JMeter.Executable == "" {
		c.JMeter.Executable = "jmeter"
	}
	setDefault(&c.Workspace.Tests, DefaultTestsDir)
	setDefault(&c.Workspace.Data, DefaultDataDir)
	setDefault(&c.Workspace.Results, DefaultResultsDir)
	setDefault(&c.Workspace.Logs, DefaultLogsDir)
	setDefault(&c.Reference.Parks, DefaultParksFile)
	setDefault(&c.Reference.Campsites, DefaultCampsitesFile)
	setDefault(&c.Fixture.EmailDomain, DefaultEmailDomain)
	setDefault(&c.Fixture.ActiveFile, DefaultActiveFixture)
	if c.Fixture.IdentityCycle == 0 {
		c.Fixture.IdentityCycle = DefaultIdentityCycle
	}
	setDefault(&c.Remote.ListingJSONPath, DefaultListingJSONPath)
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
	setDefault(&c.Log.Level, "info")
	setDefault(&c.Log.Format, "text")
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// Duration is a time.Duration that can be unmarshaled from JSON/YAML strings.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*d = 0
		return nil
	}

	dur, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}

	dur, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
