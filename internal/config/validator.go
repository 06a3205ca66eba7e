package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is every problem found in one configuration.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return "invalid configuration: " + e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("invalid configuration (%d errors):", len(e)))
	for _, err := range e {
		sb.WriteString("\n  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Validate checks the configuration against its schema and the rules the
// schema cannot express. It returns ValidationErrors or nil.
func (c *Config) Validate() error {
	errors := validateSchema(c)

	if c.Server.Timeout < 0 {
		errors = append(errors, ValidationError{Path: "server.timeout", Message: "timeout cannot be negative"})
	}
	if c.Fixture.IdentityCycle < 0 {
		errors = append(errors, ValidationError{Path: "fixture.identityCycle", Message: "identity cycle cannot be negative"})
	}
	if c.Server.BaseURL != "" && strings.HasSuffix(c.Server.BaseURL, "/") {
		errors = append(errors, ValidationError{Path: "server.baseUrl", Message: "baseUrl must not end with a slash"})
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

// RequireRemote reports the settings remote runs and listings need.
func (c *Config) RequireRemote() error {
	var errors ValidationErrors
	if c.Server.BaseURL == "" {
		errors = append(errors, ValidationError{Path: "server.baseUrl", Message: "baseUrl is required for remote tests"})
	}
	if c.Server.AccountID == "" {
		errors = append(errors, ValidationError{Path: "server.accountId", Message: "accountId is required for remote tests"})
	}
	if len(errors) > 0 {
		return errors
	}
	return nil
}

// RequireLocal reports the settings local runs need.
func (c *Config) RequireLocal() error {
	if c.JMeter.Home == "" {
		return ValidationErrors{{Path: "jmeter.home", Message: "jmeter home is required for local tests"}}
	}
	return nil
}
