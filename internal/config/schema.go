package config

import (
	"errors"
	"sync"

	"github.com/wesleyorama2/campload/pkg/jsonschema"
)

const schemaURL = "campload.schema.json"

// configSchema describes the shape of a configuration after defaults.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "server": {
      "type": "object",
      "properties": {
        "baseUrl": {"type": "string", "pattern": "^https?://[^\\s]+$"},
        "accountId": {"type": "string", "pattern": "^[^\\s&#?]+$"},
        "timeout": {"type": "string"}
      }
    },
    "jmeter": {
      "type": "object",
      "properties": {
        "home": {"type": "string"},
        "executable": {"type": "string", "minLength": 1}
      }
    },
    "fixture": {
      "type": "object",
      "properties": {
        "emailDomain": {"type": "string", "pattern": "^[A-Za-z0-9][A-Za-z0-9.-]*$"},
        "identityCycle": {"type": "integer"},
        "activeFile": {"type": "string", "pattern": "^[^/\\\\]+$"}
      }
    },
    "log": {
      "type": "object",
      "properties": {
        "level": {"enum": ["debug", "info", "warn", "warning", "error"]},
        "format": {"enum": ["text", "json"]}
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = jsonschema.Compile(schemaURL, configSchema)
	})
	return compiledSchema, compileErr
}

// validateSchema checks c against configSchema.
func validateSchema(c *Config) ValidationErrors {
	s, err := schema()
	if err != nil {
		return ValidationErrors{{Path: "config", Message: err.Error()}}
	}

	err = s.Validate(c)
	if err == nil {
		return nil
	}

	var fieldErrs jsonschema.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Path: "config", Message: err.Error()}}
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := fe.Path
		if path == "" {
			path = "config"
		}
		out = append(out, ValidationError{Path: path, Message: fe.Message})
	}
	return out
}
