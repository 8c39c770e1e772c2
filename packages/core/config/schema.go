package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// configSchema is the JSON schema for codex.yaml, used by `codex validate`.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["test_tiers", "combinations"],
  "properties": {
    "runner": {
      "type": "object",
      "properties": {
        "command": {"type": "array", "items": {"type": "string"}, "minItems": 1},
        "source_dir": {"type": "string"}
      },
      "additionalProperties": false
    },
    "test_tiers": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "object",
        "required": ["discovery"],
        "properties": {
          "depends_on": {"type": "array", "items": {"type": "string"}},
          "discovery": {
            "type": "object",
            "required": ["paths"],
            "properties": {
              "paths": {"type": "array", "items": {"type": "string"}, "minItems": 1},
              "markers_any": {"type": "array", "items": {"type": "string"}}
            },
            "additionalProperties": false
          },
          "default_enabled": {"type": "boolean"},
          "critical": {"type": "boolean"}
        },
        "additionalProperties": false
      }
    },
    "combinations": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "object",
        "required": ["tiers"],
        "properties": {
          "tiers": {"type": "array", "items": {"type": "string"}, "minItems": 1}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

// ValidateSchema checks raw config bytes against the config schema.
// The document is parsed as YAML and re-encoded as JSON before
// validation, so both formats are accepted.
func ValidateSchema(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding config for validation: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(jsonDoc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if !result.Valid() {
		var issues []string
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return fmt.Errorf("config does not match schema:\n  %s", strings.Join(issues, "\n  "))
	}

	return nil
}

// ValidateFile runs schema and cross-reference validation on a config file.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("missing config file at %s", path)
		}
		return fmt.Errorf("reading config: %w", err)
	}

	if err := ValidateSchema(data); err != nil {
		return err
	}

	cfg, err := Load(path)
	if err != nil {
		return err
	}
	return cfg.Validate()
}
