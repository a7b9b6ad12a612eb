package corpus

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const corpusSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["verbs"],
  "properties": {
    "metadata": {"type": "object"},
    "verbs": {
      "type": "object",
      "additionalProperties": {"$ref": "#/definitions/verb"}
    }
  },
  "definitions": {
    "verb": {
      "type": "object",
      "properties": {
        "metadata": {"type": "object"}
      },
      "additionalProperties": {
        "type": "array",
        "items": {"$ref": "#/definitions/sentence"}
      }
    },
    "sentence": {
      "type": "object",
      "required": ["spanish", "english", "subject"],
      "properties": {
        "spanish": {"type": "string", "minLength": 1},
        "english": {"type": "string", "minLength": 1},
        "subject": {"type": "string", "minLength": 1},
        "region": {"type": "string"},
        "audio": {"type": "string", "pattern": "\\.mp3$"},
        "tags": {
          "type": "array",
          "items": {"type": "string", "pattern": "^[^:\\s]+:[^\\s]+$"}
        }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// Issue is one schema violation
type Issue struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// Validate checks corpus JSON against the corpus schema
func Validate(data []byte) ([]Issue, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(corpusSchema))
	})
	if schemaErr != nil {
		return nil, fmt.Errorf("failed to compile corpus schema: %w", schemaErr)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to validate corpus: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	issues := make([]Issue, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		issues = append(issues, Issue{Field: e.Field(), Description: e.Description()})
	}
	return issues, nil
}
