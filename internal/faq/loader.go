// internal/faq/loader.go
package faq

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// entriesSchema guards operator-provided knowledge files. A malformed file
// should fail startup loudly, not surface as a broken answer mid-call.
const entriesSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["intent", "triggers", "answer"],
		"properties": {
			"intent": {"type": "string", "minLength": 1},
			"triggers": {
				"type": "array",
				"minItems": 1,
				"items": {"type": "string", "minLength": 1}
			},
			"answer": {"type": "string", "minLength": 1},
			"include_trust_snippet": {"type": "boolean"}
		},
		"additionalProperties": false
	}
}`

// LoadFile reads a JSON knowledge file and validates it against the entries
// schema before unmarshalling.
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(entriesSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("validate knowledge file: %w", err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, fmt.Errorf("knowledge file %s is invalid: %s", path, strings.Join(details, "; "))
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode knowledge file: %w", err)
	}
	return entries, nil
}
