package bank

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// bankFile is the JSON layout of a question bank file.
type bankFile struct {
	Categories []bankCategory `json:"categories"`
}

type bankCategory struct {
	ID        string         `json:"id"`
	Group     string         `json:"group,omitempty"`
	Questions []bankQuestion `json:"questions"`
}

type bankQuestion struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"prompt"`
	Answer      string   `json:"answer"`
	Choices     []string `json:"choices,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Shortcut    string   `json:"shortcut,omitempty"`
}

// bankSchema constrains imported bank files before any row is written.
const bankSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["categories"],
	"properties": {
		"categories": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["id", "questions"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"group": {"type": "string"},
					"questions": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["id", "prompt", "answer"],
							"properties": {
								"id": {"type": "string", "minLength": 1},
								"prompt": {"type": "string", "minLength": 1},
								"answer": {"type": "string", "minLength": 1},
								"choices": {
									"type": "array",
									"items": {"type": "string", "minLength": 1},
									"minItems": 2
								},
								"explanation": {"type": "string"},
								"shortcut": {"type": "string"}
							}
						}
					}
				}
			}
		}
	}
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// getSchema compiles the bank schema once per process.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(bankSchema), &def); err != nil {
			compileErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://gogov-bank.json"
		if err := c.AddResource(url, def); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(url)
	})
	return compiledSchema, compileErr
}

// parseBankFile validates raw JSON against the bank schema and decodes
// it.
func parseBankFile(raw []byte) (*bankFile, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid bank JSON: %w", err)
	}

	schema, err := getSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("bank schema validation failed: %w", err)
	}

	var file bankFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode bank file: %w", err)
	}
	return &file, nil
}
