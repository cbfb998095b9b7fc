package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.yaml
var schemaFS embed.FS

const (
	configSchemaURL   = "https://sourceplane.io/foldplan/config.schema.json"
	manifestSchemaURL = "https://sourceplane.io/foldplan/manifest.schema.json"
)

// Validator checks config files and manifests against the embedded schemas
type Validator struct {
	configSchema   *jsonschema.Schema
	manifestSchema *jsonschema.Schema
}

var (
	defaultValidator *Validator
	defaultErr       error
	defaultOnce      sync.Once
)

// Default returns the shared validator, compiling the schemas on first use
func Default() (*Validator, error) {
	defaultOnce.Do(func() {
		defaultValidator, defaultErr = NewValidator()
	})
	return defaultValidator, defaultErr
}

// NewValidator compiles the embedded schemas
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	if err := addResource(compiler, configSchemaURL, "schemas/config.schema.yaml"); err != nil {
		return nil, err
	}
	if err := addResource(compiler, manifestSchemaURL, "schemas/manifest.schema.yaml"); err != nil {
		return nil, err
	}

	v := &Validator{}
	var err error
	if v.configSchema, err = compiler.Compile(configSchemaURL); err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}
	if v.manifestSchema, err = compiler.Compile(manifestSchemaURL); err != nil {
		return nil, fmt.Errorf("failed to compile manifest schema: %w", err)
	}
	return v, nil
}

// ValidateConfig validates a decoded config document
func (v *Validator) ValidateConfig(doc any) error {
	return validate(v.configSchema, doc)
}

// ValidateManifest validates a decoded manifest document
func (v *Validator) ValidateManifest(doc any) error {
	return validate(v.manifestSchema, doc)
}

// validate normalizes YAML-decoded values into the JSON value model before checking
func validate(s *jsonschema.Schema, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var normalized any
	if err := dec.Decode(&normalized); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return s.Validate(normalized)
}

// addResource converts an embedded YAML schema to JSON and registers it
func addResource(c *jsonschema.Compiler, url, name string) error {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read schema %s: %w", name, err)
	}

	var schemaData any
	if err := yaml.Unmarshal(data, &schemaData); err != nil {
		return fmt.Errorf("failed to parse schema %s: %w", name, err)
	}
	jsonData, err := json.Marshal(schemaData)
	if err != nil {
		return fmt.Errorf("failed to marshal schema %s: %w", name, err)
	}

	if err := c.AddResource(url, bytes.NewReader(jsonData)); err != nil {
		return fmt.Errorf("failed to add schema %s: %w", name, err)
	}
	return nil
}
