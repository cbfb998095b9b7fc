package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sourceplane/foldplan/internal/config"
	"github.com/sourceplane/foldplan/internal/model"
	"github.com/sourceplane/foldplan/internal/schema"
)

// LoadConfigFile reads a JSON (or YAML) configuration file, validates its shape
// and returns it as the file layer
func LoadConfigFile(path string) (config.Layer, error) {
	_, doc, err := readDocument(path)
	if err != nil {
		return config.Layer{}, fmt.Errorf("failed to load config file: %w", err)
	}

	v, err := schema.Default()
	if err != nil {
		return config.Layer{}, err
	}
	if err := v.ValidateConfig(doc); err != nil {
		return config.Layer{}, &config.ValidationError{Field: "file", Value: path, Message: err.Error()}
	}

	layer, err := config.FromNested(config.SourceFile, doc)
	if err != nil {
		return config.Layer{}, &config.ValidationError{Field: "file", Value: path, Message: err.Error()}
	}
	return layer, nil
}

// LoadManifest reads a YAML or JSON batch manifest
func LoadManifest(path string) (*model.Manifest, error) {
	data, doc, err := readDocument(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	v, err := schema.Default()
	if err != nil {
		return nil, err
	}
	if err := v.ValidateManifest(doc); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}

	// JSON is valid YAML, so the validated bytes decode the same way for both
	var manifest model.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	// relative inputs are resolved against the manifest's directory
	base := filepath.Dir(path)
	for i := range manifest.Entries {
		in := manifest.Entries[i].Input
		if !filepath.IsAbs(in) {
			manifest.Entries[i].Input = filepath.Join(base, in)
		}
	}
	if manifest.Name == "" {
		manifest.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return &manifest, nil
}

// readDocument reads a file once and decodes it into generic values, returning
// the raw bytes alongside. JSON files keep exact numbers; .yaml/.yml files go through yaml.v3.
func readDocument(path string) ([]byte, map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var doc map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, nil, fmt.Errorf("failed to parse JSON %s: %w", path, err)
		}
	}

	if doc == nil {
		doc = map[string]any{}
	}
	return data, doc, nil
}
