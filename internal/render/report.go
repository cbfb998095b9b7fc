package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sourceplane/foldplan/internal/model"
)

// Renderer serializes batch reports
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON renders a value as indented JSON
func (r *Renderer) RenderJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// RenderYAML renders a value as YAML
func (r *Renderer) RenderYAML(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// WriteReport writes the report to file (JSON or YAML based on extension)
func (r *Renderer) WriteReport(report *model.BatchReport, path string) error {
	return r.writeFile(report, path)
}

func (r *Renderer) writeFile(v any, path string) error {
	var data []byte
	var err error

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = r.RenderYAML(v)
	default:
		data, err = r.RenderJSON(v)
	}
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}
