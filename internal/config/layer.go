package config

import (
	"fmt"
	"sort"
)

// Source tags where a configuration value came from
type Source string

const (
	SourceDefault Source = "default"
	SourceTool    Source = "tool"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceCLI     Source = "cli"
)

// sampleSequencesKey holds a name -> residues map and is never flattened
const sampleSequencesKey = "sample_sequences"

// Layer is an immutable set of flattened configuration keys with a provenance tag.
// Keys are dotted paths such as "model.preset".
type Layer struct {
	source Source
	values map[string]any
}

// NewLayer copies flat key/value pairs into a new layer
func NewLayer(source Source, values map[string]any) Layer {
	copied := make(map[string]any, len(values))
	for k, v := range values {
		copied[k] = copyValue(v)
	}
	return Layer{source: source, values: copied}
}

// FromNested flattens a nested document (as decoded from JSON or YAML) into a layer.
// Objects become dotted keys, except sample_sequences which stays a single map value.
func FromNested(source Source, doc map[string]any) (Layer, error) {
	flat := make(map[string]any)
	if err := flatten("", doc, flat); err != nil {
		return Layer{}, err
	}
	return Layer{source: source, values: flat}, nil
}

func flatten(prefix string, doc map[string]any, out map[string]any) error {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		if key == sampleSequencesKey {
			seqs, err := toStringMap(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			out[key] = seqs
			continue
		}

		if nested, ok := asObject(v); ok {
			if err := flatten(key, nested, out); err != nil {
				return err
			}
			continue
		}
		out[key] = copyValue(v)
	}
	return nil
}

// Source returns the provenance tag of the layer
func (l Layer) Source() Source {
	return l.source
}

// Get returns the value stored under key
func (l Layer) Get(key string) (any, bool) {
	v, ok := l.values[key]
	return copyValue(v), ok
}

// Keys returns all keys in sorted order
func (l Layer) Keys() []string {
	keys := make([]string, 0, len(l.values))
	for k := range l.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys in the layer
func (l Layer) Len() int {
	return len(l.values)
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		converted := make(map[string]any, len(m))
		for k, val := range m {
			converted[fmt.Sprintf("%v", k)] = val
		}
		return converted, true
	}
	return nil, false
}

func toStringMap(v any) (map[string]string, error) {
	if v == nil {
		return nil, nil
	}
	if m, ok := v.(map[string]string); ok {
		out := make(map[string]string, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, nil
	}
	obj, ok := asObject(v)
	if !ok {
		return nil, fmt.Errorf("expected an object of name to sequence, got %T", v)
	}
	out := make(map[string]string, len(obj))
	for k, val := range obj {
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("sequence %q must be a string, got %T", k, val)
		}
		out[k] = s
	}
	return out, nil
}

func copyValue(v any) any {
	switch m := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out
	case []string:
		return append([]string(nil), m...)
	}
	return v
}
