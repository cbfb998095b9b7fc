package config

import "fmt"

// Resolve merges the three canonical layers. On key conflicts the CLI layer wins
// over the tool layer, which wins over the default layer.
func Resolve(defaultLayer, toolLayer, cliLayer Layer) (*Resolved, error) {
	return ResolveLayers(defaultLayer, toolLayer, cliLayer)
}

// ResolveLayers merges layers given in ascending precedence and validates the result.
// Resolution is all-or-nothing: on failure no Resolved is returned.
func ResolveLayers(layers ...Layer) (*Resolved, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("resolve config: no layers given")
	}

	values := make(map[string]any)
	sources := make(map[string]Source)
	for _, layer := range layers {
		for _, key := range layer.Keys() {
			v, _ := layer.Get(key)
			values[key] = v
			sources[key] = layer.Source()
		}
	}

	resolved, err := validate(values, sources)
	if err != nil {
		return nil, err
	}
	return resolved, nil
}
