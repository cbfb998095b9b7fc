package config

import "os"

// envOverrides maps environment variables to configuration keys.
var envOverrides = []struct {
	envVar string
	key    string
}{
	{envVar: "FOLDPLAN_DATA_DIR", key: KeyDataDir},
	{envVar: "FOLDPLAN_OUTPUT_DIR", key: KeyOutputDir},
	{envVar: "FOLDPLAN_ALPHAFOLD_SCRIPT", key: KeyAlphaFoldScript},
	{envVar: "FOLDPLAN_LOG_LEVEL", key: KeyLogLevel},
}

// EnvLayer builds a layer from the process environment
func EnvLayer() Layer {
	return EnvLayerFrom(os.Getenv)
}

// EnvLayerFrom builds a layer using the given lookup; empty values are ignored
func EnvLayerFrom(getenv func(string) string) Layer {
	values := make(map[string]any)
	for _, override := range envOverrides {
		if val := getenv(override.envVar); val != "" {
			values[override.key] = val
		}
	}
	return NewLayer(SourceEnv, values)
}
