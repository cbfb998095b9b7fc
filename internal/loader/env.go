package loader

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/sourceplane/foldplan/internal/config"
)

// LoadEnvLayer builds the env layer from the process environment. When path is
// set, variables missing from the environment are read from that dotenv file.
func LoadEnvLayer(path string) (config.Layer, error) {
	if path == "" {
		return config.EnvLayer(), nil
	}

	fileVals, err := godotenv.Read(path)
	if err != nil {
		return config.Layer{}, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return config.EnvLayerFrom(func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fileVals[key]
	}), nil
}
