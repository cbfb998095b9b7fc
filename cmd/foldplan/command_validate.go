package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sourceplane/foldplan/internal/config"
)

var validateMode string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Resolve and validate configuration, showing where each value came from",
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateConfig(cmd)
	},
}

func registerValidateCommand(root *cobra.Command) {
	root.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateMode, "mode", string(config.ModeBatch), "Prediction mode to resolve for (monomer, multimer, batch)")
}

func validateConfig(cmd *cobra.Command) error {
	mode := config.PredictionMode(validateMode)
	switch mode {
	case config.ModeMonomer, config.ModeMultimer, config.ModeBatch:
	default:
		return fmt.Errorf("unknown mode %q", validateMode)
	}

	fmt.Println("□ Resolving configuration...")
	cfg, err := resolveConfig(cmd, mode, nil)
	if err != nil {
		return err
	}

	for _, key := range cfg.Keys() {
		v, _ := cfg.Get(key)
		if v == nil {
			v = "null"
		}
		fmt.Printf("  %-36s %-24v [%s]\n", key, v, cfg.Source(key))
	}
	fmt.Printf("✓ Configuration is valid (%s mode)\n", cfg.Mode)
	return nil
}
