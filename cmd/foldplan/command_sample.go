package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sourceplane/foldplan/internal/config"
	"github.com/sourceplane/foldplan/internal/model"
)

var (
	sampleInput string
	sampleKind  string
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write sample input data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeSample(cmd)
	},
}

func registerSampleCommand(root *cobra.Command) {
	root.AddCommand(sampleCmd)

	sampleCmd.Flags().StringVarP(&sampleInput, "input", "i", "", "Path to create (a directory for --kind batch)")
	sampleCmd.Flags().StringVarP(&sampleKind, "kind", "k", string(model.KindMonomer), "Sample kind (monomer, multimer, batch)")
	sampleCmd.MarkFlagRequired("input")
}

func writeSample(cmd *cobra.Command) error {
	kind := model.JobKind(sampleKind)
	var mode config.PredictionMode
	switch kind {
	case model.KindMonomer:
		mode = config.ModeMonomer
	case model.KindMultimer:
		mode = config.ModeMultimer
	case model.KindBatch:
		mode = config.ModeBatch
	default:
		return fmt.Errorf("unknown sample kind %q", sampleKind)
	}

	cfg, err := resolveConfig(cmd, mode, nil)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	return createSampleOnly(cfg, logger, sampleInput, kind)
}
