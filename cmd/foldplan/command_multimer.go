package main

import (
	"github.com/spf13/cobra"

	"github.com/sourceplane/foldplan/internal/config"
	"github.com/sourceplane/foldplan/internal/expand"
	"github.com/sourceplane/foldplan/internal/model"
)

var (
	multimerInput  string
	numPredictions int
	complexType    string
)

var multimerCmd = &cobra.Command{
	Use:   "multimer",
	Short: "Plan or run a multi-chain (complex) prediction",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMultimer(cmd)
	},
}

func registerMultimerCommand(root *cobra.Command) {
	root.AddCommand(multimerCmd)

	multimerCmd.Flags().StringVarP(&multimerInput, "input", "i", "", "Input FASTA file with one record per chain")
	multimerCmd.Flags().IntVar(&numPredictions, "num-predictions", config.DefaultNumPredictions, "Number of predictions per model")
	multimerCmd.Flags().StringVar(&complexType, "complex-type", config.DefaultSampleComplexType, "Sample complex when the input is missing (heterodimer, homodimer, trimer)")
	multimerCmd.MarkFlagRequired("input")
}

func runMultimer(cmd *cobra.Command) error {
	extra := map[string]any{}
	if cmd.Flags().Changed("num-predictions") {
		extra[config.KeyNumPredictions] = numPredictions
	}
	if cmd.Flags().Changed("complex-type") {
		extra[config.KeySampleComplexType] = complexType
	}

	cfg, err := resolveConfig(cmd, config.ModeMultimer, extra)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	if createSample {
		return createSampleOnly(cfg, logger, multimerInput, model.KindMultimer)
	}
	return runManifest(cmd, expand.SingleEntry(multimerInput, model.KindMultimer), cfg, logger)
}
