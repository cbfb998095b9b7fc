package main

import (
	"github.com/spf13/cobra"

	"github.com/sourceplane/foldplan/internal/config"
	"github.com/sourceplane/foldplan/internal/expand"
	"github.com/sourceplane/foldplan/internal/model"
)

var (
	monomerInput   string
	sampleSequence string
)

var monomerCmd = &cobra.Command{
	Use:   "monomer",
	Short: "Plan or run a single-chain prediction",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMonomer(cmd)
	},
}

func registerMonomerCommand(root *cobra.Command) {
	root.AddCommand(monomerCmd)

	monomerCmd.Flags().StringVarP(&monomerInput, "input", "i", "", "Input FASTA file")
	monomerCmd.Flags().StringVar(&sampleSequence, "sample-sequence", "", "Built-in sequence used when the input is missing")
	monomerCmd.MarkFlagRequired("input")
}

func runMonomer(cmd *cobra.Command) error {
	extra := map[string]any{}
	if cmd.Flags().Changed("sample-sequence") {
		extra[config.KeySampleSequence] = sampleSequence
	}

	cfg, err := resolveConfig(cmd, config.ModeMonomer, extra)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	if createSample {
		return createSampleOnly(cfg, logger, monomerInput, model.KindMonomer)
	}
	return runManifest(cmd, expand.SingleEntry(monomerInput, model.KindMonomer), cfg, logger)
}
