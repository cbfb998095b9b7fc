package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sourceplane/foldplan/internal/config"
	"github.com/sourceplane/foldplan/internal/expand"
	"github.com/sourceplane/foldplan/internal/loader"
	"github.com/sourceplane/foldplan/internal/model"
)

var (
	batchInputDir      string
	batchManifest      string
	batchNoMSAReuse    bool
	batchMaxConcurrent int
	batchPredictions   int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Plan or run every FASTA file in a directory or manifest",
	Long:  "Plan or run a batch of predictions. Identical chains across jobs share one MSA search unless --no-msa-reuse is set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd)
	},
}

func registerBatchCommand(root *cobra.Command) {
	root.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchInputDir, "input-dir", "", "Directory of FASTA files (.fasta .fa .fas .faa)")
	batchCmd.Flags().StringVarP(&batchManifest, "manifest", "m", "", "Batch manifest (yaml or json)")
	batchCmd.Flags().BoolVar(&batchNoMSAReuse, "no-msa-reuse", false, "Disable MSA reuse across jobs")
	batchCmd.Flags().IntVar(&batchMaxConcurrent, "max-concurrent", config.DefaultMaxConcurrent, "Jobs executed at once in production mode")
	batchCmd.Flags().IntVar(&batchPredictions, "num-predictions", config.DefaultNumPredictions, "Number of predictions per multimer model")
	batchCmd.MarkFlagsMutuallyExclusive("input-dir", "manifest")
	batchCmd.MarkFlagsOneRequired("input-dir", "manifest")
}

func runBatch(cmd *cobra.Command) error {
	extra := map[string]any{}
	if batchNoMSAReuse {
		extra[config.KeyMSAReuse] = false
	}
	if cmd.Flags().Changed("max-concurrent") {
		extra[config.KeyMaxConcurrent] = batchMaxConcurrent
	}
	if cmd.Flags().Changed("num-predictions") {
		extra[config.KeyNumPredictions] = batchPredictions
	}

	cfg, err := resolveConfig(cmd, config.ModeBatch, extra)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	if batchManifest != "" {
		if createSample {
			return fmt.Errorf("--create-sample requires --input-dir")
		}
		fmt.Println("□ Loading manifest...")
		manifest, err := loader.LoadManifest(batchManifest)
		if err != nil {
			return err
		}
		return runManifest(cmd, *manifest, cfg, logger)
	}

	if createSample {
		return createSampleOnly(cfg, logger, batchInputDir, model.KindBatch)
	}

	if _, err := newSampleProvider(cfg, logger).EnsureInput(batchInputDir, model.KindBatch); err != nil {
		return err
	}
	fmt.Printf("□ Scanning %s...\n", batchInputDir)
	manifest, err := expand.ScanDir(expand.Stem(batchInputDir), batchInputDir)
	if err != nil {
		return err
	}
	return runManifest(cmd, manifest, cfg, logger)
}
