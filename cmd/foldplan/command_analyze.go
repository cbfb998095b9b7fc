package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sourceplane/foldplan/internal/config"
	"github.com/sourceplane/foldplan/internal/estimate"
	"github.com/sourceplane/foldplan/internal/expand"
	"github.com/sourceplane/foldplan/internal/model"
	"github.com/sourceplane/foldplan/internal/render"
)

var (
	analyzeInput  string
	analyzeFormat string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarize a FASTA file and estimate its standalone cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		return analyzeInputFile(cmd)
	},
}

func registerAnalyzeCommand(root *cobra.Command) {
	root.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "Input FASTA file")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "Output format (text/json/yaml)")
	analyzeCmd.MarkFlagRequired("input")
}

func analyzeInputFile(cmd *cobra.Command) error {
	job, err := expand.NewExpander(nil, nil).Expand(model.ManifestEntry{Input: analyzeInput})
	if err != nil {
		return err
	}

	mode := config.ModeMonomer
	if job.SequenceType == model.Multimer {
		mode = config.ModeMultimer
	}
	cfg, err := resolveConfig(cmd, mode, nil)
	if err != nil {
		return err
	}
	analysis := expand.Analyze(job)
	est := estimate.Estimate(job, cfg)
	analysis.Estimate = &est

	r := render.NewRenderer()
	var data []byte
	switch analyzeFormat {
	case "json":
		data, err = r.RenderJSON(analysis)
	case "yaml":
		data, err = r.RenderYAML(analysis)
	case "text":
		fmt.Print(render.ViewAnalysis(analysis, term.IsTerminal(int(os.Stdout.Fd()))))
		return nil
	default:
		return fmt.Errorf("unknown format %q", analyzeFormat)
	}
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
