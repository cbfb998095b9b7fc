package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sourceplane/foldplan/internal/config"
	"github.com/sourceplane/foldplan/internal/loader"
	"github.com/sourceplane/foldplan/internal/logging"
	"github.com/sourceplane/foldplan/internal/model"
	"github.com/sourceplane/foldplan/internal/render"
	"github.com/sourceplane/foldplan/internal/runner"
	"github.com/sourceplane/foldplan/internal/sample"
)

// resolveConfig builds default, tool, file, env and cli layers and resolves them
func resolveConfig(cmd *cobra.Command, mode config.PredictionMode, extra map[string]any) (*config.Resolved, error) {
	layers := []config.Layer{config.Defaults(), config.ToolDefaults(mode)}
	if configFile != "" {
		fileLayer, err := loader.LoadConfigFile(configFile)
		if err != nil {
			return nil, err
		}
		layers = append(layers, fileLayer)
	}
	envLayer, err := loader.LoadEnvLayer(envFile)
	if err != nil {
		return nil, err
	}
	layers = append(layers, envLayer, cliLayer(cmd, extra))

	cfg, err := config.ResolveLayers(layers...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Resolved) (*slog.Logger, error) {
	level := logLevel
	if cfg != nil {
		level = cfg.LogLevel
	}
	return logging.New(os.Stderr, level, logFormat)
}

func newSampleProvider(cfg *config.Resolved, logger *slog.Logger) *sample.Provider {
	return sample.NewProvider(sample.Options{
		Enabled:     cfg.CreateSampleIfMissing,
		Sequence:    cfg.SampleSequence,
		ComplexType: cfg.SampleComplexType,
		Sequences:   cfg.SampleSequences,
	}, logger)
}

// createSampleOnly handles --create-sample: write the sample and stop
func createSampleOnly(cfg *config.Resolved, logger *slog.Logger, path string, kind model.JobKind) error {
	provider := newSampleProvider(cfg, logger)
	if err := provider.Create(path, kind); err != nil {
		return err
	}
	fmt.Printf("✓ Sample created: %s\n", path)
	return nil
}

// runManifest orchestrates a manifest, prints the outcome and writes the report
func runManifest(cmd *cobra.Command, manifest model.Manifest, cfg *config.Resolved, logger *slog.Logger) error {
	provider := newSampleProvider(cfg, logger)
	orch := runner.NewOrchestrator(runner.NewProcessExecutor(os.Stdout, os.Stderr), provider, logger)

	if cfg.DemoMode {
		fmt.Println("□ Demo mode enabled. Use --production to execute AlphaFold.")
	}
	fmt.Printf("□ Planning %d job(s)...\n", len(manifest.Entries))

	report, err := orch.Run(cmd.Context(), manifest, cfg)
	if err != nil {
		return err
	}

	color := term.IsTerminal(int(os.Stdout.Fd()))
	viewer := render.NewReportViewer(report, color)
	fmt.Println()
	fmt.Print(viewer.ViewJobs())
	fmt.Print(viewer.ViewSummary())
	if report.Totals.ReusedAlignments > 0 {
		fmt.Println()
		fmt.Print(viewer.ViewMSA())
	}

	if reportFile != "" {
		if err := render.NewRenderer().WriteReport(report, reportFile); err != nil {
			return err
		}
		fmt.Printf("✓ Report saved to: %s\n", reportFile)
	}

	if err := failureError(report); err != nil {
		return err
	}
	fmt.Println("✓ Batch complete")
	return nil
}

// failureError names every failed job, or returns nil when none failed
func failureError(report *model.BatchReport) error {
	failed := report.Failed()
	if len(failed) == 0 {
		return nil
	}
	ids := make([]string, len(failed))
	for i, o := range failed {
		ids[i] = o.JobID
	}
	return fmt.Errorf("%d of %d job(s) failed: %s", len(failed), report.Counts.Total, strings.Join(ids, ", "))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
