package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sourceplane/foldplan/internal/config"
	"github.com/sourceplane/foldplan/internal/expand"
	"github.com/sourceplane/foldplan/internal/model"
	"github.com/sourceplane/foldplan/internal/normalize"
	"github.com/sourceplane/foldplan/internal/planner"
)

// ErrExecution is matched when the external engine could not run a job successfully
var ErrExecution = errors.New("execution failed")

// ExecutionError carries the external process outcome for a failed job
type ExecutionError struct {
	JobID    string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("job %s: %v", e.JobID, e.Err)
	}
	return fmt.Sprintf("job %s: exited with code %d", e.JobID, e.ExitCode)
}

func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecution
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Orchestrator drives a batch from manifest to report
type Orchestrator struct {
	Executor   Executor
	Inputs     expand.InputProvider
	PathExists func(path string) bool
	Logger     *slog.Logger
}

func NewOrchestrator(executor Executor, inputs expand.InputProvider, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{
		Executor:   executor,
		Inputs:     inputs,
		PathExists: dirExists,
		Logger:     logger,
	}
}

// Run expands, plans and then simulates or executes every manifest entry.
// The only batch-fatal error is a configuration problem found before any job starts;
// every other failure is recorded on the job's outcome.
func (o *Orchestrator) Run(ctx context.Context, manifest model.Manifest, cfg *config.Resolved) (*model.BatchReport, error) {
	if cfg == nil {
		return nil, fmt.Errorf("resolved configuration cannot be nil")
	}
	logger := o.logger()

	mode := model.ModeProduction
	if cfg.DemoMode {
		mode = model.ModeDemo
	}
	if err := o.checkDataDir(cfg, mode); err != nil {
		return nil, err
	}
	if mode == model.ModeProduction && o.Executor == nil {
		return nil, fmt.Errorf("production mode requires an executor")
	}

	report := &model.BatchReport{
		RunID:     uuid.NewString(),
		Name:      manifest.Name,
		Mode:      mode,
		StartedAt: time.Now().UTC(),
		Outcomes:  make([]model.JobOutcome, len(manifest.Entries)),
	}
	logger = logger.With("run", report.RunID)
	logger.Info("starting batch", "name", manifest.Name, "mode", mode, "entries", len(manifest.Entries))

	plans, keys := o.plan(manifest, cfg, report.Outcomes, logger)
	report.DistinctMSAKeys = keys

	switch mode {
	case model.ModeDemo:
		for i, p := range plans {
			if p == nil {
				continue
			}
			o.settle(&report.Outcomes[i], model.StatusSimulated, "demo mode: command not executed", logger)
			logger.Info("simulated job", "job", p.Job.ID, "command", p.Command.Argv())
		}
	case model.ModeProduction:
		o.dispatch(ctx, plans, report.Outcomes, cfg.MaxConcurrent, logger)
	}

	report.FinishedAt = time.Now().UTC()
	report.Summarize()

	logger.Info("batch finished",
		"total", report.Counts.Total,
		"simulated", report.Counts.Simulated,
		"succeeded", report.Counts.Succeeded,
		"failed", report.Counts.Failed,
		"skipped", report.Counts.Skipped,
		"msa_keys", report.DistinctMSAKeys,
	)
	return report, nil
}

func (o *Orchestrator) checkDataDir(cfg *config.Resolved, mode model.Mode) error {
	if !cfg.HasDataDir() {
		return nil
	}
	exists := o.PathExists
	if exists == nil {
		exists = dirExists
	}
	if exists(cfg.DataDir) {
		return nil
	}
	if mode == model.ModeProduction {
		return &config.ValidationError{Field: config.KeyDataDir, Value: cfg.DataDir, Message: "database directory does not exist"}
	}
	o.logger().Warn("database directory not found, continuing in demo mode", "data_dir", cfg.DataDir)
	return nil
}

// plan expands and plans entries in manifest order. The returned slice has one
// slot per entry; nil marks an entry that already reached a terminal status.
// The count of distinct alignment keys is returned alongside.
func (o *Orchestrator) plan(manifest model.Manifest, cfg *config.Resolved, outcomes []model.JobOutcome, logger *slog.Logger) ([]*planner.JobPlan, int) {
	expander := expand.NewExpander(o.Inputs, logger)
	p := planner.NewPlanner(cfg, logger)
	plans := make([]*planner.JobPlan, len(manifest.Entries))
	seen := make(map[string]bool, len(manifest.Entries))
	dirs := make(map[string]string, len(manifest.Entries))

	for i, entry := range manifest.Entries {
		id := entry.ID
		if id == "" {
			id = expand.Stem(entry.Input)
		}
		outcome := &outcomes[i]
		*outcome = model.NewPendingOutcome(id)
		outcome.SourcePath = entry.Input

		if !entry.IsEnabled() {
			o.settle(outcome, model.StatusSkipped, "disabled in manifest", logger)
			continue
		}
		if seen[id] {
			o.settle(outcome, model.StatusFailed, fmt.Sprintf("duplicate job id %q", id), logger)
			continue
		}
		seen[id] = true
		safe := normalize.SafeName(id)
		if owner, ok := dirs[safe]; ok {
			o.settle(outcome, model.StatusFailed, fmt.Sprintf("job id %q shares output directory with job %q", id, owner), logger)
			continue
		}
		dirs[safe] = id

		entry.ID = id
		job, err := expander.Expand(entry)
		if err != nil {
			o.settle(outcome, model.StatusFailed, err.Error(), logger)
			continue
		}
		outcome.SourcePath = job.SourcePath
		outcome.SequenceType = job.SequenceType
		outcome.ComplexType = normalize.ComplexType(job.Chains)
		outcome.TotalResidues = job.TotalResidues()

		jp := p.Add(i, job)
		outcome.ModelPreset = jp.Preset
		if jp.Err != nil {
			o.settle(outcome, model.StatusFailed, jp.Err.Error(), logger)
			continue
		}

		cmd := jp.Command
		est := jp.Estimate
		outcome.Command = &cmd
		outcome.Estimate = &est
		outcome.MSA = jp.MSA
		plans[i] = &jp
	}

	return plans, p.DistinctKeys()
}

// dispatch runs planned jobs through a bounded pool. A job waits for the jobs
// whose alignments it reuses; those always have a lower index and were submitted first.
// Sibling failures never cancel running processes.
func (o *Orchestrator) dispatch(ctx context.Context, plans []*planner.JobPlan, outcomes []model.JobOutcome, limit int, logger *slog.Logger) {
	done := make([]chan struct{}, len(plans))
	for i, p := range plans {
		if p != nil {
			done[i] = make(chan struct{})
		}
	}

	var g errgroup.Group
	g.SetLimit(max(limit, 1))
	for i, p := range plans {
		if p == nil {
			continue
		}
		g.Go(func() error {
			defer close(done[i])
			for _, dep := range p.DependsOn {
				if done[dep] != nil {
					<-done[dep]
				}
			}
			o.execute(ctx, p, &outcomes[i], logger)
			return nil
		})
	}
	_ = g.Wait()
}

func (o *Orchestrator) execute(ctx context.Context, p *planner.JobPlan, outcome *model.JobOutcome, logger *slog.Logger) {
	if err := ctx.Err(); err != nil {
		o.settle(outcome, model.StatusFailed, fmt.Sprintf("not started: %v", err), logger)
		return
	}

	logger.Info("executing job", "job", p.Job.ID, "command", p.Command.Argv())
	start := time.Now()
	res, err := o.Executor.Execute(ctx, p.Command)
	code := res.ExitCode
	outcome.ExitCode = &code

	if err == nil && res.ExitCode == 0 {
		o.settle(outcome, model.StatusSucceeded, fmt.Sprintf("completed in %s", time.Since(start).Round(time.Second)), logger)
		return
	}

	execErr := &ExecutionError{
		JobID:    p.Job.ID,
		ExitCode: res.ExitCode,
		Stderr:   Tail(res.Stderr, StderrTailLines),
		Err:      err,
	}
	outcome.Stderr = execErr.Stderr
	o.settle(outcome, model.StatusFailed, execErr.Error(), logger)
}

func (o *Orchestrator) settle(outcome *model.JobOutcome, status model.Status, detail string, logger *slog.Logger) {
	if err := outcome.Transition(status, detail); err != nil {
		logger.Error("invalid outcome transition", "error", err)
		return
	}
	level := slog.LevelInfo
	if status == model.StatusFailed {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, "job finished", "job", outcome.JobID, "status", status, "detail", detail)
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
