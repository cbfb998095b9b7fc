package planner

import (
	"log/slog"
	"sort"

	"github.com/sourceplane/foldplan/internal/config"
	"github.com/sourceplane/foldplan/internal/estimate"
	"github.com/sourceplane/foldplan/internal/model"
)

// JobPlan is everything decided about a job before dispatch
type JobPlan struct {
	Index    int
	Job      model.Job
	Preset   string
	Command  model.CommandSpec
	Estimate model.ResourceEstimate
	MSA      []model.ChainMSA
	// DependsOn holds indices of earlier jobs whose alignments this job reuses
	DependsOn []int
	// Err is set when the command could not be constructed
	Err error
}

// Planner builds job plans in input order and owns the run's MSA table
type Planner struct {
	cfg    *config.Resolved
	table  *MSATable
	logger *slog.Logger
}

// NewPlanner creates a planner for one run
func NewPlanner(cfg *config.Resolved, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Planner{
		cfg:    cfg,
		table:  NewMSATable(cfg.MSAReuse),
		logger: logger,
	}
}

// Add plans the job at the given manifest index. Jobs whose command cannot be
// built register no alignment keys, so a later job owns the search instead.
func (p *Planner) Add(index int, job model.Job) JobPlan {
	plan := JobPlan{
		Index:  index,
		Job:    job,
		Preset: SelectPreset(job, p.cfg),
	}

	cmd, err := Build(job, p.cfg)
	if err != nil {
		plan.Err = err
		p.logger.Warn("command construction failed", "job", job.ID, "error", err)
		return plan
	}
	plan.Command = cmd

	reused := make([]bool, len(job.Chains))
	deps := make(map[int]bool)
	for i, chain := range job.Chains {
		entry, owner := p.table.Register(index, job.ID, chain)
		plan.MSA = append(plan.MSA, entry)
		if owner == nil {
			continue
		}
		reused[i] = true
		if owner.JobIndex != index {
			deps[owner.JobIndex] = true
		}
		p.logger.Debug("reusing alignment", "job", job.ID, "chain", chain.ID, "from", owner.String())
	}
	for dep := range deps {
		plan.DependsOn = append(plan.DependsOn, dep)
	}
	sort.Ints(plan.DependsOn)

	plan.Estimate = estimate.EstimateWithReuse(job, p.cfg, reused)
	return plan
}

// DistinctKeys returns the number of distinct alignment keys registered so far
func (p *Planner) DistinctKeys() int {
	return p.table.Len()
}
