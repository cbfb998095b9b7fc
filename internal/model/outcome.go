package model

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a job within a batch
type Status string

const (
	StatusPending   Status = "pending"
	StatusSkipped   Status = "skipped"
	StatusSimulated Status = "simulated"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition is allowed
func (s Status) Terminal() bool {
	return s != StatusPending
}

// JobOutcome tracks one job from acceptance to its terminal status
type JobOutcome struct {
	JobID         string            `yaml:"jobId" json:"jobId"`
	Status        Status            `yaml:"status" json:"status"`
	Detail        string            `yaml:"detail,omitempty" json:"detail,omitempty"`
	SourcePath    string            `yaml:"sourcePath,omitempty" json:"sourcePath,omitempty"`
	SequenceType  SequenceType      `yaml:"sequenceType,omitempty" json:"sequenceType,omitempty"`
	ComplexType   string            `yaml:"complexType,omitempty" json:"complexType,omitempty"`
	TotalResidues int               `yaml:"totalResidues,omitempty" json:"totalResidues,omitempty"`
	ModelPreset   string            `yaml:"modelPreset,omitempty" json:"modelPreset,omitempty"`
	Estimate      *ResourceEstimate `yaml:"estimate,omitempty" json:"estimate,omitempty"`
	Command       *CommandSpec      `yaml:"command,omitempty" json:"command,omitempty"`
	MSA           []ChainMSA        `yaml:"msa,omitempty" json:"msa,omitempty"`
	ExitCode      *int              `yaml:"exitCode,omitempty" json:"exitCode,omitempty"`
	Stderr        string            `yaml:"stderr,omitempty" json:"stderr,omitempty"`
}

// NewPendingOutcome creates the outcome for a job accepted into a batch
func NewPendingOutcome(jobID string) JobOutcome {
	return JobOutcome{JobID: jobID, Status: StatusPending}
}

// Transition moves a pending outcome to a terminal status exactly once
func (o *JobOutcome) Transition(status Status, detail string) error {
	if o.Status.Terminal() {
		return fmt.Errorf("job %s already %s, cannot become %s", o.JobID, o.Status, status)
	}
	if !status.Terminal() {
		return fmt.Errorf("job %s: %s is not a terminal status", o.JobID, status)
	}
	o.Status = status
	o.Detail = detail
	return nil
}

// Counts aggregates outcomes by status
type Counts struct {
	Total     int `yaml:"total" json:"total"`
	Pending   int `yaml:"pending" json:"pending"`
	Skipped   int `yaml:"skipped" json:"skipped"`
	Simulated int `yaml:"simulated" json:"simulated"`
	Succeeded int `yaml:"succeeded" json:"succeeded"`
	Failed    int `yaml:"failed" json:"failed"`
}

// Add counts one more outcome with the given status
func (c *Counts) Add(s Status) {
	c.Total++
	switch s {
	case StatusPending:
		c.Pending++
	case StatusSkipped:
		c.Skipped++
	case StatusSimulated:
		c.Simulated++
	case StatusSucceeded:
		c.Succeeded++
	case StatusFailed:
		c.Failed++
	}
}

// Totals aggregates resource estimates across a batch.
// Runtime and disk are summed; cores and memory are the peak of any single job.
type Totals struct {
	RuntimeMinutes   float64 `yaml:"runtimeMinutes" json:"runtimeMinutes"`
	DiskGB           float64 `yaml:"diskGB" json:"diskGB"`
	PeakMemoryGB     float64 `yaml:"peakMemoryGB" json:"peakMemoryGB"`
	PeakCores        int     `yaml:"peakCores" json:"peakCores"`
	FullAlignments   int     `yaml:"fullAlignments" json:"fullAlignments"`
	ReusedAlignments int     `yaml:"reusedAlignments" json:"reusedAlignments"`
}

// Add folds one estimate into the totals
func (t *Totals) Add(e ResourceEstimate) {
	t.RuntimeMinutes += e.EstimatedRuntimeMinutes
	t.DiskGB += e.EstimatedDiskGB
	if e.EstimatedMemoryGB > t.PeakMemoryGB {
		t.PeakMemoryGB = e.EstimatedMemoryGB
	}
	if e.EstimatedCores > t.PeakCores {
		t.PeakCores = e.EstimatedCores
	}
	t.FullAlignments += e.FullAlignments
	t.ReusedAlignments += e.ReusedAlignments
}

// Mode is the execution mode of a run
type Mode string

const (
	ModeDemo       Mode = "demo"
	ModeProduction Mode = "production"
)

// BatchReport is the result of one orchestrated run, in manifest order
type BatchReport struct {
	RunID           string       `yaml:"runId" json:"runId"`
	Name            string       `yaml:"name,omitempty" json:"name,omitempty"`
	Mode            Mode         `yaml:"mode" json:"mode"`
	StartedAt       time.Time    `yaml:"startedAt" json:"startedAt"`
	FinishedAt      time.Time    `yaml:"finishedAt" json:"finishedAt"`
	Outcomes        []JobOutcome `yaml:"outcomes" json:"outcomes"`
	Counts          Counts       `yaml:"counts" json:"counts"`
	Totals          Totals       `yaml:"totals" json:"totals"`
	DistinctMSAKeys int          `yaml:"distinctMsaKeys" json:"distinctMsaKeys"`
}

// Summarize recomputes counts and totals from the outcomes
func (r *BatchReport) Summarize() {
	r.Counts = Counts{}
	r.Totals = Totals{}
	for _, o := range r.Outcomes {
		r.Counts.Add(o.Status)
		if o.Estimate != nil {
			r.Totals.Add(*o.Estimate)
		}
	}
}

// Failed returns the outcomes that ended in failure
func (r *BatchReport) Failed() []JobOutcome {
	var failed []JobOutcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			failed = append(failed, o)
		}
	}
	return failed
}
