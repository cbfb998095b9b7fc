package model

import "fmt"

// SequenceType distinguishes single-chain from multi-chain predictions
type SequenceType string

const (
	Monomer  SequenceType = "monomer"
	Multimer SequenceType = "multimer"
)

// SequenceTypeFor derives the sequence type from a chain count
func SequenceTypeFor(chains int) SequenceType {
	if chains > 1 {
		return Multimer
	}
	return Monomer
}

// Chain is one protein sequence within a job
type Chain struct {
	ID          string `yaml:"id" json:"id"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Residues    string `yaml:"residues" json:"residues"`
}

// Job is a single prediction request, immutable once built
type Job struct {
	ID           string       `yaml:"id" json:"id"`
	SequenceType SequenceType `yaml:"sequenceType" json:"sequenceType"`
	Chains       []Chain      `yaml:"chains" json:"chains"`
	SourcePath   string       `yaml:"sourcePath" json:"sourcePath"`
	// ModelPreset overrides the configured preset for this job only
	ModelPreset string `yaml:"modelPreset,omitempty" json:"modelPreset,omitempty"`
}

// NewJob builds a job and derives its sequence type from the chains
func NewJob(id, sourcePath string, chains []Chain, presetOverride string) (Job, error) {
	if id == "" {
		return Job{}, fmt.Errorf("job must have an id")
	}
	if len(chains) == 0 {
		return Job{}, fmt.Errorf("job %s has no sequences", id)
	}

	copied := make([]Chain, len(chains))
	copy(copied, chains)

	return Job{
		ID:           id,
		SequenceType: SequenceTypeFor(len(copied)),
		Chains:       copied,
		SourcePath:   sourcePath,
		ModelPreset:  presetOverride,
	}, nil
}

// TotalResidues sums residue counts across all chains
func (j Job) TotalResidues() int {
	total := 0
	for _, c := range j.Chains {
		total += len(c.Residues)
	}
	return total
}

// ResourceEstimate is an advisory cost estimate for one job
type ResourceEstimate struct {
	JobID                   string  `yaml:"jobId" json:"jobId"`
	EstimatedCores          int     `yaml:"estimatedCores" json:"estimatedCores"`
	EstimatedMemoryGB       float64 `yaml:"estimatedMemoryGB" json:"estimatedMemoryGB"`
	EstimatedDiskGB         float64 `yaml:"estimatedDiskGB" json:"estimatedDiskGB"`
	EstimatedRuntimeMinutes float64 `yaml:"estimatedRuntimeMinutes" json:"estimatedRuntimeMinutes"`
	AlignmentMinutes        float64 `yaml:"alignmentMinutes" json:"alignmentMinutes"`
	FullAlignments          int     `yaml:"fullAlignments" json:"fullAlignments"`
	ReusedAlignments        int     `yaml:"reusedAlignments" json:"reusedAlignments"`
}

// CommandSpec is a side-effect-free description of an external invocation
type CommandSpec struct {
	JobID      string   `yaml:"jobId" json:"jobId"`
	Executable string   `yaml:"executable" json:"executable"`
	Arguments  []string `yaml:"arguments" json:"arguments"`
	WorkingDir string   `yaml:"workingDir" json:"workingDir"`
}

// Argv returns the executable followed by its arguments
func (c CommandSpec) Argv() []string {
	argv := make([]string, 0, len(c.Arguments)+1)
	argv = append(argv, c.Executable)
	return append(argv, c.Arguments...)
}

// ChainMSA records the alignment key for a chain and where its result comes from
type ChainMSA struct {
	ChainID string `yaml:"chainId" json:"chainId"`
	Key     string `yaml:"key" json:"key"`
	// ReusedFrom is "jobID/chainID" of the first occurrence; empty when this chain owns the search
	ReusedFrom string `yaml:"reusedFrom,omitempty" json:"reusedFrom,omitempty"`
}

// Reused reports whether the chain reuses another chain's alignment
func (m ChainMSA) Reused() bool {
	return m.ReusedFrom != ""
}
