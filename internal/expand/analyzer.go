package expand

import (
	"github.com/sourceplane/foldplan/internal/model"
	"github.com/sourceplane/foldplan/internal/normalize"
)

// ChainSummary describes one chain of an analyzed job
type ChainSummary struct {
	ID     string `yaml:"id" json:"id"`
	Length int    `yaml:"length" json:"length"`
}

// Analysis is the structural summary of a job's input
type Analysis struct {
	JobID         string             `yaml:"jobId" json:"jobId"`
	SourcePath    string             `yaml:"sourcePath" json:"sourcePath"`
	SequenceType  model.SequenceType `yaml:"sequenceType" json:"sequenceType"`
	ComplexType   string             `yaml:"complexType" json:"complexType"`
	TotalResidues int                `yaml:"totalResidues" json:"totalResidues"`
	Chains        []ChainSummary     `yaml:"chains" json:"chains"`
	// Estimate is the standalone cost, with no alignment reuse
	Estimate *model.ResourceEstimate `yaml:"estimate,omitempty" json:"estimate,omitempty"`
}

// Analyze summarizes a job without planning it
func Analyze(job model.Job) Analysis {
	a := Analysis{
		JobID:         job.ID,
		SourcePath:    job.SourcePath,
		SequenceType:  job.SequenceType,
		ComplexType:   normalize.ComplexType(job.Chains),
		TotalResidues: job.TotalResidues(),
		Chains:        make([]ChainSummary, 0, len(job.Chains)),
	}
	for _, c := range job.Chains {
		a.Chains = append(a.Chains, ChainSummary{ID: c.ID, Length: len(c.Residues)})
	}
	return a
}
