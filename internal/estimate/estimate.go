// Package estimate derives advisory resource estimates for prediction jobs.
//
// The model has three runtime terms: an alignment search per chain, a model
// inference term that grows quadratically with total length, and for
// multimers a pairing term per chain pair. Runtime and disk are scaled by the
// configured full_dbs factor when the full database set is selected.
// Estimates never fail; malformed input is clamped.
package estimate

import (
	"math"

	"github.com/sourceplane/foldplan/internal/config"
	"github.com/sourceplane/foldplan/internal/model"
)

const (
	// MinChainResidues is the floor applied to every chain length
	MinChainResidues = 10

	AlignBaseMinutes       = 10.0
	AlignMinutesPerResidue = 0.05
	InferBaseMinutes       = 5.0
	InferQuadMinutes       = 3.0
	PairMinutes            = 15.0

	BaseMemoryGB       = 8.0
	MemoryGBPerResidue = 0.032
	ExtraChainMemoryGB = 4.0

	OutputDiskGB       = 0.5
	DiskGBPerResidue   = 0.002
	AlignmentScratchGB = 1.0
)

// Estimate returns the estimate for a job charged with full alignment cost on every chain
func Estimate(job model.Job, cfg *config.Resolved) model.ResourceEstimate {
	return EstimateWithReuse(job, cfg, nil)
}

// EstimateWithReuse returns the estimate for a job where reused[i] marks chains
// whose alignment search is taken from an earlier occurrence in the batch.
// A reused chain contributes only msa_reuse_factor of its alignment term.
func EstimateWithReuse(job model.Job, cfg *config.Resolved, reused []bool) model.ResourceEstimate {
	dbFactor := 1.0
	reuseFactor := config.DefaultMSAReuseFactor
	cores := config.DefaultCores
	if cfg != nil {
		if cfg.UsesFullDBs() {
			dbFactor = cfg.FullDBsFactor
		}
		reuseFactor = cfg.MSAReuseFactor
		cores = cfg.Cores
	}

	chains := len(job.Chains)
	if chains == 0 {
		chains = 1
	}

	est := model.ResourceEstimate{JobID: job.ID, EstimatedCores: cores}

	total := 0
	alignment := 0.0
	scratch := 0.0
	for i := 0; i < chains; i++ {
		length := MinChainResidues
		if i < len(job.Chains) {
			length = clampLength(len(job.Chains[i].Residues))
		}
		total += length

		chainAlign := AlignBaseMinutes + float64(length)*AlignMinutesPerResidue
		if i < len(reused) && reused[i] {
			alignment += chainAlign * reuseFactor
			est.ReusedAlignments++
			continue
		}
		alignment += chainAlign
		scratch += AlignmentScratchGB
		est.FullAlignments++
	}

	inference := InferBaseMinutes + math.Pow(float64(total)/100.0, 2)*InferQuadMinutes

	pairing := 0.0
	if job.SequenceType == model.Multimer && chains > 1 {
		pairs := chains * (chains - 1) / 2
		pairing = float64(pairs) * PairMinutes
	}

	est.AlignmentMinutes = round(alignment * dbFactor)
	est.EstimatedRuntimeMinutes = round((alignment + inference + pairing) * dbFactor)
	est.EstimatedMemoryGB = round(BaseMemoryGB + float64(total)*MemoryGBPerResidue + float64(chains-1)*ExtraChainMemoryGB)
	est.EstimatedDiskGB = round((OutputDiskGB + float64(total)*DiskGBPerResidue + scratch) * dbFactor)

	return est
}

func clampLength(n int) int {
	if n < MinChainResidues {
		return MinChainResidues
	}
	return n
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
