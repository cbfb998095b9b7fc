package estimate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourceplane/foldplan/internal/config"
	"github.com/sourceplane/foldplan/internal/model"
)

func resolve(t *testing.T, overrides map[string]any) *config.Resolved {
	t.Helper()
	cfg, err := config.Resolve(config.Defaults(), config.ToolDefaults(config.ModeBatch), config.NewLayer(config.SourceCLI, overrides))
	require.NoError(t, err)
	return cfg
}

func job(t *testing.T, id string, residues ...string) model.Job {
	t.Helper()
	chains := make([]model.Chain, len(residues))
	for i, r := range residues {
		chains[i] = model.Chain{ID: string(rune('A' + i)), Residues: r}
	}
	j, err := model.NewJob(id, id+".fasta", chains, "")
	require.NoError(t, err)
	return j
}

func TestEstimate_ScalesWithLength(t *testing.T) {
	cfg := resolve(t, nil)

	short := Estimate(job(t, "short", strings.Repeat("A", 100)), cfg)
	long := Estimate(job(t, "long", strings.Repeat("A", 1000)), cfg)

	assert.Greater(t, long.EstimatedRuntimeMinutes, short.EstimatedRuntimeMinutes)
	assert.Greater(t, long.EstimatedMemoryGB, short.EstimatedMemoryGB)
	assert.Greater(t, long.EstimatedDiskGB, short.EstimatedDiskGB)
	assert.Equal(t, "short", short.JobID)
	assert.Equal(t, config.DefaultCores, short.EstimatedCores)
}

func TestEstimate_FullDBsFactor(t *testing.T) {
	j := job(t, "p", strings.Repeat("A", 300))
	reduced := Estimate(j, resolve(t, nil))
	full := Estimate(j, resolve(t, map[string]any{config.KeyDBPreset: "full_dbs"}))

	assert.InDelta(t, reduced.EstimatedRuntimeMinutes*config.DefaultFullDBsFactor, full.EstimatedRuntimeMinutes, 0.05)
	assert.InDelta(t, reduced.EstimatedDiskGB*config.DefaultFullDBsFactor, full.EstimatedDiskGB, 0.05)
	assert.Equal(t, reduced.EstimatedMemoryGB, full.EstimatedMemoryGB)

	custom := Estimate(j, resolve(t, map[string]any{
		config.KeyDBPreset:      "full_dbs",
		config.KeyFullDBsFactor: 2.0,
	}))
	assert.InDelta(t, reduced.EstimatedRuntimeMinutes*2, custom.EstimatedRuntimeMinutes, 0.05)
}

func TestEstimate_MultimerPairingPenalty(t *testing.T) {
	cfg := resolve(t, nil)
	seq := strings.Repeat("A", 100)

	dimer := Estimate(job(t, "dimer", seq, seq), cfg)
	trimer := Estimate(job(t, "trimer", seq, seq, seq), cfg)

	// Same residues as the dimer in one chain, no pairing term.
	single := Estimate(job(t, "single", seq+seq), cfg)

	pairOnly := dimer.EstimatedRuntimeMinutes - dimer.AlignmentMinutes - (single.EstimatedRuntimeMinutes - single.AlignmentMinutes)
	assert.InDelta(t, PairMinutes, pairOnly, 0.05)
	assert.Greater(t, trimer.EstimatedRuntimeMinutes, dimer.EstimatedRuntimeMinutes)
	assert.Equal(t, 3, trimer.FullAlignments)
}

func TestEstimate_ClampsEmptyChains(t *testing.T) {
	cfg := resolve(t, nil)
	empty := model.Job{ID: "empty", SequenceType: model.Monomer, Chains: []model.Chain{{ID: "A"}}}
	tiny := job(t, "tiny", "MKV")
	none := model.Job{ID: "none"}

	e := Estimate(empty, cfg)
	assert.Greater(t, e.EstimatedRuntimeMinutes, 0.0)
	assert.Equal(t, e.EstimatedRuntimeMinutes, Estimate(tiny, cfg).EstimatedRuntimeMinutes)
	assert.Equal(t, e.EstimatedRuntimeMinutes, Estimate(none, cfg).EstimatedRuntimeMinutes)
}

func TestEstimate_NilConfig(t *testing.T) {
	e := Estimate(job(t, "p", "MKVLA"), nil)
	assert.Equal(t, config.DefaultCores, e.EstimatedCores)
	assert.Equal(t, 1, e.FullAlignments)
}

func TestEstimateWithReuse_ReducesAlignmentTerm(t *testing.T) {
	cfg := resolve(t, nil)
	j := job(t, "p", strings.Repeat("A", 200), strings.Repeat("C", 200))

	full := EstimateWithReuse(j, cfg, nil)
	partial := EstimateWithReuse(j, cfg, []bool{false, true})

	assert.Equal(t, 2, full.FullAlignments)
	assert.Equal(t, 0, full.ReusedAlignments)
	assert.Equal(t, 1, partial.FullAlignments)
	assert.Equal(t, 1, partial.ReusedAlignments)
	assert.Less(t, partial.AlignmentMinutes, full.AlignmentMinutes)
	assert.Less(t, partial.EstimatedDiskGB, full.EstimatedDiskGB)

	chainAlign := AlignBaseMinutes + 200*AlignMinutesPerResidue
	assert.InDelta(t, chainAlign*(1-config.DefaultMSAReuseFactor), full.AlignmentMinutes-partial.AlignmentMinutes, 0.05)
}
