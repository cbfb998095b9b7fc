package planner

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourceplane/foldplan/internal/config"
	"github.com/sourceplane/foldplan/internal/model"
)

const (
	insulinA = "GIVEQCCTSICSLYQLENYCN"
	insulinB = "FVNQHLCGSHLVEALYLVCGERGFFYTPKT"
)

func resolve(t *testing.T, mode config.PredictionMode, overrides map[string]any) *config.Resolved {
	t.Helper()
	cfg, err := config.Resolve(config.Defaults(), config.ToolDefaults(mode), config.NewLayer(config.SourceCLI, overrides))
	require.NoError(t, err)
	return cfg
}

func abs(t *testing.T, path string) string {
	t.Helper()
	p, err := filepath.Abs(path)
	require.NoError(t, err)
	return p
}

func newJob(t *testing.T, id, preset string, residues ...string) model.Job {
	t.Helper()
	chains := make([]model.Chain, len(residues))
	for i, r := range residues {
		chains[i] = model.Chain{ID: string(rune('A' + i)), Residues: r}
	}
	j, err := model.NewJob(id, "inputs/"+id+".fasta", chains, preset)
	require.NoError(t, err)
	return j
}

func TestBuild_MonomerArguments(t *testing.T) {
	cfg := resolve(t, config.ModeMonomer, map[string]any{
		config.KeyOutputDir: "out",
	})

	cmd, err := Build(newJob(t, "ins", "", insulinA), cfg)
	require.NoError(t, err)

	assert.Equal(t, "ins", cmd.JobID)
	assert.Equal(t, config.DefaultPython, cmd.Executable)
	assert.Equal(t, []string{
		abs(t, config.DefaultAlphaFoldScript),
		"--fasta_paths=" + abs(t, "inputs/ins.fasta"),
		"--output_dir=" + abs(t, "out/ins"),
		"--model_preset=monomer",
		"--db_preset=reduced_dbs",
		"--max_template_date=2022-01-01",
	}, cmd.Arguments)
	assert.Equal(t, abs(t, "out/ins"), cmd.WorkingDir)
}

func TestBuild_RelativePathsResolveAgainstInvocationDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cfg := resolve(t, config.ModeMonomer, map[string]any{
		config.KeyPython:          "venv/bin/python",
		config.KeyAlphaFoldScript: "repo/run_alphafold.py",
		config.KeyDataDir:         "db",
	})

	cmd, err := Build(newJob(t, "ins", "", insulinA), cfg)
	require.NoError(t, err)

	root, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "venv/bin/python"), cmd.Executable)
	assert.Equal(t, filepath.Join(root, "repo/run_alphafold.py"), cmd.Arguments[0])
	assert.Contains(t, cmd.Arguments, "--fasta_paths="+filepath.Join(root, "inputs/ins.fasta"))
	assert.Contains(t, cmd.Arguments, "--output_dir="+filepath.Join(root, "results/monomer_prediction/ins"))
	assert.Contains(t, cmd.Arguments, "--data_dir="+filepath.Join(root, "db"))
	assert.Equal(t, filepath.Join(root, "results/monomer_prediction/ins"), cmd.WorkingDir)
}

func TestBuild_BareExecutableLeftForPathLookup(t *testing.T) {
	cfg := resolve(t, config.ModeMonomer, map[string]any{config.KeyPython: "python3"})

	cmd, err := Build(newJob(t, "ins", "", insulinA), cfg)
	require.NoError(t, err)
	assert.Equal(t, "python3", cmd.Executable)
}

func TestBuild_MultimerAddsPredictionCount(t *testing.T) {
	cfg := resolve(t, config.ModeMultimer, map[string]any{
		config.KeyOutputDir:      "out",
		config.KeyNumPredictions: 2,
		config.KeyDataDir:        "/data/af",
	})

	cmd, err := Build(newJob(t, "dimer", "", insulinA, insulinB), cfg)
	require.NoError(t, err)

	args := cmd.Arguments
	assert.Equal(t, "--model_preset=multimer", args[3])
	assert.Equal(t, "--data_dir=/data/af", args[6])
	assert.Equal(t, "--num_predictions_per_model=2", args[len(args)-1])
}

func TestBuild_DataDirOnlyWhenSet(t *testing.T) {
	without := resolve(t, config.ModeMonomer, nil)
	with := resolve(t, config.ModeMonomer, map[string]any{config.KeyDataDir: "/db"})
	job := newJob(t, "m", "", insulinA)

	a, err := Build(job, without)
	require.NoError(t, err)
	b, err := Build(job, with)
	require.NoError(t, err)

	for _, arg := range a.Arguments {
		assert.False(t, strings.HasPrefix(arg, "--data_dir="))
	}
	assert.Contains(t, b.Arguments, "--data_dir=/db")
	assert.Len(t, b.Arguments, len(a.Arguments)+1)
}

func TestBuild_Deterministic(t *testing.T) {
	cfg := resolve(t, config.ModeBatch, map[string]any{config.KeyDataDir: "/db"})
	job := newJob(t, "complex one", "", insulinA, insulinB)

	first, err := Build(job, cfg)
	require.NoError(t, err)
	second, err := Build(job, cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, abs(t, "results/batch_prediction/complex_one"), first.WorkingDir)
}

func TestBuild_Mismatch(t *testing.T) {
	monomerCfg := resolve(t, config.ModeMonomer, nil)
	multimerCfg := resolve(t, config.ModeMultimer, nil)
	batchCfg := resolve(t, config.ModeBatch, nil)

	tests := []struct {
		name string
		job  model.Job
		cfg  *config.Resolved
	}{
		{"multi-chain job with monomer preset", newJob(t, "d", "", insulinA, insulinB), monomerCfg},
		{"single-chain job with multimer preset", newJob(t, "m", "", insulinA), multimerCfg},
		{"override multimer on single chain", newJob(t, "m", "multimer", insulinA), batchCfg},
		{"override monomer on complex", newJob(t, "d", "monomer_ptm", insulinA, insulinB), batchCfg},
		{"unknown override", newJob(t, "m", "monomer_fast", insulinA), batchCfg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.job, tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfigMismatch))

			var mismatch *ConfigMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tt.job.ID, mismatch.JobID)
		})
	}
}

func TestSelectPreset(t *testing.T) {
	cfg := resolve(t, config.ModeBatch, map[string]any{config.KeyModelPreset: "monomer_ptm"})

	assert.Equal(t, "monomer_ptm", SelectPreset(newJob(t, "m", "", insulinA), cfg))
	assert.Equal(t, "multimer", SelectPreset(newJob(t, "d", "", insulinA, insulinB), cfg))
	assert.Equal(t, "monomer_casp14", SelectPreset(newJob(t, "o", "monomer_casp14", insulinA), cfg))
}

func TestMSAKey_Normalized(t *testing.T) {
	assert.Equal(t, MSAKey(insulinA), MSAKey(" giveqcctsicslyqlenycn\n"))
	assert.NotEqual(t, MSAKey(insulinA), MSAKey(insulinB))
}

func TestMSATable_FirstOccurrenceOwns(t *testing.T) {
	table := NewMSATable(true)

	first, owner := table.Register(0, "a", model.Chain{ID: "A", Residues: insulinA})
	assert.Nil(t, owner)
	assert.False(t, first.Reused())

	repeat, owner := table.Register(2, "c", model.Chain{ID: "B", Residues: strings.ToLower(insulinA)})
	require.NotNil(t, owner)
	assert.Equal(t, 0, owner.JobIndex)
	assert.Equal(t, "a/A", repeat.ReusedFrom)
	assert.Equal(t, first.Key, repeat.Key)
	assert.Equal(t, 1, table.Len())
}

func TestMSATable_ReuseDisabled(t *testing.T) {
	table := NewMSATable(false)

	table.Register(0, "a", model.Chain{ID: "A", Residues: insulinA})
	entry, owner := table.Register(1, "b", model.Chain{ID: "A", Residues: insulinA})

	assert.Nil(t, owner)
	assert.False(t, entry.Reused())
	assert.Equal(t, 1, table.Len())
}

func planAll(cfg *config.Resolved, jobs []model.Job) ([]JobPlan, *Planner) {
	p := NewPlanner(cfg, nil)
	plans := make([]JobPlan, 0, len(jobs))
	for i, job := range jobs {
		plans = append(plans, p.Add(i, job))
	}
	return plans, p
}

func TestPlan_DeduplicatesAlignments(t *testing.T) {
	cfg := resolve(t, config.ModeBatch, nil)
	jobs := []model.Job{
		newJob(t, "a", "", insulinA),
		newJob(t, "b", "", insulinB),
		newJob(t, "ab", "", insulinA, insulinB),
		newJob(t, "aa", "", insulinA, insulinA),
	}

	plans, p := planAll(cfg, jobs)
	require.Len(t, plans, 4)
	assert.Equal(t, 2, p.DistinctKeys())

	full := 0
	for i, jp := range plans {
		require.NoError(t, jp.Err)
		assert.Equal(t, i, jp.Index)
		full += jp.Estimate.FullAlignments
	}
	assert.Equal(t, p.DistinctKeys(), full)

	assert.Empty(t, plans[0].DependsOn)
	assert.Equal(t, []int{0, 1}, plans[2].DependsOn)
	assert.Equal(t, []int{0}, plans[3].DependsOn)
	assert.Equal(t, 2, plans[3].Estimate.ReusedAlignments)
}

func TestPlan_FailedJobRegistersNoKeys(t *testing.T) {
	cfg := resolve(t, config.ModeBatch, nil)
	jobs := []model.Job{
		newJob(t, "bad", "multimer", insulinA),
		newJob(t, "good", "", insulinA),
	}

	plans, p := planAll(cfg, jobs)

	require.Error(t, plans[0].Err)
	assert.Empty(t, plans[0].MSA)
	require.NoError(t, plans[1].Err)
	assert.False(t, plans[1].MSA[0].Reused())
	assert.Empty(t, plans[1].DependsOn)
	assert.Equal(t, 1, p.DistinctKeys())
}
