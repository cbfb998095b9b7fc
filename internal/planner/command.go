package planner

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sourceplane/foldplan/internal/config"
	"github.com/sourceplane/foldplan/internal/model"
	"github.com/sourceplane/foldplan/internal/normalize"
)

// ErrConfigMismatch is matched when a job cannot run with the selected model preset
var ErrConfigMismatch = errors.New("job incompatible with configuration")

// ConfigMismatchError reports a job/preset incompatibility
type ConfigMismatchError struct {
	JobID        string
	SequenceType model.SequenceType
	Chains       int
	Preset       string
}

func (e *ConfigMismatchError) Error() string {
	if !config.IsKnownPreset(e.Preset) {
		return fmt.Sprintf("job %s: unknown model preset %q", e.JobID, e.Preset)
	}
	return fmt.Sprintf("job %s: %s job with %d chain(s) cannot use model preset %q", e.JobID, e.SequenceType, e.Chains, e.Preset)
}

func (e *ConfigMismatchError) Is(target error) bool {
	return target == ErrConfigMismatch
}

// SelectPreset picks the model preset a job runs with: the job's own override,
// then the multimer preset for multi-chain jobs in batch mode, then model.preset.
func SelectPreset(job model.Job, cfg *config.Resolved) string {
	if job.ModelPreset != "" {
		return job.ModelPreset
	}
	if cfg.Mode == config.ModeBatch && job.SequenceType == model.Multimer {
		return cfg.MultimerPreset
	}
	return cfg.ModelPreset
}

// OutputDir is the per-job output and working directory
func OutputDir(job model.Job, cfg *config.Resolved) string {
	return filepath.Join(cfg.OutputDir, normalize.SafeName(job.ID))
}

// absPaths resolves relative paths against the invocation directory, since the
// engine runs inside the job's output directory.
func absPaths(paths ...*string) error {
	for _, p := range paths {
		if *p == "" || filepath.IsAbs(*p) {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", *p, err)
		}
		*p = abs
	}
	return nil
}

// Build turns a job and a resolved configuration into the external command.
// The result depends only on its arguments and the current directory, against
// which relative paths are made absolute. Argument order:
//
//	script, --fasta_paths, --output_dir, --model_preset, --db_preset,
//	--max_template_date, [--data_dir], [--num_predictions_per_model (multimer only)]
func Build(job model.Job, cfg *config.Resolved) (model.CommandSpec, error) {
	preset := SelectPreset(job, cfg)
	if err := checkCompatible(job, preset); err != nil {
		return model.CommandSpec{}, err
	}

	outDir := OutputDir(job, cfg)
	input := job.SourcePath
	script := cfg.AlphaFoldScript
	dataDir := cfg.DataDir
	executable := cfg.Python
	if strings.ContainsRune(executable, filepath.Separator) {
		if err := absPaths(&executable); err != nil {
			return model.CommandSpec{}, err
		}
	}
	if err := absPaths(&outDir, &input, &script, &dataDir); err != nil {
		return model.CommandSpec{}, err
	}

	args := make([]string, 0, 8)
	if script != "" {
		args = append(args, script)
	}
	args = append(args,
		"--fasta_paths="+input,
		"--output_dir="+outDir,
		"--model_preset="+preset,
		"--db_preset="+cfg.DBPreset,
		"--max_template_date="+cfg.MaxTemplateDate,
	)
	if cfg.HasDataDir() {
		args = append(args, "--data_dir="+dataDir)
	}
	if job.SequenceType == model.Multimer {
		args = append(args, "--num_predictions_per_model="+strconv.Itoa(cfg.NumPredictions))
	}

	return model.CommandSpec{
		JobID:      job.ID,
		Executable: executable,
		Arguments:  args,
		WorkingDir: outDir,
	}, nil
}

func checkCompatible(job model.Job, preset string) error {
	mismatch := &ConfigMismatchError{
		JobID:        job.ID,
		SequenceType: job.SequenceType,
		Chains:       len(job.Chains),
		Preset:       preset,
	}
	switch {
	case !config.IsKnownPreset(preset):
		return mismatch
	case job.SequenceType == model.Multimer && !config.IsMultimerPreset(preset):
		return mismatch
	case job.SequenceType != model.Multimer && config.IsMultimerPreset(preset):
		return mismatch
	}
	return nil
}
