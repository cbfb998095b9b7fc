package expand

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/sourceplane/foldplan/internal/fasta"
	"github.com/sourceplane/foldplan/internal/model"
	"github.com/sourceplane/foldplan/internal/normalize"
	"github.com/sourceplane/foldplan/internal/sample"
)

// ErrEmptyInput is matched when an input file holds no usable sequence
var ErrEmptyInput = errors.New("input has no sequences")

// InputProvider makes sure a requested input exists before it is read
type InputProvider interface {
	EnsureInput(path string, kind model.JobKind) (string, error)
}

// Expander turns manifest entries into jobs
type Expander struct {
	inputs InputProvider
	logger *slog.Logger
}

// NewExpander creates a new expander. With a nil provider missing inputs are reported, never created.
func NewExpander(inputs InputProvider, logger *slog.Logger) *Expander {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Expander{inputs: inputs, logger: logger}
}

// Expand reads the entry's sequence file and builds its job
func (e *Expander) Expand(entry model.ManifestEntry) (model.Job, error) {
	kind := entry.Kind
	if kind == "" {
		kind = model.KindMonomer
	}
	if kind == model.KindBatch {
		return model.Job{}, fmt.Errorf("entry %s: kind batch is only valid for an input directory", entry.ID)
	}

	path, err := e.ensure(entry.Input, kind)
	if err != nil {
		return model.Job{}, err
	}

	records, err := fasta.ReadFile(path)
	if err != nil {
		return model.Job{}, fmt.Errorf("failed to read input: %w", err)
	}
	if len(records) == 0 {
		return model.Job{}, fmt.Errorf("%s: %w", path, ErrEmptyInput)
	}

	chains, err := chainsFromRecords(records)
	if err != nil {
		return model.Job{}, fmt.Errorf("%s: %w", path, err)
	}

	id := entry.ID
	if id == "" {
		id = Stem(path)
	}
	job, err := model.NewJob(id, path, chains, entry.ModelPreset)
	if err != nil {
		return model.Job{}, err
	}

	e.logger.Debug("expanded entry", "job", job.ID, "chains", len(job.Chains), "residues", job.TotalResidues())
	return job, nil
}

func (e *Expander) ensure(path string, kind model.JobKind) (string, error) {
	if e.inputs != nil {
		return e.inputs.EnsureInput(path, kind)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &sample.InputNotFoundError{Path: path}
		}
		return "", fmt.Errorf("failed to stat input %s: %w", path, err)
	}
	return path, nil
}

// chainsFromRecords normalizes residues and keeps chain ids unique within the job
func chainsFromRecords(records []fasta.Record) ([]model.Chain, error) {
	chains := make([]model.Chain, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		residues := normalize.Residues(rec.Sequence)
		if residues == "" {
			return nil, fmt.Errorf("record %s: %w", rec.ID, ErrEmptyInput)
		}

		id := rec.ID
		if seen[id] {
			id = fmt.Sprintf("%s_%d", rec.ID, i+1)
		}
		seen[id] = true

		chains = append(chains, model.Chain{
			ID:          id,
			Description: rec.Description,
			Residues:    residues,
		})
	}
	return chains, nil
}
