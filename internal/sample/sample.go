// Package sample creates demonstration FASTA inputs when a requested input is missing.
package sample

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/sourceplane/foldplan/internal/fasta"
	"github.com/sourceplane/foldplan/internal/model"
)

// Built-in sequences available for sample generation
var builtins = map[string]string{
	"insulin_chain_a": "GIVEQCCTSICSLYQLENYCN",
	"insulin_chain_b": "FVNQHLCGSHLVEALYLVCGERGFFYTPKT",
	"small_protein":   "MALWMRLLPLLALLALWGPDPAAAFVNQHLCGSHLVEALYLVCGERGFFYTPKT",
	"lysozyme":        "KVFGRCELAAAMKRHGLDNYRGYSLGNWVCAAKFESNFNTQATNRNTDGSTDYGILQINSRWWCNDGRTPGSRNLCNIPCSALLSSDITASVNCAKKIVSDGNGMNAWVAWRNRCKGTDVQAWIRGCRL",
}

// Complex types understood for multimer samples
const (
	ComplexHeterodimer = "heterodimer"
	ComplexHomodimer   = "homodimer"
	ComplexTrimer      = "trimer"
)

const fallbackSequence = "insulin_chain_a"

// ErrInputNotFound is matched when an input is absent and sample creation is disabled
var ErrInputNotFound = errors.New("input not found")

// InputNotFoundError names the missing input
type InputNotFoundError struct {
	Path string
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("input not found: %s (enable create_sample_if_missing to generate one)", e.Path)
}

func (e *InputNotFoundError) Is(target error) bool {
	return target == ErrInputNotFound
}

// Options configures a Provider
type Options struct {
	Enabled     bool
	Sequence    string
	ComplexType string
	// Sequences replaces entries in the built-in table by name
	Sequences map[string]string
}

// Provider ensures inputs exist, writing sample FASTA files when allowed
type Provider struct {
	opts      Options
	sequences map[string]string
	logger    *slog.Logger

	mkdirAll func(path string, perm os.FileMode) error
	stat     func(name string) (os.FileInfo, error)
}

// NewProvider creates a provider; a nil logger discards output
func NewProvider(opts Options, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	seqs := make(map[string]string, len(builtins)+len(opts.Sequences))
	for k, v := range builtins {
		seqs[k] = v
	}
	for k, v := range opts.Sequences {
		seqs[k] = v
	}
	return &Provider{
		opts:      opts,
		sequences: seqs,
		logger:    logger,
		mkdirAll:  os.MkdirAll,
		stat:      os.Stat,
	}
}

// Names lists the available sample sequence names
func (p *Provider) Names() []string {
	names := make([]string, 0, len(p.sequences))
	for name := range p.sequences {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnsureInput returns path unchanged if it exists. Otherwise it writes a sample
// of the requested kind when sample creation is enabled, or reports the input missing.
func (p *Provider) EnsureInput(path string, kind model.JobKind) (string, error) {
	if _, err := p.stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to stat input %s: %w", path, err)
	}

	if !p.opts.Enabled {
		return "", &InputNotFoundError{Path: path}
	}
	p.logger.Info("input missing, creating sample", "path", path, "kind", kind)
	if err := p.Create(path, kind); err != nil {
		return "", err
	}
	return path, nil
}

// Create writes a sample input of the given kind to path. A batch kind treats
// path as a directory and fills it with a mixed set of inputs.
func (p *Provider) Create(path string, kind model.JobKind) error {
	switch kind {
	case model.KindMultimer:
		return p.write(path, p.complexRecords(p.opts.ComplexType))
	case model.KindBatch:
		return p.createBatch(path)
	default:
		return p.write(path, []fasta.Record{p.record(p.opts.Sequence, "")})
	}
}

func (p *Provider) createBatch(dir string) error {
	if err := p.mkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create sample directory %s: %w", dir, err)
	}

	a := p.record("insulin_chain_a", "protein1")
	files := []struct {
		name    string
		records []fasta.Record
	}{
		{"protein1.fasta", []fasta.Record{a}},
		{"protein2.fasta", []fasta.Record{p.record("small_protein", "protein2")}},
		{"complex_heterodimer.fasta", p.complexRecords(ComplexHeterodimer)},
		{"complex_homodimer.fasta", p.complexRecords(ComplexHomodimer)},
	}
	for _, f := range files {
		if err := p.write(filepath.Join(dir, f.name), f.records); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) complexRecords(complexType string) []fasta.Record {
	switch complexType {
	case ComplexHomodimer:
		return []fasta.Record{
			p.record("insulin_chain_a", "chain_A"),
			p.record("insulin_chain_a", "chain_B"),
		}
	case ComplexTrimer:
		return []fasta.Record{
			p.record("insulin_chain_a", "chain_A"),
			p.record("insulin_chain_b", "chain_B"),
			p.record("small_protein", "chain_C"),
		}
	default:
		return []fasta.Record{
			p.record("insulin_chain_a", "chain_A"),
			p.record("insulin_chain_b", "chain_B"),
		}
	}
}

// record looks up a named sequence; unknown names fall back to insulin chain A
func (p *Provider) record(name, id string) fasta.Record {
	seq, ok := p.sequences[name]
	if !ok {
		p.logger.Warn("unknown sample sequence, using default", "name", name, "default", fallbackSequence, "available", p.Names())
		name = fallbackSequence
		seq = p.sequences[fallbackSequence]
	}
	if id == "" {
		id = name
	}
	return fasta.Record{ID: id, Description: "sample " + name, Sequence: seq}
}

func (p *Provider) write(path string, records []fasta.Record) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := p.mkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	if err := fasta.WriteFile(path, records); err != nil {
		return fmt.Errorf("failed to write sample %s: %w", path, err)
	}
	return nil
}
