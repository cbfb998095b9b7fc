package expand

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourceplane/foldplan/internal/fasta"
	"github.com/sourceplane/foldplan/internal/model"
)

// Stem returns the file name without directory, compression suffix and extension
func Stem(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), ".gz")
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ScanDir builds a manifest from every sequence file directly under dir,
// sorted by file name, one job per file named after its stem
func ScanDir(name, dir string) (model.Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return model.Manifest{}, fmt.Errorf("failed to read input directory: %w", err)
	}

	manifest := model.Manifest{Name: name}
	for _, entry := range entries {
		if entry.IsDir() || !fasta.HasExtension(entry.Name()) {
			continue
		}
		manifest.Entries = append(manifest.Entries, model.ManifestEntry{
			ID:    Stem(entry.Name()),
			Input: filepath.Join(dir, entry.Name()),
		})
	}

	if len(manifest.Entries) == 0 {
		return model.Manifest{}, fmt.Errorf("no sequence files (%s) found in %s", strings.Join(fasta.Extensions, ", "), dir)
	}
	return manifest, nil
}

// SingleEntry wraps one input file in a manifest
func SingleEntry(input string, kind model.JobKind) model.Manifest {
	return model.Manifest{
		Name: Stem(input),
		Entries: []model.ManifestEntry{
			{ID: Stem(input), Input: input, Kind: kind},
		},
	}
}
