package model

// JobKind selects the kind of input a request expects
type JobKind string

const (
	KindMonomer  JobKind = "monomer"
	KindMultimer JobKind = "multimer"
	KindBatch    JobKind = "batch"
)

// Manifest is an ordered list of prediction requests
type Manifest struct {
	Name    string          `yaml:"name" json:"name"`
	Entries []ManifestEntry `yaml:"entries" json:"entries"`
}

// ManifestEntry is one requested job before expansion
type ManifestEntry struct {
	ID          string  `yaml:"id" json:"id"`
	Input       string  `yaml:"input" json:"input"`
	Kind        JobKind `yaml:"kind,omitempty" json:"kind,omitempty"`
	ModelPreset string  `yaml:"model_preset,omitempty" json:"model_preset,omitempty"`
	Enabled     *bool   `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// IsEnabled defaults to true when the entry does not say otherwise
func (e ManifestEntry) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}
