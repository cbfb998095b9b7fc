package config

import "sort"

// Resolved is the validated, flattened configuration for one run.
// The typed fields mirror values already checked by the resolver.
type Resolved struct {
	values  map[string]any
	sources map[string]Source

	Mode            PredictionMode
	ModelPreset     string
	MultimerPreset  string
	NumPredictions  int
	DBPreset        string
	MaxTemplateDate string

	DemoMode              bool
	CreateSampleIfMissing bool
	MSAReuse              bool
	MaxConcurrent         int
	SampleSequence        string
	SampleComplexType     string
	SampleSequences       map[string]string

	OutputDir       string
	DataDir         string
	Python          string
	AlphaFoldScript string

	FullDBsFactor  float64
	MSAReuseFactor float64
	Cores          int

	LogLevel string
}

// Get returns the merged value for a flattened key
func (r *Resolved) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return copyValue(v), ok
}

// Source returns which layer supplied the value for key
func (r *Resolved) Source(key string) Source {
	return r.sources[key]
}

// Keys returns all merged keys in sorted order
func (r *Resolved) Keys() []string {
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HasDataDir reports whether a database directory was configured
func (r *Resolved) HasDataDir() bool {
	return r.DataDir != ""
}

// UsesFullDBs reports whether the full database set is selected
func (r *Resolved) UsesFullDBs() bool {
	return r.DBPreset == DatabasePresetFullDBs
}
