package config

// PredictionMode is the kind of tool a configuration is resolved for
type PredictionMode string

const (
	ModeMonomer  PredictionMode = "monomer"
	ModeMultimer PredictionMode = "multimer"
	ModeBatch    PredictionMode = "batch"
)

const (
	DefaultModelPreset       = "monomer"
	DefaultMultimerPreset    = "multimer"
	DefaultNumPredictions    = 5
	DefaultDBPreset          = "reduced_dbs"
	DefaultMaxTemplateDate   = "2022-01-01"
	DefaultMaxConcurrent     = 1
	DefaultSampleSequence    = "insulin_chain_a"
	DefaultSampleComplexType = "heterodimer"
	DefaultOutputDir         = "results"
	DefaultPython            = "python3"
	DefaultAlphaFoldScript   = "repo/alphafold/run_alphafold.py"
	DefaultFullDBsFactor     = 4.0
	DefaultMSAReuseFactor    = 0.1
	DefaultCores             = 8
	DefaultLogLevel          = "info"
)

const (
	DatabasePresetReducedDBs = "reduced_dbs"
	DatabasePresetFullDBs    = "full_dbs"
)

// Keys used throughout the resolver
const (
	KeyModelMode         = "model.mode"
	KeyModelPreset       = "model.preset"
	KeyMultimerPreset    = "model.multimer_preset"
	KeyNumPredictions    = "model.num_predictions_per_model"
	KeyDBPreset          = "database.preset"
	KeyMaxTemplateDate   = "database.max_template_date"
	KeyDemoMode          = "execution.demo_mode"
	KeyCreateSample      = "execution.create_sample_if_missing"
	KeyMSAReuse          = "execution.msa_reuse"
	KeyMaxConcurrent     = "execution.max_concurrent"
	KeySampleSequence    = "execution.sample_sequence"
	KeySampleComplexType = "execution.sample_complex_type"
	KeyOutputDir         = "paths.output_dir"
	KeyDataDir           = "paths.data_dir"
	KeyPython            = "paths.python"
	KeyAlphaFoldScript   = "paths.alphafold_script"
	KeyFullDBsFactor     = "estimate.full_dbs_factor"
	KeyMSAReuseFactor    = "estimate.msa_reuse_factor"
	KeyCores             = "estimate.cores"
	KeyLogLevel          = "logging.level"
	KeySampleSequences   = sampleSequencesKey
)

// RequiredKeys must be present after every merge
var RequiredKeys = []string{
	KeyModelPreset,
	KeyDBPreset,
	KeyMaxTemplateDate,
	KeyDemoMode,
	KeyOutputDir,
}

var (
	MonomerPresets  = []string{"monomer", "monomer_casp14", "monomer_ptm"}
	MultimerPresets = []string{"multimer"}
	DatabasePresets = []string{DatabasePresetReducedDBs, DatabasePresetFullDBs}
)

// IsMonomerPreset reports whether p is a single-chain model preset
func IsMonomerPreset(p string) bool {
	return contains(MonomerPresets, p)
}

// IsMultimerPreset reports whether p is a multi-chain model preset
func IsMultimerPreset(p string) bool {
	return contains(MultimerPresets, p)
}

// IsKnownPreset reports whether p is any supported model preset
func IsKnownPreset(p string) bool {
	return IsMonomerPreset(p) || IsMultimerPreset(p)
}

// Defaults returns the built-in default layer. It is constructed fresh for
// each run and passed to the resolver explicitly.
func Defaults() Layer {
	return NewLayer(SourceDefault, map[string]any{
		KeyModelMode:         string(ModeMonomer),
		KeyModelPreset:       DefaultModelPreset,
		KeyMultimerPreset:    DefaultMultimerPreset,
		KeyNumPredictions:    DefaultNumPredictions,
		KeyDBPreset:          DefaultDBPreset,
		KeyMaxTemplateDate:   DefaultMaxTemplateDate,
		KeyDemoMode:          true,
		KeyCreateSample:      true,
		KeyMSAReuse:          true,
		KeyMaxConcurrent:     DefaultMaxConcurrent,
		KeySampleSequence:    DefaultSampleSequence,
		KeySampleComplexType: DefaultSampleComplexType,
		KeyOutputDir:         DefaultOutputDir,
		KeyDataDir:           nil,
		KeyPython:            DefaultPython,
		KeyAlphaFoldScript:   DefaultAlphaFoldScript,
		KeyFullDBsFactor:     DefaultFullDBsFactor,
		KeyMSAReuseFactor:    DefaultMSAReuseFactor,
		KeyCores:             DefaultCores,
		KeyLogLevel:          DefaultLogLevel,
	})
}

// ToolDefaults returns the tool-specific layer for a prediction mode
func ToolDefaults(mode PredictionMode) Layer {
	switch mode {
	case ModeMultimer:
		return NewLayer(SourceTool, map[string]any{
			KeyModelMode:   string(ModeMultimer),
			KeyModelPreset: DefaultMultimerPreset,
			KeyOutputDir:   "results/multimer_prediction",
		})
	case ModeBatch:
		return NewLayer(SourceTool, map[string]any{
			KeyModelMode: string(ModeBatch),
			KeyOutputDir: "results/batch_prediction",
		})
	default:
		return NewLayer(SourceTool, map[string]any{
			KeyModelMode:   string(ModeMonomer),
			KeyModelPreset: DefaultModelPreset,
			KeyOutputDir:   "results/monomer_prediction",
		})
	}
}

func contains(slice []string, item string) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}
