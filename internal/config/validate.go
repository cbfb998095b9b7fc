package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"
)

// ErrConfigValidation is matched by every configuration validation failure
var ErrConfigValidation = errors.New("config validation failed")

// ValidationError contains details about what failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config.%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrConfigValidation
}

var templateDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// validate checks merged values in a fixed order and stops at the first violation.
func validate(values map[string]any, sources map[string]Source) (*Resolved, error) {
	for _, key := range RequiredKeys {
		if v, ok := values[key]; !ok || v == nil {
			return nil, &ValidationError{Field: key, Value: v, Message: "is required"}
		}
	}

	r := &Resolved{values: values, sources: sources}

	modeStr, err := optString(values, KeyModelMode, string(ModeMonomer))
	if err != nil {
		return nil, err
	}
	r.Mode = PredictionMode(modeStr)
	switch r.Mode {
	case ModeMonomer, ModeMultimer, ModeBatch:
	default:
		return nil, &ValidationError{Field: KeyModelMode, Value: modeStr, Message: "must be one of: monomer, multimer, batch"}
	}

	if r.ModelPreset, err = reqString(values, KeyModelPreset); err != nil {
		return nil, err
	}
	if err := checkPresetForMode(r.Mode, r.ModelPreset); err != nil {
		return nil, err
	}
	if r.MultimerPreset, err = optString(values, KeyMultimerPreset, DefaultMultimerPreset); err != nil {
		return nil, err
	}
	if !IsMultimerPreset(r.MultimerPreset) {
		return nil, &ValidationError{Field: KeyMultimerPreset, Value: r.MultimerPreset, Message: fmt.Sprintf("must be one of: %v", MultimerPresets)}
	}

	if r.DBPreset, err = reqString(values, KeyDBPreset); err != nil {
		return nil, err
	}
	if !contains(DatabasePresets, r.DBPreset) {
		return nil, &ValidationError{Field: KeyDBPreset, Value: r.DBPreset, Message: fmt.Sprintf("must be one of: %v", DatabasePresets)}
	}

	if r.MaxTemplateDate, err = reqString(values, KeyMaxTemplateDate); err != nil {
		return nil, err
	}
	if err := checkTemplateDate(r.MaxTemplateDate); err != nil {
		return nil, err
	}

	// Existence is checked later by the orchestrator, exactly once.
	if r.DataDir, err = optString(values, KeyDataDir, ""); err != nil {
		return nil, err
	}

	if r.DemoMode, err = reqBool(values, KeyDemoMode); err != nil {
		return nil, err
	}
	if r.OutputDir, err = reqString(values, KeyOutputDir); err != nil {
		return nil, err
	}
	if r.OutputDir == "" {
		return nil, &ValidationError{Field: KeyOutputDir, Value: r.OutputDir, Message: "must not be empty"}
	}

	if err := r.readOptional(values); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Resolved) readOptional(values map[string]any) error {
	var err error
	if r.NumPredictions, err = optInt(values, KeyNumPredictions, DefaultNumPredictions); err != nil {
		return err
	}
	if r.NumPredictions < 1 {
		return &ValidationError{Field: KeyNumPredictions, Value: r.NumPredictions, Message: "must be at least 1"}
	}
	if r.CreateSampleIfMissing, err = optBool(values, KeyCreateSample, true); err != nil {
		return err
	}
	if r.MSAReuse, err = optBool(values, KeyMSAReuse, true); err != nil {
		return err
	}
	if r.MaxConcurrent, err = optInt(values, KeyMaxConcurrent, DefaultMaxConcurrent); err != nil {
		return err
	}
	if r.MaxConcurrent < 1 {
		return &ValidationError{Field: KeyMaxConcurrent, Value: r.MaxConcurrent, Message: "must be at least 1"}
	}
	if r.SampleSequence, err = optString(values, KeySampleSequence, DefaultSampleSequence); err != nil {
		return err
	}
	if r.SampleComplexType, err = optString(values, KeySampleComplexType, DefaultSampleComplexType); err != nil {
		return err
	}
	if r.Python, err = optString(values, KeyPython, DefaultPython); err != nil {
		return err
	}
	if r.Python == "" {
		return &ValidationError{Field: KeyPython, Value: r.Python, Message: "must not be empty"}
	}
	if r.AlphaFoldScript, err = optString(values, KeyAlphaFoldScript, DefaultAlphaFoldScript); err != nil {
		return err
	}
	if r.FullDBsFactor, err = optFloat(values, KeyFullDBsFactor, DefaultFullDBsFactor); err != nil {
		return err
	}
	if r.FullDBsFactor <= 0 {
		return &ValidationError{Field: KeyFullDBsFactor, Value: r.FullDBsFactor, Message: "must be positive"}
	}
	if r.MSAReuseFactor, err = optFloat(values, KeyMSAReuseFactor, DefaultMSAReuseFactor); err != nil {
		return err
	}
	if r.MSAReuseFactor < 0 || r.MSAReuseFactor > 1 {
		return &ValidationError{Field: KeyMSAReuseFactor, Value: r.MSAReuseFactor, Message: "must be between 0 and 1"}
	}
	if r.Cores, err = optInt(values, KeyCores, DefaultCores); err != nil {
		return err
	}
	if r.Cores < 1 {
		return &ValidationError{Field: KeyCores, Value: r.Cores, Message: "must be at least 1"}
	}
	if r.LogLevel, err = optString(values, KeyLogLevel, DefaultLogLevel); err != nil {
		return err
	}
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[r.LogLevel] {
		return &ValidationError{Field: KeyLogLevel, Value: r.LogLevel, Message: "must be one of: debug, info, warn, error"}
	}
	if seqs, ok := values[KeySampleSequences]; ok && seqs != nil {
		m, convErr := toStringMap(seqs)
		if convErr != nil {
			return &ValidationError{Field: KeySampleSequences, Value: seqs, Message: convErr.Error()}
		}
		r.SampleSequences = m
	}
	return nil
}

func checkPresetForMode(mode PredictionMode, preset string) error {
	var allowed []string
	switch mode {
	case ModeMonomer:
		allowed = MonomerPresets
	case ModeMultimer:
		allowed = MultimerPresets
	default:
		allowed = append(append([]string{}, MonomerPresets...), MultimerPresets...)
	}
	if !contains(allowed, preset) {
		return &ValidationError{
			Field:   KeyModelPreset,
			Value:   preset,
			Message: fmt.Sprintf("unknown preset for %s mode, must be one of: %v", mode, allowed),
		}
	}
	return nil
}

func checkTemplateDate(date string) error {
	if !templateDatePattern.MatchString(date) {
		return &ValidationError{Field: KeyMaxTemplateDate, Value: date, Message: "must match YYYY-MM-DD"}
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return &ValidationError{Field: KeyMaxTemplateDate, Value: date, Message: "is not a valid calendar date"}
	}
	return nil
}

func reqString(values map[string]any, key string) (string, error) {
	s, ok := values[key].(string)
	if !ok {
		return "", &ValidationError{Field: key, Value: values[key], Message: "must be a string"}
	}
	return s, nil
}

func optString(values map[string]any, key, fallback string) (string, error) {
	v, ok := values[key]
	if !ok || v == nil {
		return fallback, nil
	}
	return reqString(values, key)
}

func reqBool(values map[string]any, key string) (bool, error) {
	b, ok := values[key].(bool)
	if !ok {
		return false, &ValidationError{Field: key, Value: values[key], Message: "must be a boolean"}
	}
	return b, nil
}

func optBool(values map[string]any, key string, fallback bool) (bool, error) {
	v, ok := values[key]
	if !ok || v == nil {
		return fallback, nil
	}
	return reqBool(values, key)
}

func optInt(values map[string]any, key string, fallback int) (int, error) {
	v, ok := values[key]
	if !ok || v == nil {
		return fallback, nil
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, &ValidationError{Field: key, Value: v, Message: "must be an integer"}
	}
	return int(f), nil
}

func optFloat(values map[string]any, key string, fallback float64) (float64, error) {
	v, ok := values[key]
	if !ok || v == nil {
		return fallback, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, &ValidationError{Field: key, Value: v, Message: "must be a number"}
	}
	return f, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
