package config

import "fmt"

// PacingProfile is a named set of editorial limits tailored to a reader type.
// The normalizer uses it to split prose and enforce pacing; the validator
// checks finished documents against the same limits.
type PacingProfile struct {
	// MaxSentencesPerBlock caps paragraph block length.
	MaxSentencesPerBlock int `yaml:"max_sentences_per_block"`

	// MaxInsightNotesPerSection caps insight-family blocks before demotion.
	MaxInsightNotesPerSection int `yaml:"max_insight_notes_per_section"`

	// MinFrameworkItems is the list-item floor below which a framework
	// block is demoted to a bullet list.
	MinFrameworkItems int `yaml:"min_framework_items"`

	// DenseProseThreshold is the word count above which a flushed paragraph
	// is split into conceptual moves.
	DenseProseThreshold int `yaml:"dense_prose_threshold"`

	// PreferShortClauses closes paragraph groups at two sentences.
	PreferShortClauses bool `yaml:"prefer_short_clauses"`
}

// Validate checks profile limits; a bad profile is a configuration error and
// fails immediately.
func (p PacingProfile) Validate() error {
	if p.MaxSentencesPerBlock < 1 {
		return fmt.Errorf("max_sentences_per_block must be >= 1")
	}
	if p.MaxInsightNotesPerSection < 0 {
		return fmt.Errorf("max_insight_notes_per_section must be >= 0")
	}
	if p.MinFrameworkItems < 2 {
		return fmt.Errorf("min_framework_items must be >= 2")
	}
	if p.DenseProseThreshold < 1 {
		return fmt.Errorf("dense_prose_threshold must be >= 1")
	}
	return nil
}

// BuiltinProfiles returns the shipped reader profiles.
func BuiltinProfiles() map[string]PacingProfile {
	return map[string]PacingProfile{
		"deep-dive": {
			MaxSentencesPerBlock:      5,
			MaxInsightNotesPerSection: 2,
			MinFrameworkItems:         3,
			DenseProseThreshold:       90,
			PreferShortClauses:        false,
		},
		"quick-read": {
			MaxSentencesPerBlock:      3,
			MaxInsightNotesPerSection: 1,
			MinFrameworkItems:         3,
			DenseProseThreshold:       60,
			PreferShortClauses:        true,
		},
		"narrative": {
			MaxSentencesPerBlock:      6,
			MaxInsightNotesPerSection: 1,
			MinFrameworkItems:         4,
			DenseProseThreshold:       110,
			PreferShortClauses:        false,
		},
	}
}
