package config

import (
	"fmt"

	"insightatlas/internal/patterns"
)

// GovernorPolicy configures the streaming budget governor for one generation
// pass. The policy is supplied by the caller; the governor itself never
// hard-codes thresholds (ceiling tolerance and cut order are product tuning).
type GovernorPolicy struct {
	// MaxWordCeiling is the hard word limit. Crossing it terminates the pass.
	MaxWordCeiling int `yaml:"max_word_ceiling"`

	// TargetBudget is the intended total length, derived from source length.
	TargetBudget int `yaml:"target_budget"`

	// CutTriggerRatio activates the cut policy once projected utilization
	// (words / target) meets it. Range 0-1.
	CutTriggerRatio float64 `yaml:"cut_trigger_ratio"`

	// CutOrder lists expansion categories in suppression priority order.
	// The core-argument category is permanently protected and may not appear.
	CutOrder []string `yaml:"cut_order"`

	// MaxSynthesisPerSection caps synthesis substitutions per section; once
	// exhausted, suppressed spans are omitted outright.
	MaxSynthesisPerSection int `yaml:"max_synthesis_per_section"`

	// OverageTolerance softens the ceiling: the effective ceiling is
	// MaxWordCeiling * (1 + OverageTolerance). Zero means strict enforcement.
	OverageTolerance float64 `yaml:"overage_tolerance"`
}

// DefaultGovernorPolicy returns a policy sized for a medium-length guide.
func DefaultGovernorPolicy() GovernorPolicy {
	return GovernorPolicy{
		MaxWordCeiling:  8000,
		TargetBudget:    7000,
		CutTriggerRatio: 0.85,
		CutOrder: []string{
			string(patterns.CutRestatement),
			string(patterns.CutCommentary),
			string(patterns.CutSecondaryExample),
			string(patterns.CutAnalogies),
			string(patterns.CutExercises),
		},
		MaxSynthesisPerSection: 2,
		OverageTolerance:       0,
	}
}

// Validate checks the policy. Listing the protected core-argument category in
// the cut order is rejected here rather than silently ignored at runtime.
func (p GovernorPolicy) Validate() error {
	if p.MaxWordCeiling < 1 {
		return fmt.Errorf("max_word_ceiling must be >= 1")
	}
	if p.TargetBudget < 1 {
		return fmt.Errorf("target_budget must be >= 1")
	}
	if p.TargetBudget > p.MaxWordCeiling {
		return fmt.Errorf("target_budget (%d) must not exceed max_word_ceiling (%d)", p.TargetBudget, p.MaxWordCeiling)
	}
	if p.CutTriggerRatio < 0 || p.CutTriggerRatio > 1 {
		return fmt.Errorf("cut_trigger_ratio must be in [0,1]")
	}
	if p.MaxSynthesisPerSection < 0 {
		return fmt.Errorf("max_synthesis_per_section must be >= 0")
	}
	if p.OverageTolerance < 0 || p.OverageTolerance > 0.5 {
		return fmt.Errorf("overage_tolerance must be in [0,0.5]")
	}
	for _, name := range p.CutOrder {
		cat := patterns.CutCategory(name)
		if cat == patterns.CoreArgument {
			return fmt.Errorf("cut_order must not include the protected %q category", name)
		}
		if !patterns.IsCuttable(cat) {
			return fmt.Errorf("unknown cut category %q", name)
		}
	}
	return nil
}

// EffectiveCeiling returns the ceiling after applying the overage tolerance.
func (p GovernorPolicy) EffectiveCeiling() int {
	return int(float64(p.MaxWordCeiling) * (1 + p.OverageTolerance))
}
