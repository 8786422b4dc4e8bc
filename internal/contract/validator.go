package contract

import (
	"fmt"
	"strings"

	"insightatlas/internal/config"
	"insightatlas/internal/editorial"
	"insightatlas/internal/patterns"
)

// visualDensityCeiling is the fraction of visually-rich blocks above which a
// document reads as a slide deck rather than a guide.
const visualDensityCeiling = 0.30

// reflectionRadius is how many positions around a quote or insight block must
// stay visual-free.
const reflectionRadius = 2

// Validate checks the document against the output contract and the pacing
// profile. Pure: the document is only read, and equal inputs yield equal
// reports.
func Validate(doc editorial.Document, profile config.PacingProfile) Report {
	v := &validator{doc: doc, profile: profile}

	v.checkStructure()
	v.checkMarkdownArtifacts()
	v.checkVisualDensity()
	v.checkSentenceLimits()
	v.checkImplicitFrameworks()
	v.checkMixedIntent()
	v.checkVisualPlacement()
	v.checkNarrationReadiness()
	v.checkProfileConsistency()

	return buildReport(v.issues)
}

type validator struct {
	doc     editorial.Document
	profile config.PacingProfile
	issues  []Issue
}

func (v *validator) add(sev Severity, category string, blockIndex int, format string, args ...interface{}) {
	v.issues = append(v.issues, Issue{
		Severity:   sev,
		Category:   category,
		Message:    fmt.Sprintf(format, args...),
		BlockIndex: blockIndex,
	})
}

// =============================================================================
// CHECKS
// =============================================================================

// checkStructure flags an empty document and contentless blocks.
func (v *validator) checkStructure() {
	if len(v.doc.Blocks) == 0 {
		v.add(SeverityError, CategoryStructure, NoBlock, "document has no blocks")
		return
	}
	for i, b := range v.doc.Blocks {
		if b.Kind == editorial.KindDivider {
			continue
		}
		if b.IsEmpty() {
			v.add(SeverityError, CategoryStructure, i, "%s block has no content", b.Kind)
		}
	}
}

// checkMarkdownArtifacts scans every block's text surfaces for leftover
// markup. By this stage all markup should have become block structure, so
// any survivor is a normalization failure.
func (v *validator) checkMarkdownArtifacts() {
	for i, b := range v.doc.Blocks {
		for _, surface := range textSurfaces(b) {
			for _, ap := range patterns.MarkdownArtifacts {
				if ap.Re.MatchString(surface) {
					v.add(SeverityError, CategoryMarkdownArtifact, i,
						"unresolved %s in %s block", ap.Name, b.Kind)
				}
			}
		}
	}
}

// textSurfaces collects the scannable text of a block: title, body, and list
// items.
func textSurfaces(b editorial.Block) []string {
	surfaces := make([]string, 0, 2+len(b.ListItems))
	if b.Title != "" {
		surfaces = append(surfaces, b.Title)
	}
	if b.Body != "" {
		surfaces = append(surfaces, b.Body)
	}
	surfaces = append(surfaces, b.ListItems...)
	return surfaces
}

func (v *validator) checkVisualDensity() {
	if len(v.doc.Blocks) == 0 {
		return
	}
	visual := 0
	for _, b := range v.doc.Blocks {
		if b.Kind.IsVisuallyRich() {
			visual++
		}
	}
	density := float64(visual) / float64(len(v.doc.Blocks))
	if density > visualDensityCeiling {
		v.add(SeverityWarning, CategoryVisualDensity, NoBlock,
			"%.0f%% of blocks are visually rich (ceiling %.0f%%)",
			density*100, visualDensityCeiling*100)
	}
}

func (v *validator) checkSentenceLimits() {
	for i, b := range v.doc.Blocks {
		if b.Kind != editorial.KindParagraph {
			continue
		}
		n := len(patterns.SplitSentences(b.Body))
		if n > v.profile.MaxSentencesPerBlock {
			v.add(SeverityWarning, CategorySentenceLimit, i,
				"paragraph has %d sentences, profile allows %d", n, v.profile.MaxSentencesPerBlock)
		}
	}
}

// checkImplicitFrameworks flags prose that enumerates inline instead of using
// an explicit list or framework block.
func (v *validator) checkImplicitFrameworks() {
	for i, b := range v.doc.Blocks {
		if b.Kind != editorial.KindParagraph {
			continue
		}
		if patterns.NumberedInlineList.MatchString(b.Body) {
			v.add(SeverityWarning, CategoryImplicitFramework, i,
				"inline enumeration should be an explicit framework or list block")
		}
	}
}

// checkMixedIntent flags blocks whose body matches more than one implicit
// phrase category; each block should carry exactly one conceptual move.
func (v *validator) checkMixedIntent() {
	for i, b := range v.doc.Blocks {
		if b.Body == "" {
			continue
		}
		lower := strings.ToLower(b.Body)
		var matched []string
		for cat, phrases := range patterns.ImplicitPhrases {
			for _, phrase := range phrases {
				if strings.Contains(lower, phrase) {
					matched = append(matched, string(cat))
					break
				}
			}
		}
		if len(matched) > 1 {
			v.add(SeverityWarning, CategoryMixedIntent, i,
				"block mixes %d conceptual moves", len(matched))
		}
	}
}

// checkVisualPlacement enforces the two placement rules: reflection zones
// (near quotes and insights) stay visual-free, and a section never opens
// with a visual before narrative grounding.
func (v *validator) checkVisualPlacement() {
	blocks := v.doc.Blocks
	for i, b := range blocks {
		if !b.Kind.IsVisuallyRich() {
			continue
		}

		for j := max(0, i-reflectionRadius); j <= min(len(blocks)-1, i+reflectionRadius); j++ {
			if j == i {
				continue
			}
			fam := blocks[j].Kind.Family()
			if fam == editorial.FamilyQuote || fam == editorial.FamilyInsight {
				v.add(SeverityWarning, CategoryVisualPlacement, i,
					"%s block within %d positions of a %s block", b.Kind, reflectionRadius, blocks[j].Kind)
				break
			}
		}

		if i > 0 && blocks[i-1].Kind == editorial.KindSectionHeader {
			v.add(SeverityWarning, CategoryVisualPlacement, i,
				"%s block opens a section; visuals must follow narrative grounding", b.Kind)
		}
	}
}

// checkNarrationReadiness flags characters and spacing that degrade audio
// narration downstream.
func (v *validator) checkNarrationReadiness() {
	for i, b := range v.doc.Blocks {
		if b.Body == "" {
			continue
		}
		if patterns.ContainsGlyph(b.Body) {
			v.add(SeverityWarning, CategoryNarration, i, "body contains diagram glyphs")
			continue
		}
		if hasNonASCII(b.Body) {
			v.add(SeverityInfo, CategoryNarration, i, "body contains non-ASCII characters")
		}
		if patterns.MultiSpace.MatchString(b.Body) {
			v.add(SeverityWarning, CategoryNarration, i, "body contains runs of 3+ spaces")
		}
	}
}

func hasNonASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return true
		}
	}
	return false
}

// checkProfileConsistency re-checks the pacing limits the normalizer should
// have enforced. Violations are warnings: the document is publishable, the
// pacing pass just missed something.
func (v *validator) checkProfileConsistency() {
	insightsInSection := 0
	for i, b := range v.doc.Blocks {
		if b.Kind == editorial.KindPartHeader || b.Kind == editorial.KindSectionHeader {
			insightsInSection = 0
		}
		if b.Kind.Family() == editorial.FamilyInsight {
			insightsInSection++
			if insightsInSection > v.profile.MaxInsightNotesPerSection {
				v.add(SeverityWarning, CategoryProfile, i,
					"section exceeds %d insight blocks", v.profile.MaxInsightNotesPerSection)
			}
		}
		if b.Kind == editorial.KindFramework && len(b.ListItems) < v.profile.MinFrameworkItems {
			v.add(SeverityWarning, CategoryProfile, i,
				"framework has %d items, minimum is %d", len(b.ListItems), v.profile.MinFrameworkItems)
		}
	}
}
