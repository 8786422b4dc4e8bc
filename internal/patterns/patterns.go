// Package patterns holds the static pattern library shared by the normalizer,
// the budget governor, and the contract validator. Every table is compiled once
// at init and is read-only afterwards, so the package is safe to share across
// concurrent generation passes.
package patterns

import (
	"regexp"
	"strings"
)

// =============================================================================
// EXPLICIT TAG VOCABULARY
// =============================================================================
// Generated guide text carries bracketed tag pairs of the form [TAG]...[/TAG].
// The vocabulary is closed: unknown tags fall through to paragraph handling.

// TagName is an uppercase tag token as it appears in brackets.
type TagName string

const (
	TagInsightNote           TagName = "INSIGHT_NOTE"
	TagAlternativeView       TagName = "ALTERNATIVE_PERSPECTIVE"
	TagResearchInsight       TagName = "RESEARCH_INSIGHT"
	TagActionBox             TagName = "ACTION_BOX"
	TagApplyIt               TagName = "APPLY_IT"
	TagExercise              TagName = "EXERCISE"
	TagQuickGlance           TagName = "QUICK_GLANCE"
	TagKeyTakeaways          TagName = "KEY_TAKEAWAYS"
	TagVisualFlowchart       TagName = "VISUAL_FLOWCHART"
	TagDecisionTree          TagName = "DECISION_TREE"
	TagFramework             TagName = "FRAMEWORK"
	TagComparison            TagName = "COMPARISON"
	TagConceptMap            TagName = "CONCEPT_MAP"
	TagPremiumQuote          TagName = "PREMIUM_QUOTE"
	TagFoundationalNarrative TagName = "FOUNDATIONAL_NARRATIVE"
	TagAuthorSpotlight       TagName = "AUTHOR_SPOTLIGHT"
)

var (
	// OpenTag matches a tag-open line, capturing the tag token.
	OpenTag = regexp.MustCompile(`^\s*\[([A-Z][A-Z0-9_]*)\]\s*$`)

	// closeTags caches per-tag close matchers so the scan loop never
	// recompiles inside the hot path.
	closeTags = map[TagName]*regexp.Regexp{}
)

// KnownTags is the closed tag vocabulary in detection order.
var KnownTags = []TagName{
	TagInsightNote, TagAlternativeView, TagResearchInsight,
	TagActionBox, TagApplyIt, TagExercise,
	TagQuickGlance, TagKeyTakeaways,
	TagVisualFlowchart, TagDecisionTree, TagFramework,
	TagComparison, TagConceptMap,
	TagPremiumQuote, TagFoundationalNarrative, TagAuthorSpotlight,
}

func init() {
	for _, t := range KnownTags {
		closeTags[t] = regexp.MustCompile(`^\s*\[/` + string(t) + `\]\s*$`)
	}
}

// IsKnownTag reports whether token is part of the closed vocabulary.
func IsKnownTag(token string) bool {
	_, ok := closeTags[TagName(token)]
	return ok
}

// IsCloseTag reports whether line closes the given tag.
func IsCloseTag(tag TagName, line string) bool {
	re, ok := closeTags[tag]
	return ok && re.MatchString(line)
}

// =============================================================================
// MARKDOWN STRUCTURE
// =============================================================================

var (
	// Heading captures the marker run (1-4 hashes) and the heading text.
	Heading = regexp.MustCompile(`^\s*(#{1,4})\s+(.+?)\s*$`)

	// HorizontalRule matches ---, ***, ___ rules of length >= 3.
	HorizontalRule = regexp.MustCompile(`^\s*(-{3,}|\*{3,}|_{3,})\s*$`)

	// Blockquote captures the quoted text after the > prefix.
	Blockquote = regexp.MustCompile(`^\s*>\s?(.*)$`)

	// BulletItem captures the text after a bullet marker.
	BulletItem = regexp.MustCompile(`^\s*[-*•]\s+(.+)$`)

	// OrderedItem captures the ordinal and the text after it.
	OrderedItem = regexp.MustCompile(`^\s*(\d+)[.)]\s+(.+)$`)

	// TableRow matches a pipe-delimited row.
	TableRow = regexp.MustCompile(`^\s*\|.*\|?\s*$`)

	// TableSeparator matches pure separator rows (|---|---| and |===|===|).
	TableSeparator = regexp.MustCompile(`^\s*\|?[\s|:=-]+\|?\s*$`)

	// BoldLine matches a line that is a single bold span, capturing the text.
	// Used both for in-tag titles and for implicit block headers.
	BoldLine = regexp.MustCompile(`^\s*\*\*([^*]+)\*\*:?\s*$`)

	// InlineBold finds bold spans inside a line for markdown stripping.
	InlineBold   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	inlineItalic = regexp.MustCompile(`(^|[^*])\*([^*\s][^*]*)\*`)
	inlineCode   = regexp.MustCompile("`([^`]+)`")
)

// StripMarkdown removes inline emphasis and code markers from a line,
// preserving the wrapped text.
func StripMarkdown(line string) string {
	line = InlineBold.ReplaceAllString(line, "$1")
	line = inlineItalic.ReplaceAllString(line, "$1$2")
	line = inlineCode.ReplaceAllString(line, "$1")
	return line
}

// =============================================================================
// DIAGRAM ARTIFACTS
// =============================================================================
// Models occasionally emit ASCII-art flowcharts. Box-drawing and arrow glyph
// lines must be discarded, never rendered as prose.

var glyphRunes = map[rune]bool{
	'│': true, '─': true, '┌': true, '┐': true, '└': true, '┘': true,
	'├': true, '┤': true, '┬': true, '┴': true, '┼': true,
	'═': true, '║': true, '╔': true, '╗': true, '╚': true, '╝': true,
	'→': true, '←': true, '↑': true, '↓': true, '▼': true, '▲': true,
	'►': true, '◄': true, '⇒': true, '⇐': true,
}

// IsGlyphArt reports whether a line consists only of box-drawing/arrow glyphs,
// whitespace, and bare punctuation — an ASCII-art artifact, not content.
func IsGlyphArt(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	sawGlyph := false
	for _, r := range trimmed {
		if glyphRunes[r] {
			sawGlyph = true
			continue
		}
		switch r {
		case ' ', '\t', '-', '|', '+', '_', '=', '.', 'v', '^', '<', '>', '/', '\\':
			continue
		}
		return false
	}
	return sawGlyph
}

// ContainsGlyph reports whether any box-drawing/arrow glyph appears in s.
// The narration-readiness check uses this on block bodies.
func ContainsGlyph(s string) bool {
	for _, r := range s {
		if glyphRunes[r] {
			return true
		}
	}
	return false
}

// =============================================================================
// IMPLICIT SEMANTIC PATTERNS
// =============================================================================
// A bold header line matching one of these phrase sets opens an implicit block
// without an explicit tag pair.

// ImplicitCategory names a semantic phrase family.
type ImplicitCategory string

const (
	ImplicitInsight  ImplicitCategory = "insight"
	ImplicitAction   ImplicitCategory = "action"
	ImplicitResearch ImplicitCategory = "research"
)

// ImplicitPhrases maps each category to the lowercase phrases that trigger it.
var ImplicitPhrases = map[ImplicitCategory][]string{
	ImplicitInsight: {
		"why this matters", "why it matters", "the key insight",
		"what this means", "the deeper point",
	},
	ImplicitAction: {
		"in practice", "try this", "apply it", "put it to work",
		"your next step", "action step",
	},
	ImplicitResearch: {
		"the research shows", "studies show", "the evidence",
		"research suggests", "what the science says",
	},
}

// MatchImplicit returns the category whose phrase set matches text, if any.
// Categories are checked in a fixed order so detection is deterministic.
func MatchImplicit(text string) (ImplicitCategory, bool) {
	lower := strings.ToLower(text)
	for _, cat := range []ImplicitCategory{ImplicitInsight, ImplicitAction, ImplicitResearch} {
		for _, phrase := range ImplicitPhrases[cat] {
			if strings.Contains(lower, phrase) {
				return cat, true
			}
		}
	}
	return "", false
}

// =============================================================================
// SENTENCE AND TRANSITION PATTERNS
// =============================================================================

var (
	// SentenceBoundary matches an end-of-sentence punctuation mark followed
	// by whitespace and a capital letter (or a closing quote then capital).
	SentenceBoundary = regexp.MustCompile(`[.!?]["')\]]?\s+[A-Z"]`)

	// SentenceEnd matches terminal punctuation at end of text.
	SentenceEnd = regexp.MustCompile(`[.!?]["')\]]?\s*$`)
)

// TransitionMarkers signal a conceptual shift; the paragraph splitter closes
// the current group when a sentence carries one.
var TransitionMarkers = []string{
	"however,", "therefore,", "this means", "in other words,",
	"on the other hand,", "as a result,", "crucially,", "but here's",
	"consequently,",
}

// HasTransition reports whether the sentence contains a transition marker,
// at the start or mid-sentence.
func HasTransition(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, m := range TransitionMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// SplitSentences splits prose into sentences at boundary matches. The split
// is conservative: abbreviations followed by lowercase are left intact.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var sentences []string
	rest := text
	for {
		loc := SentenceBoundary.FindStringIndex(rest)
		if loc == nil {
			break
		}
		// Boundary includes the first rune of the next sentence; cut after
		// the punctuation and the whitespace run.
		cut := loc[0] + 1
		for cut < len(rest) && (rest[cut] == '"' || rest[cut] == '\'' || rest[cut] == ')' || rest[cut] == ']') {
			cut++
		}
		sentences = append(sentences, strings.TrimSpace(rest[:cut]))
		rest = strings.TrimLeft(rest[cut:], " \t")
	}
	if strings.TrimSpace(rest) != "" {
		sentences = append(sentences, strings.TrimSpace(rest))
	}
	return sentences
}

// =============================================================================
// MARKDOWN ARTIFACT DETECTION (validator)
// =============================================================================

// ArtifactPattern is one leftover-markup detector.
type ArtifactPattern struct {
	Name string
	Re   *regexp.Regexp
}

// MarkdownArtifacts lists markup that must never survive normalization.
// Any match inside a finished block is a normalization failure.
var MarkdownArtifacts = []ArtifactPattern{
	{"bold-marker", regexp.MustCompile(`\*\*[^*]+\*\*`)},
	{"italic-marker", regexp.MustCompile(`(^|[^*])\*[^*\s][^*]*\*`)},
	{"underline-marker", regexp.MustCompile(`__[^_]+__`)},
	{"heading-marker", regexp.MustCompile(`(?m)^\s*#{1,6}\s`)},
	{"blockquote-marker", regexp.MustCompile(`(?m)^\s*>\s`)},
	{"list-marker", regexp.MustCompile(`(?m)^\s*[-*•]\s+\S`)},
	{"code-fence", regexp.MustCompile("```")},
	{"inline-code", regexp.MustCompile("`[^`]+`")},
	{"link", regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`)},
	{"horizontal-rule", regexp.MustCompile(`(?m)^\s*(-{3,}|\*{3,}|_{3,})\s*$`)},
}

// NumberedInlineList flags prose that enumerates inline ("first, ... second,
// ... third, ...") instead of using an explicit list or framework block.
var NumberedInlineList = regexp.MustCompile(`(?i)\bfirst(ly)?\b[,:].*\bsecond(ly)?\b[,:].*\bthird(ly)?\b[,:]`)

// MultiSpace matches runs of three or more spaces, which degrade narration.
var MultiSpace = regexp.MustCompile(`   +`)

// =============================================================================
// CUT CATEGORIES (budget governor)
// =============================================================================
// Each cuttable expansion category carries phrase patterns diagnostic of it.
// CoreArgument is permanently protected and has no patterns on purpose.

// CutCategory names one expansion category in the governor's cut order.
type CutCategory string

const (
	CutExercises        CutCategory = "exercises"
	CutAnalogies        CutCategory = "cross-domain-analogies"
	CutCommentary       CutCategory = "stacked-commentary"
	CutSecondaryExample CutCategory = "secondary-examples"
	CutRestatement      CutCategory = "stylistic-restatement"

	// CoreArgument is never cuttable; it exists so configuration can be
	// validated against it by name.
	CoreArgument CutCategory = "core-argument"
)

// CutPatterns maps each cuttable category to its diagnostic patterns.
var CutPatterns = map[CutCategory][]*regexp.Regexp{
	CutExercises: {
		regexp.MustCompile(`(?i)\btry this exercise\b`),
		regexp.MustCompile(`(?i)\btake a moment to\b`),
		regexp.MustCompile(`(?i)\bpause and (reflect|consider|write)\b`),
		regexp.MustCompile(`(?i)\bask yourself\b`),
	},
	CutAnalogies: {
		regexp.MustCompile(`(?i)\b(much )?like a\b.*\b(engine|orchestra|garden|muscle|river)\b`),
		regexp.MustCompile(`(?i)\bthink of (it|this) (like|as)\b`),
		regexp.MustCompile(`(?i)\bimagine (a|an|you)\b`),
	},
	CutCommentary: {
		regexp.MustCompile(`(?i)\b(moreover|furthermore|additionally|what's more),`),
		regexp.MustCompile(`(?i)\bit('s| is) (also )?worth noting\b`),
		regexp.MustCompile(`(?i)\binterestingly,`),
	},
	CutSecondaryExample: {
		regexp.MustCompile(`(?i)\b(another|a second|yet another|one more) example\b`),
		regexp.MustCompile(`(?i)\bfor instance,.*\bfor instance,`),
		regexp.MustCompile(`(?i)\bsimilarly,`),
	},
	CutRestatement: {
		regexp.MustCompile(`(?i)\bin other words,`),
		regexp.MustCompile(`(?i)\bto put (it|this) (differently|another way)\b`),
		regexp.MustCompile(`(?i)\bsaid differently,`),
		regexp.MustCompile(`(?i)\bsimply put,`),
	},
}

// IsCuttable reports whether the named category may appear in a cut order.
func IsCuttable(c CutCategory) bool {
	_, ok := CutPatterns[c]
	return ok
}

// =============================================================================
// SYNTHESIS SENTENCES (budget governor)
// =============================================================================

// SourceType keys the synthesis sentence set to the flavor of suppressed text.
type SourceType string

const (
	SourceArgumentative SourceType = "argumentative"
	SourceNarrative     SourceType = "narrative"
	SourceTechnical     SourceType = "technical"
)

// SynthesisSentences are the fixed substitutes for suppressed material, keyed
// by detected source type. Kept deliberately short; they exist to preserve
// flow, not content.
var SynthesisSentences = map[SourceType][]string{
	SourceArgumentative: {
		"The broader point stands on its own.",
		"The same logic extends to related cases.",
	},
	SourceNarrative: {
		"The story continues along similar lines.",
		"The details follow the same arc.",
	},
	SourceTechnical: {
		"The remaining steps follow the same procedure.",
		"Further specifics follow the established pattern.",
	},
}

var (
	technicalHints = regexp.MustCompile(`(?i)\b(step|process|method|system|data|algorithm|procedure)\b`)
	narrativeHints = regexp.MustCompile(`(?i)\b(story|when (he|she|they)|once|remember(ed)?|felt|journey)\b`)
)

// DetectSourceType classifies suppressed text so the substituted synthesis
// sentence matches its register. Defaults to argumentative.
func DetectSourceType(text string) SourceType {
	if technicalHints.MatchString(text) {
		return SourceTechnical
	}
	if narrativeHints.MatchString(text) {
		return SourceNarrative
	}
	return SourceArgumentative
}

// =============================================================================
// WORD COUNTING
// =============================================================================

// WordCount counts whitespace-delimited words. All budget accounting in the
// governor goes through this one function so counts stay consistent.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
