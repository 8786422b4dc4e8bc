// Package editorial turns raw model output into a strongly-typed document.
// The Block taxonomy is closed: every consumer switches exhaustively on Kind,
// so adding a kind forces every consumption site to handle it.
package editorial

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FormatVersion is stamped on every Document the normalizer produces.
// Bump only when renderers must distinguish old documents.
const FormatVersion = 3

// Kind identifies one block type from the closed taxonomy.
type Kind string

const (
	// Structural
	KindPartHeader       Kind = "part-header"
	KindSectionHeader    Kind = "section-header"
	KindSubsectionHeader Kind = "subsection-header"
	KindMinorHeader      Kind = "minor-header"
	KindDivider          Kind = "divider"

	// Narrative
	KindParagraph             Kind = "paragraph"
	KindFoundationalNarrative Kind = "foundational-narrative"
	KindAuthorSpotlight       Kind = "author-spotlight"

	// Summary
	KindQuickGlance  Kind = "quick-glance"
	KindKeyTakeaways Kind = "key-takeaways"

	// Insight
	KindInsightNote            Kind = "insight-note"
	KindAlternativePerspective Kind = "alternative-perspective"
	KindResearchInsight        Kind = "research-insight"

	// Quote
	KindPremiumQuote Kind = "premium-quote"
	KindBlockquote   Kind = "blockquote"

	// Framework / visual
	KindFramework    Kind = "framework"
	KindDecisionTree Kind = "decision-tree"
	KindProcessFlow  Kind = "process-flow"
	KindComparison   Kind = "comparison"
	KindConceptMap   Kind = "concept-map"

	// Action
	KindApplyIt   Kind = "apply-it"
	KindActionBox Kind = "action-box"
	KindExercise  Kind = "exercise"

	// List
	KindBulletList   Kind = "bullet-list"
	KindNumberedList Kind = "numbered-list"

	// Table / visual asset
	KindTable  Kind = "table"
	KindVisual Kind = "visual"
)

// Family groups kinds for pacing and density rules.
type Family string

const (
	FamilyStructural Family = "structural"
	FamilyNarrative  Family = "narrative"
	FamilySummary    Family = "summary"
	FamilyInsight    Family = "insight"
	FamilyQuote      Family = "quote"
	FamilyFramework  Family = "framework"
	FamilyAction     Family = "action"
	FamilyList       Family = "list"
	FamilyTable      Family = "table"
	FamilyVisual     Family = "visual"
)

// Family returns the family a kind belongs to.
func (k Kind) Family() Family {
	switch k {
	case KindPartHeader, KindSectionHeader, KindSubsectionHeader, KindMinorHeader, KindDivider:
		return FamilyStructural
	case KindParagraph, KindFoundationalNarrative, KindAuthorSpotlight:
		return FamilyNarrative
	case KindQuickGlance, KindKeyTakeaways:
		return FamilySummary
	case KindInsightNote, KindAlternativePerspective, KindResearchInsight:
		return FamilyInsight
	case KindPremiumQuote, KindBlockquote:
		return FamilyQuote
	case KindFramework, KindDecisionTree, KindProcessFlow, KindComparison, KindConceptMap:
		return FamilyFramework
	case KindApplyIt, KindActionBox, KindExercise:
		return FamilyAction
	case KindBulletList, KindNumberedList:
		return FamilyList
	case KindTable:
		return FamilyTable
	case KindVisual:
		return FamilyVisual
	default:
		return FamilyNarrative
	}
}

// IsVisuallyRich reports whether a kind gets heavyweight visual treatment.
// Density and placement rules apply only to these.
func (k Kind) IsVisuallyRich() bool {
	switch k {
	case KindFramework, KindDecisionTree, KindProcessFlow, KindComparison, KindConceptMap:
		return true
	}
	return false
}

// IsHeader reports whether a kind is a structural header (not divider).
func (k Kind) IsHeader() bool {
	switch k {
	case KindPartHeader, KindSectionHeader, KindSubsectionHeader, KindMinorHeader:
		return true
	}
	return false
}

// Attribution records the provenance of quoted or cited material.
type Attribution struct {
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	Publication string `json:"publication,omitempty" yaml:"publication,omitempty"`
	Year        int    `json:"year,omitempty" yaml:"year,omitempty"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Branch is one arm of a decision tree.
type Branch struct {
	Condition string `json:"condition" yaml:"condition"`
	Outcome   string `json:"outcome" yaml:"outcome"`
}

// Block is the atomic unit of editorial content. Blocks are created once by
// the normalizer and never mutated in place afterwards; the only sanctioned
// rewrite is demotion, which returns a copy with a lesser Kind.
type Block struct {
	ID    string `json:"id" yaml:"id"`
	Kind  Kind   `json:"kind" yaml:"kind"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Body  string `json:"body,omitempty" yaml:"body,omitempty"`

	// Structured payloads. Which field is meaningful is determined by Kind:
	// ListItems for list/framework/action/summary kinds, TableRows for
	// table/comparison, Steps for process-flow, Branches for decision-tree.
	ListItems []string   `json:"list_items,omitempty" yaml:"list_items,omitempty"`
	TableRows [][]string `json:"table_rows,omitempty" yaml:"table_rows,omitempty"`
	Steps     []string   `json:"steps,omitempty" yaml:"steps,omitempty"`
	Branches  []Branch   `json:"branches,omitempty" yaml:"branches,omitempty"`

	Attribution *Attribution `json:"attribution,omitempty" yaml:"attribution,omitempty"`

	// Intent carries the explanatory note attached by a demotion rewrite.
	// Empty for blocks that were never demoted.
	Intent string `json:"intent,omitempty" yaml:"intent,omitempty"`
}

// IsEmpty reports whether the block carries no content at all.
func (b Block) IsEmpty() bool {
	return b.Title == "" && b.Body == "" &&
		len(b.ListItems) == 0 && len(b.TableRows) == 0 &&
		len(b.Steps) == 0 && len(b.Branches) == 0
}

// blockNamespace seeds deterministic block IDs. Normalization must be
// idempotent, so IDs derive from position and content, not randomness.
var blockNamespace = uuid.MustParse("8f2f6f3a-1b44-4c5e-9f7d-2ab0e1c44d10")

// assignID gives the block a stable identifier derived from its ordinal
// position and content. Identical input always yields identical IDs.
func assignID(b *Block, ordinal int) {
	seed := fmt.Sprintf("%d|%s|%s|%s|%d|%d", ordinal, b.Kind, b.Title, b.Body, len(b.ListItems), len(b.TableRows))
	b.ID = uuid.NewSHA1(blockNamespace, []byte(seed)).String()
}

// Document is an ordered sequence of blocks plus metadata. Order is reading
// order and is never rearranged after creation.
type Document struct {
	Title         string    `json:"title" yaml:"title"`
	Author        string    `json:"author" yaml:"author"`
	GeneratedAt   time.Time `json:"generated_at" yaml:"generated_at"`
	FormatVersion int       `json:"format_version" yaml:"format_version"`
	Blocks        []Block   `json:"blocks" yaml:"blocks"`
}

// SectionCount returns the number of section-level headers in the document.
func (d Document) SectionCount() int {
	n := 0
	for _, b := range d.Blocks {
		if b.Kind == KindSectionHeader {
			n++
		}
	}
	return n
}
