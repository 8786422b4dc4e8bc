// Package contract verifies that a normalized document satisfies the output
// contract: no leftover markup, sane density and pacing, narration-safe text.
// Validation is a pure function of the document and the pacing profile; it
// never mutates the document and produces a fresh report on every call.
package contract

import "fmt"

// Severity ranks an issue. Only errors invalidate a document.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue categories.
const (
	CategoryMarkdownArtifact  = "markdown-artifact"
	CategoryStructure         = "structure"
	CategoryVisualDensity     = "visual-density"
	CategorySentenceLimit     = "sentence-limit"
	CategoryImplicitFramework = "implicit-framework"
	CategoryMixedIntent       = "mixed-intent"
	CategoryVisualPlacement   = "visual-placement"
	CategoryNarration         = "narration"
	CategoryProfile           = "profile"
)

// NoBlock marks an issue that applies to the document as a whole.
const NoBlock = -1

// Issue is one contract violation or observation.
type Issue struct {
	Severity   Severity `json:"severity"`
	Category   string   `json:"category"`
	Message    string   `json:"message"`
	BlockIndex int      `json:"block_index"` // NoBlock when document-level
}

func (i Issue) String() string {
	if i.BlockIndex == NoBlock {
		return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Category, i.Message)
	}
	return fmt.Sprintf("[%s] %s (block %d): %s", i.Severity, i.Category, i.BlockIndex, i.Message)
}

// Report is the validator's output: the issue list plus aggregate counts.
// Reports are produced fresh per validation call and never stored on the
// document.
type Report struct {
	Issues   []Issue `json:"issues"`
	Errors   int     `json:"errors"`
	Warnings int     `json:"warnings"`
	Infos    int     `json:"infos"`
	Valid    bool    `json:"valid"`
}

// ByCategory groups issues for display.
func (r Report) ByCategory() map[string][]Issue {
	grouped := make(map[string][]Issue)
	for _, issue := range r.Issues {
		grouped[issue.Category] = append(grouped[issue.Category], issue)
	}
	return grouped
}

func buildReport(issues []Issue) Report {
	r := Report{Issues: issues}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			r.Errors++
		case SeverityWarning:
			r.Warnings++
		case SeverityInfo:
			r.Infos++
		}
	}
	r.Valid = r.Errors == 0
	return r
}
