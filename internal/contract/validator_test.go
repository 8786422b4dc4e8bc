package contract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insightatlas/internal/config"
	"insightatlas/internal/editorial"
)

func profile(t *testing.T) config.PacingProfile {
	t.Helper()
	return config.BuiltinProfiles()["deep-dive"]
}

func doc(blocks ...editorial.Block) editorial.Document {
	return editorial.Document{
		Title:         "Test",
		FormatVersion: editorial.FormatVersion,
		Blocks:        blocks,
	}
}

func para(body string) editorial.Block {
	return editorial.Block{Kind: editorial.KindParagraph, Body: body}
}

func issuesIn(r Report, category string, sev Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Category == category && issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

func TestMarkdownArtifactLeakage(t *testing.T) {
	t.Run("leftover bold is an error", func(t *testing.T) {
		d := doc(para("Clean opening text."), para("This contains literal **bold** text."))
		report := Validate(d, profile(t))

		errs := issuesIn(report, CategoryMarkdownArtifact, SeverityError)
		require.Len(t, errs, 1)
		assert.Equal(t, 1, errs[0].BlockIndex)
		assert.False(t, report.Valid)
	})

	t.Run("clean document passes", func(t *testing.T) {
		d := doc(para("Nothing to flag here."))
		report := Validate(d, profile(t))
		assert.Empty(t, issuesIn(report, CategoryMarkdownArtifact, SeverityError))
		assert.True(t, report.Valid)
	})

	t.Run("list items are scanned too", func(t *testing.T) {
		d := doc(editorial.Block{
			Kind:      editorial.KindBulletList,
			ListItems: []string{"fine item", "item with `code`"},
		})
		report := Validate(d, profile(t))
		assert.NotEmpty(t, issuesIn(report, CategoryMarkdownArtifact, SeverityError))
	})
}

func TestStructuralCompleteness(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		report := Validate(doc(), profile(t))
		assert.False(t, report.Valid)
		assert.NotEmpty(t, issuesIn(report, CategoryStructure, SeverityError))
	})

	t.Run("contentless block", func(t *testing.T) {
		report := Validate(doc(para("fine."), editorial.Block{Kind: editorial.KindParagraph}), profile(t))
		errs := issuesIn(report, CategoryStructure, SeverityError)
		require.Len(t, errs, 1)
		assert.Equal(t, 1, errs[0].BlockIndex)
	})

	t.Run("divider needs no content", func(t *testing.T) {
		report := Validate(doc(para("fine."), editorial.Block{Kind: editorial.KindDivider}), profile(t))
		assert.Empty(t, issuesIn(report, CategoryStructure, SeverityError))
	})
}

func TestVisualDensity(t *testing.T) {
	framework := editorial.Block{
		Kind:      editorial.KindFramework,
		Title:     "F",
		ListItems: []string{"a", "b", "c"},
	}

	t.Run("over 30 percent warns", func(t *testing.T) {
		d := doc(para("one."), para("two."), para("three."), framework, framework)
		report := Validate(d, profile(t))
		assert.NotEmpty(t, issuesIn(report, CategoryVisualDensity, SeverityWarning))
	})

	t.Run("under 30 percent is quiet", func(t *testing.T) {
		d := doc(para("one."), para("two."), para("three."), para("four."), para("five."), para("six."), framework)
		report := Validate(d, profile(t))
		assert.Empty(t, issuesIn(report, CategoryVisualDensity, SeverityWarning))
	})
}

func TestSentenceLimit(t *testing.T) {
	long := "One is here. Two is here. Three is here. Four is here. Five is here. Six is here."
	report := Validate(doc(para(long)), profile(t)) // deep-dive allows 5
	warnings := issuesIn(report, CategorySentenceLimit, SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, 0, warnings[0].BlockIndex)
}

func TestImplicitFrameworkInProse(t *testing.T) {
	body := "First, plan the work. Second, work the plan. Third, review everything."
	report := Validate(doc(para(body)), profile(t))
	assert.NotEmpty(t, issuesIn(report, CategoryImplicitFramework, SeverityWarning))
}

func TestMixedIntent(t *testing.T) {
	body := "Here is why this matters for you. And in practice you would start small."
	report := Validate(doc(para(body)), profile(t))
	assert.NotEmpty(t, issuesIn(report, CategoryMixedIntent, SeverityWarning))
}

func TestVisualPlacement(t *testing.T) {
	framework := editorial.Block{
		Kind:      editorial.KindFramework,
		Title:     "F",
		ListItems: []string{"a", "b", "c"},
	}

	t.Run("visual next to a quote warns", func(t *testing.T) {
		d := doc(
			editorial.Block{Kind: editorial.KindBlockquote, Body: "quoted."},
			framework,
		)
		report := Validate(d, profile(t))
		assert.NotEmpty(t, issuesIn(report, CategoryVisualPlacement, SeverityWarning))
	})

	t.Run("visual opening a section warns", func(t *testing.T) {
		d := doc(
			editorial.Block{Kind: editorial.KindSectionHeader, Title: "S"},
			framework,
		)
		report := Validate(d, profile(t))
		assert.NotEmpty(t, issuesIn(report, CategoryVisualPlacement, SeverityWarning))
	})

	t.Run("grounded visual is quiet", func(t *testing.T) {
		d := doc(
			editorial.Block{Kind: editorial.KindSectionHeader, Title: "S"},
			para("narrative grounding first."),
			para("and a little more."),
			para("yet more distance."),
			framework,
		)
		report := Validate(d, profile(t))
		assert.Empty(t, issuesIn(report, CategoryVisualPlacement, SeverityWarning))
	})
}

func TestNarrationReadiness(t *testing.T) {
	t.Run("diagram glyphs warn", func(t *testing.T) {
		report := Validate(doc(para("Cue → Reward loop.")), profile(t))
		assert.NotEmpty(t, issuesIn(report, CategoryNarration, SeverityWarning))
	})

	t.Run("non-ascii informs", func(t *testing.T) {
		report := Validate(doc(para("A naive approach — dashes included.")), profile(t))
		assert.NotEmpty(t, issuesIn(report, CategoryNarration, SeverityInfo))
	})

	t.Run("space runs warn", func(t *testing.T) {
		report := Validate(doc(para("Aligned    columns of text.")), profile(t))
		assert.NotEmpty(t, issuesIn(report, CategoryNarration, SeverityWarning))
	})
}

func TestProfileConsistency(t *testing.T) {
	insight := editorial.Block{Kind: editorial.KindInsightNote, Body: "an insight."}

	t.Run("insight quota violation warns", func(t *testing.T) {
		d := doc(
			editorial.Block{Kind: editorial.KindSectionHeader, Title: "S"},
			insight, insight, insight, // deep-dive allows 2
		)
		report := Validate(d, profile(t))
		assert.Len(t, issuesIn(report, CategoryProfile, SeverityWarning), 1)
	})

	t.Run("thin framework warns", func(t *testing.T) {
		d := doc(editorial.Block{
			Kind:      editorial.KindFramework,
			Title:     "F",
			ListItems: []string{"only", "two"},
		})
		report := Validate(d, profile(t))
		warnings := issuesIn(report, CategoryProfile, SeverityWarning)
		require.Len(t, warnings, 1)
		assert.True(t, report.Valid, "pacing violations are warnings, not errors")
	})
}

func TestValidatorPurity(t *testing.T) {
	d := doc(para("Stable content. With two sentences."), para("More **leaky** markup."))
	p := profile(t)

	before := doc(d.Blocks...)
	a := Validate(d, p)
	b := Validate(d, p)

	assert.Empty(t, cmp.Diff(a, b), "identical inputs must yield identical reports")
	assert.Empty(t, cmp.Diff(before, d), "validation must not mutate the document")
}

func TestReportAggregates(t *testing.T) {
	d := doc(para("Body with **bold** left in."))
	report := Validate(d, profile(t))

	assert.Equal(t, len(report.Issues),
		report.Errors+report.Warnings+report.Infos)
	assert.False(t, report.Valid)
	assert.NotEmpty(t, report.ByCategory())
}
