package editorial

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insightatlas/internal/config"
)

func deepDive(t *testing.T) config.PacingProfile {
	t.Helper()
	return config.BuiltinProfiles()["deep-dive"]
}

func quickRead(t *testing.T) config.PacingProfile {
	t.Helper()
	return config.BuiltinProfiles()["quick-read"]
}

func TestNormalizeBasics(t *testing.T) {
	n := New(deepDive(t), nil)

	t.Run("heading then paragraph", func(t *testing.T) {
		doc := n.Normalize("## Title\nHello world. This is fine.", "Guide", "Author")

		require.Len(t, doc.Blocks, 2)
		assert.Equal(t, KindSectionHeader, doc.Blocks[0].Kind)
		assert.Equal(t, "Title", doc.Blocks[0].Title)
		assert.Empty(t, doc.Blocks[0].Body)
		assert.Equal(t, KindParagraph, doc.Blocks[1].Kind)
		assert.Equal(t, "Hello world. This is fine.", doc.Blocks[1].Body)

		assert.Equal(t, "Guide", doc.Title)
		assert.Equal(t, "Author", doc.Author)
		assert.Equal(t, FormatVersion, doc.FormatVersion)
	})

	t.Run("heading depths", func(t *testing.T) {
		doc := n.Normalize("# One\n## Two\n### Three\n#### Four", "", "")
		require.Len(t, doc.Blocks, 4)
		assert.Equal(t, KindPartHeader, doc.Blocks[0].Kind)
		assert.Equal(t, KindSectionHeader, doc.Blocks[1].Kind)
		assert.Equal(t, KindSubsectionHeader, doc.Blocks[2].Kind)
		assert.Equal(t, KindMinorHeader, doc.Blocks[3].Kind)
	})

	t.Run("horizontal rule becomes divider", func(t *testing.T) {
		doc := n.Normalize("before\n\n---\n\nafter", "", "")
		require.Len(t, doc.Blocks, 3)
		assert.Equal(t, KindDivider, doc.Blocks[1].Kind)
	})

	t.Run("consecutive quote lines join", func(t *testing.T) {
		doc := n.Normalize("> the first half\n> and the second half", "", "")
		require.Len(t, doc.Blocks, 1)
		assert.Equal(t, KindBlockquote, doc.Blocks[0].Kind)
		assert.Equal(t, "the first half and the second half", doc.Blocks[0].Body)
	})

	t.Run("bullet and numbered lists are distinguished", func(t *testing.T) {
		doc := n.Normalize("- alpha\n- beta\n\n1. one\n2. two", "", "")
		require.Len(t, doc.Blocks, 2)
		assert.Equal(t, KindBulletList, doc.Blocks[0].Kind)
		assert.Equal(t, []string{"alpha", "beta"}, doc.Blocks[0].ListItems)
		assert.Equal(t, KindNumberedList, doc.Blocks[1].Kind)
		assert.Equal(t, []string{"one", "two"}, doc.Blocks[1].ListItems)
	})

	t.Run("table drops separator rows", func(t *testing.T) {
		doc := n.Normalize("| A | B |\n|---|---|\n| 1 | 2 |", "", "")
		require.Len(t, doc.Blocks, 1)
		assert.Equal(t, KindTable, doc.Blocks[0].Kind)
		assert.Equal(t, [][]string{{"A", "B"}, {"1", "2"}}, doc.Blocks[0].TableRows)
	})

	t.Run("glyph art lines are discarded", func(t *testing.T) {
		doc := n.Normalize("┌────────┐\n│→→→→→→→│\nReal prose stays.\n└────────┘", "", "")
		require.Len(t, doc.Blocks, 1)
		assert.Equal(t, "Real prose stays.", doc.Blocks[0].Body)
	})

	t.Run("inline markdown is stripped from prose", func(t *testing.T) {
		doc := n.Normalize("Some **bold** and `code` here.", "", "")
		require.Len(t, doc.Blocks, 1)
		assert.Equal(t, "Some bold and code here.", doc.Blocks[0].Body)
	})
}

func TestNormalizeTags(t *testing.T) {
	n := New(deepDive(t), nil)

	t.Run("action box with title and items", func(t *testing.T) {
		doc := n.Normalize("[ACTION_BOX]\n**Do Now**\n1. Stand up\n2. Stretch\n[/ACTION_BOX]", "", "")
		require.Len(t, doc.Blocks, 1)
		b := doc.Blocks[0]
		assert.Equal(t, KindActionBox, b.Kind)
		assert.Equal(t, "Do Now", b.Title)
		assert.Equal(t, []string{"Stand up", "Stretch"}, b.ListItems)
	})

	t.Run("insight note carries prose", func(t *testing.T) {
		doc := n.Normalize("[INSIGHT_NOTE]\n**Key Insight**\nContext shapes behavior more than willpower.\n[/INSIGHT_NOTE]", "", "")
		require.Len(t, doc.Blocks, 1)
		b := doc.Blocks[0]
		assert.Equal(t, KindInsightNote, b.Kind)
		assert.Equal(t, "Key Insight", b.Title)
		assert.Equal(t, "Context shapes behavior more than willpower.", b.Body)
		assert.Empty(t, b.ListItems, "insight blocks carry prose only")
	})

	t.Run("flowchart steps from arrows", func(t *testing.T) {
		doc := n.Normalize("[VISUAL_FLOWCHART]\n**The Loop**\nCue -> Craving -> Response -> Reward\n[/VISUAL_FLOWCHART]", "", "")
		require.Len(t, doc.Blocks, 1)
		b := doc.Blocks[0]
		assert.Equal(t, KindProcessFlow, b.Kind)
		assert.Equal(t, []string{"Cue", "Craving", "Response", "Reward"}, b.Steps)
		assert.Empty(t, b.Branches, "steps only for process flow")
	})

	t.Run("decision tree branches", func(t *testing.T) {
		doc := n.Normalize("[DECISION_TREE]\n- If the task takes two minutes -> do it now\n- If it is deferrable -> schedule it\n[/DECISION_TREE]", "", "")
		require.Len(t, doc.Blocks, 1)
		b := doc.Blocks[0]
		assert.Equal(t, KindDecisionTree, b.Kind)
		require.Len(t, b.Branches, 2)
		assert.Equal(t, "the task takes two minutes", b.Branches[0].Condition)
		assert.Equal(t, "do it now", b.Branches[0].Outcome)
		assert.Empty(t, b.Steps, "branches only for decision trees")
	})

	t.Run("premium quote with attribution", func(t *testing.T) {
		doc := n.Normalize("[PREMIUM_QUOTE]\nIt always seems impossible until it is done.\n— Nelson Mandela, Long Walk to Freedom (1994)\n[/PREMIUM_QUOTE]", "", "")
		require.Len(t, doc.Blocks, 1)
		b := doc.Blocks[0]
		assert.Equal(t, KindPremiumQuote, b.Kind)
		assert.Equal(t, "It always seems impossible until it is done.", b.Body)
		require.NotNil(t, b.Attribution)
		assert.Equal(t, "Nelson Mandela", b.Attribution.Author)
		assert.Equal(t, "Long Walk to Freedom", b.Attribution.Publication)
		assert.Equal(t, 1994, b.Attribution.Year)
	})

	t.Run("comparison keeps table rows", func(t *testing.T) {
		doc := n.Normalize("[COMPARISON]\n**Before and After**\n| Before | After |\n|---|---|\n| chaos | order |\n[/COMPARISON]", "", "")
		require.Len(t, doc.Blocks, 1)
		b := doc.Blocks[0]
		assert.Equal(t, KindComparison, b.Kind)
		assert.Equal(t, [][]string{{"Before", "After"}, {"chaos", "order"}}, b.TableRows)
	})

	t.Run("unterminated tag closes at end of input", func(t *testing.T) {
		doc := n.Normalize("[EXERCISE]\n**Try It**\n- write one page\n- review it", "", "")
		require.Len(t, doc.Blocks, 1)
		b := doc.Blocks[0]
		assert.Equal(t, KindExercise, b.Kind)
		assert.Equal(t, "Try It", b.Title)
		assert.Equal(t, []string{"write one page", "review it"}, b.ListItems)
	})

	t.Run("unknown tag falls through to prose", func(t *testing.T) {
		doc := n.Normalize("[MYSTERY]\nsome text", "", "")
		require.NotEmpty(t, doc.Blocks)
		assert.Equal(t, KindParagraph, doc.Blocks[len(doc.Blocks)-1].Kind)
	})
}

func TestNormalizeImplicitBlocks(t *testing.T) {
	n := New(deepDive(t), nil)

	t.Run("why this matters opens insight", func(t *testing.T) {
		input := "**Why This Matters**\nBecause context shapes behavior.\nMore supporting prose.\n\n## Next"
		doc := n.Normalize(input, "", "")
		require.Len(t, doc.Blocks, 2)
		b := doc.Blocks[0]
		assert.Equal(t, KindInsightNote, b.Kind)
		assert.Equal(t, "Why This Matters", b.Title)
		assert.Equal(t, "Because context shapes behavior. More supporting prose.", b.Body)
		assert.Equal(t, KindSectionHeader, doc.Blocks[1].Kind)
	})

	t.Run("in practice opens action", func(t *testing.T) {
		doc := n.Normalize("**In Practice**\nStart with two minutes a day.", "", "")
		require.Len(t, doc.Blocks, 1)
		assert.Equal(t, KindApplyIt, doc.Blocks[0].Kind)
	})

	t.Run("plain bold line stays prose", func(t *testing.T) {
		doc := n.Normalize("**Atomic Habits**\nis the subject of this guide.", "", "")
		require.Len(t, doc.Blocks, 1)
		assert.Equal(t, KindParagraph, doc.Blocks[0].Kind)
	})
}

func TestParagraphSplitting(t *testing.T) {
	t.Run("short prose stays one block", func(t *testing.T) {
		n := New(deepDive(t), nil)
		doc := n.Normalize("Hello world. This is fine.", "", "")
		require.Len(t, doc.Blocks, 1)
	})

	t.Run("dense prose splits into conceptual moves", func(t *testing.T) {
		n := New(quickRead(t), nil)
		var sb strings.Builder
		for i := 0; i < 8; i++ {
			sb.WriteString("Every single day the same ten ordinary words repeat again here. ")
		}
		doc := n.Normalize(sb.String(), "", "")
		// 88 words, over the quick-read threshold; short-clause profile groups
		// two sentences per block.
		require.Len(t, doc.Blocks, 4)
		for _, b := range doc.Blocks {
			assert.Equal(t, KindParagraph, b.Kind)
			assert.NotEmpty(t, b.Body)
		}
	})

	t.Run("transition markers close groups", func(t *testing.T) {
		n := New(quickRead(t), nil)
		text := "The first claim stands on early evidence from many small trials here. " +
			"The second claim follows directly and extends the very same result set. " +
			"However, the third claim reverses course and changes the whole working picture. " +
			"The fourth claim settles matters and closes the argument with final numbers. " +
			"The fifth claim adds one more caveat for completeness of this record. " +
			"The sixth claim simply restates the summary in plainer everyday language now."
		doc := n.Normalize(text, "", "")
		require.NotEmpty(t, doc.Blocks)
		assert.True(t, strings.HasPrefix(doc.Blocks[1].Body, "However,"),
			"transition sentence should open a new block, got %q", doc.Blocks[1].Body)
	})
}

func TestNormalizeProperties(t *testing.T) {
	n := New(deepDive(t), nil)
	input := "# Part One\n\n## The Setup\n\nSome opening prose here.\n\n" +
		"[INSIGHT_NOTE]\n**Note**\nInsight body.\n[/INSIGHT_NOTE]\n\n" +
		"- item one\n- item two\n\n> a closing quote"

	t.Run("idempotence", func(t *testing.T) {
		a := n.Normalize(input, "T", "A")
		b := n.Normalize(input, "T", "A")
		assert.Empty(t, cmp.Diff(a, b))
	})

	t.Run("stable block ids", func(t *testing.T) {
		a := n.Normalize(input, "T", "A")
		b := n.Normalize(input, "T", "A")
		require.Equal(t, len(a.Blocks), len(b.Blocks))
		for i := range a.Blocks {
			assert.Equal(t, a.Blocks[i].ID, b.Blocks[i].ID)
			assert.NotEmpty(t, a.Blocks[i].ID)
		}
	})

	t.Run("order preservation", func(t *testing.T) {
		doc := n.Normalize(input, "", "")
		kinds := make([]Kind, 0, len(doc.Blocks))
		for _, b := range doc.Blocks {
			kinds = append(kinds, b.Kind)
		}
		assert.Equal(t, []Kind{
			KindPartHeader, KindSectionHeader, KindParagraph,
			KindInsightNote, KindBulletList, KindBlockquote,
		}, kinds)
	})

	t.Run("tag balance", func(t *testing.T) {
		text := "[INSIGHT_NOTE]\nfirst body\n[/INSIGHT_NOTE]\n" +
			"[INSIGHT_NOTE]\nsecond body\n[/INSIGHT_NOTE]"
		doc := n.Normalize(text, "", "")
		count := 0
		for _, b := range doc.Blocks {
			if b.Kind == KindInsightNote {
				count++
			}
		}
		assert.Equal(t, 2, count, "two tag pairs must yield two insight blocks")
	})
}

func TestIncremental(t *testing.T) {
	n := New(deepDive(t), nil)
	inc := n.NewIncremental("Guide", "Author")

	first := "## Start\nFirst sen"
	doc := inc.Append(first)
	require.NotEmpty(t, doc.Blocks)
	assert.Equal(t, KindSectionHeader, doc.Blocks[0].Kind)
	assert.Equal(t, len(first), inc.Len())

	doc = inc.Append("tence finishes here.\n\n- one\n- two")
	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, "First sentence finishes here.", doc.Blocks[1].Body)
	assert.Equal(t, KindBulletList, doc.Blocks[2].Kind)

	// Settled prefix keeps its identity across appends.
	firstID := doc.Blocks[0].ID
	doc = inc.Append("\n\nMore prose.")
	assert.Equal(t, firstID, doc.Blocks[0].ID)
	assert.Equal(t, doc, inc.Document())
}
