package editorial

import (
	"fmt"

	"insightatlas/internal/config"
)

// applyPacing is the post-processing pass over the finished block sequence.
// It never drops content: blocks that violate a pacing rule are demoted to a
// lesser kind with an explanatory intent note, content untouched.
//
// Rules, applied in reading order with counters reset at every section-level
// header:
//   - at most profile.MaxInsightNotesPerSection insight-family blocks per
//     section; extras become paragraphs
//   - a framework block needs at least profile.MinFrameworkItems list items
//     to justify framework treatment; otherwise it becomes a bullet list
func applyPacing(blocks []Block, profile config.PacingProfile) []Block {
	out := make([]Block, len(blocks))
	insightsInSection := 0

	for i, b := range blocks {
		if b.Kind == KindPartHeader || b.Kind == KindSectionHeader {
			insightsInSection = 0
		}

		switch {
		case b.Kind.Family() == FamilyInsight:
			insightsInSection++
			if insightsInSection > profile.MaxInsightNotesPerSection {
				b = demote(b, KindParagraph, fmt.Sprintf(
					"demoted from %s: section already has %d insight blocks",
					b.Kind, profile.MaxInsightNotesPerSection))
			}

		case b.Kind == KindFramework && len(b.ListItems) < profile.MinFrameworkItems:
			b = demote(b, KindBulletList, fmt.Sprintf(
				"demoted from framework: %d items, minimum is %d",
				len(b.ListItems), profile.MinFrameworkItems))
		}

		out[i] = b
	}
	return out
}

// demote returns a copy of the block with a lesser kind and an intent note.
// ID, title, body, and structured payloads are preserved.
func demote(b Block, to Kind, note string) Block {
	b.Kind = to
	b.Intent = note
	return b
}
