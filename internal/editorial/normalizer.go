package editorial

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"insightatlas/internal/config"
	"insightatlas/internal/patterns"
)

// tagKinds maps the explicit tag vocabulary onto block kinds.
var tagKinds = map[patterns.TagName]Kind{
	patterns.TagInsightNote:           KindInsightNote,
	patterns.TagAlternativeView:       KindAlternativePerspective,
	patterns.TagResearchInsight:       KindResearchInsight,
	patterns.TagActionBox:             KindActionBox,
	patterns.TagApplyIt:               KindApplyIt,
	patterns.TagExercise:              KindExercise,
	patterns.TagQuickGlance:           KindQuickGlance,
	patterns.TagKeyTakeaways:          KindKeyTakeaways,
	patterns.TagVisualFlowchart:       KindProcessFlow,
	patterns.TagDecisionTree:          KindDecisionTree,
	patterns.TagFramework:             KindFramework,
	patterns.TagComparison:            KindComparison,
	patterns.TagConceptMap:            KindConceptMap,
	patterns.TagPremiumQuote:          KindPremiumQuote,
	patterns.TagFoundationalNarrative: KindFoundationalNarrative,
	patterns.TagAuthorSpotlight:       KindAuthorSpotlight,
}

// implicitKinds maps implicit phrase categories onto block kinds.
var implicitKinds = map[patterns.ImplicitCategory]Kind{
	patterns.ImplicitInsight:  KindInsightNote,
	patterns.ImplicitAction:   KindApplyIt,
	patterns.ImplicitResearch: KindResearchInsight,
}

// headingKinds indexes header kinds by marker depth (1-4).
var headingKinds = [5]Kind{"", KindPartHeader, KindSectionHeader, KindSubsectionHeader, KindMinorHeader}

// Normalizer converts raw tagged/markdown-ish text into a typed Document.
// Normalization is deterministic and never fails: malformed input degrades
// gracefully because it originates from a non-deterministic generator.
type Normalizer struct {
	profile config.PacingProfile
	log     *zap.Logger
}

// New returns a Normalizer for the given pacing profile. log may be nil.
func New(profile config.PacingProfile, log *zap.Logger) *Normalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Normalizer{profile: profile, log: log}
}

// Normalize performs a single one-shot pass over text and returns the typed
// document. Identical input always yields an identical block sequence.
func (n *Normalizer) Normalize(text, title, author string) Document {
	s := &scan{
		norm:  n,
		lines: strings.Split(text, "\n"),
	}
	s.run()

	blocks := applyPacing(s.blocks, n.profile)

	n.log.Debug("normalized document",
		zap.Int("lines", len(s.lines)),
		zap.Int("blocks", len(blocks)))

	return Document{
		Title:         title,
		Author:        author,
		GeneratedAt:   time.Unix(0, 0).UTC(),
		FormatVersion: FormatVersion,
		Blocks:        blocks,
	}
}

// NormalizeAt is Normalize with an explicit generation timestamp. Normalize
// pins the timestamp so repeated calls are byte-identical; callers that want
// wall-clock metadata pass it here.
func (n *Normalizer) NormalizeAt(text, title, author string, at time.Time) Document {
	doc := n.Normalize(text, title, author)
	doc.GeneratedAt = at
	return doc
}

// =============================================================================
// LINE SCANNER
// =============================================================================

// scan is the single left-to-right pass over input lines. Untagged prose
// buffers in para until a structural construct flushes it.
type scan struct {
	norm    *Normalizer
	lines   []string
	pos     int
	blocks  []Block
	para    []string
	ordinal int
}

func (s *scan) run() {
	for s.pos < len(s.lines) {
		line := s.lines[s.pos]
		trimmed := strings.TrimSpace(line)

		switch {
		case s.tryTag(trimmed):
		case s.tryHeading(trimmed):
		case s.tryRule(trimmed):
		case s.tryBlockquote(trimmed):
		case s.tryList(trimmed):
		case s.tryTable(trimmed):
		case s.tryImplicit(trimmed):
		default:
			s.accumulate(trimmed)
			s.pos++
		}
	}
	s.flushPara()
}

// emit appends a finished block, assigning its stable ID.
func (s *scan) emit(b Block) {
	assignID(&b, s.ordinal)
	s.ordinal++
	s.blocks = append(s.blocks, b)
}

// accumulate adds one prose line to the paragraph buffer. Blank lines flush;
// glyph-art diagram lines are discarded outright.
func (s *scan) accumulate(trimmed string) {
	if trimmed == "" {
		s.flushPara()
		return
	}
	if patterns.IsGlyphArt(trimmed) {
		return
	}
	s.para = append(s.para, patterns.StripMarkdown(trimmed))
}

// flushPara converts the paragraph buffer into one or more paragraph blocks,
// splitting dense prose at conceptual moves.
func (s *scan) flushPara() {
	if len(s.para) == 0 {
		return
	}
	text := strings.Join(s.para, " ")
	s.para = nil

	if patterns.WordCount(text) < s.norm.profile.DenseProseThreshold {
		s.emit(Block{Kind: KindParagraph, Body: text})
		return
	}

	for _, group := range splitMoves(text, s.norm.profile) {
		s.emit(Block{Kind: KindParagraph, Body: group})
	}
}

// splitMoves groups sentences into paragraph-sized conceptual moves. A group
// closes at the profile's sentence cap, at a transition marker, or (for
// short-clause profiles) at two sentences.
func splitMoves(text string, profile config.PacingProfile) []string {
	sentences := patterns.SplitSentences(text)
	var groups []string
	var cur []string

	flush := func() {
		if len(cur) > 0 {
			groups = append(groups, strings.Join(cur, " "))
			cur = nil
		}
	}

	for _, sentence := range sentences {
		if len(cur) > 0 && patterns.HasTransition(sentence) {
			flush()
		}
		cur = append(cur, sentence)
		if len(cur) >= profile.MaxSentencesPerBlock {
			flush()
			continue
		}
		if profile.PreferShortClauses && len(cur) >= 2 {
			flush()
		}
	}
	flush()
	return groups
}

// =============================================================================
// DETECTORS (checked in precedence order)
// =============================================================================

func (s *scan) tryHeading(trimmed string) bool {
	m := patterns.Heading.FindStringSubmatch(trimmed)
	if m == nil {
		return false
	}
	s.flushPara()
	s.emit(Block{
		Kind:  headingKinds[len(m[1])],
		Title: patterns.StripMarkdown(m[2]),
	})
	s.pos++
	return true
}

func (s *scan) tryRule(trimmed string) bool {
	if !patterns.HorizontalRule.MatchString(trimmed) {
		return false
	}
	s.flushPara()
	s.emit(Block{Kind: KindDivider})
	s.pos++
	return true
}

func (s *scan) tryBlockquote(trimmed string) bool {
	m := patterns.Blockquote.FindStringSubmatch(trimmed)
	if m == nil {
		return false
	}
	s.flushPara()
	var parts []string
	for s.pos < len(s.lines) {
		qm := patterns.Blockquote.FindStringSubmatch(strings.TrimSpace(s.lines[s.pos]))
		if qm == nil {
			break
		}
		if text := strings.TrimSpace(patterns.StripMarkdown(qm[1])); text != "" {
			parts = append(parts, text)
		}
		s.pos++
	}
	s.emit(Block{Kind: KindBlockquote, Body: strings.Join(parts, " ")})
	return true
}

func (s *scan) tryList(trimmed string) bool {
	isBullet := patterns.BulletItem.MatchString(trimmed)
	isOrdered := patterns.OrderedItem.MatchString(trimmed)
	if !isBullet && !isOrdered {
		return false
	}
	s.flushPara()

	kind := KindBulletList
	if isOrdered {
		kind = KindNumberedList
	}

	var items []string
	for s.pos < len(s.lines) {
		lt := strings.TrimSpace(s.lines[s.pos])
		if m := patterns.BulletItem.FindStringSubmatch(lt); isBullet && m != nil {
			items = append(items, patterns.StripMarkdown(m[1]))
			s.pos++
			continue
		}
		if m := patterns.OrderedItem.FindStringSubmatch(lt); isOrdered && m != nil {
			items = append(items, patterns.StripMarkdown(m[2]))
			s.pos++
			continue
		}
		break
	}
	s.emit(Block{Kind: kind, ListItems: items})
	return true
}

func (s *scan) tryTable(trimmed string) bool {
	if !strings.HasPrefix(trimmed, "|") {
		return false
	}
	s.flushPara()
	var rows [][]string
	for s.pos < len(s.lines) {
		lt := strings.TrimSpace(s.lines[s.pos])
		if !strings.HasPrefix(lt, "|") {
			break
		}
		if row, ok := parseTableRow(lt); ok {
			rows = append(rows, row)
		}
		s.pos++
	}
	s.emit(Block{Kind: KindTable, TableRows: rows})
	return true
}

// parseTableRow splits a pipe-delimited line into cells. Separator rows of
// dashes/equals return ok=false and are dropped.
func parseTableRow(line string) ([]string, bool) {
	if patterns.TableSeparator.MatchString(line) {
		return nil, false
	}
	line = strings.Trim(line, "|")
	cells := strings.Split(line, "|")
	row := make([]string, 0, len(cells))
	for _, c := range cells {
		row = append(row, strings.TrimSpace(patterns.StripMarkdown(c)))
	}
	return row, true
}

func (s *scan) tryImplicit(trimmed string) bool {
	m := patterns.BoldLine.FindStringSubmatch(trimmed)
	if m == nil {
		return false
	}
	cat, ok := patterns.MatchImplicit(m[1])
	if !ok {
		return false
	}
	s.flushPara()
	title := strings.TrimSpace(m[1])
	s.pos++

	// Body runs until the next heading, tag, bold header, or structural line.
	var parts []string
	for s.pos < len(s.lines) {
		lt := strings.TrimSpace(s.lines[s.pos])
		if lt == "" {
			s.pos++
			continue
		}
		if s.isStructural(lt) {
			break
		}
		if !patterns.IsGlyphArt(lt) {
			parts = append(parts, patterns.StripMarkdown(lt))
		}
		s.pos++
	}
	s.emit(Block{
		Kind:  implicitKinds[cat],
		Title: title,
		Body:  strings.Join(parts, " "),
	})
	return true
}

// isStructural reports whether a line terminates an implicit block's body.
func (s *scan) isStructural(trimmed string) bool {
	if m := patterns.OpenTag.FindStringSubmatch(trimmed); m != nil && patterns.IsKnownTag(m[1]) {
		return true
	}
	return patterns.Heading.MatchString(trimmed) ||
		patterns.HorizontalRule.MatchString(trimmed) ||
		patterns.BoldLine.MatchString(trimmed) ||
		patterns.Blockquote.MatchString(trimmed) ||
		patterns.BulletItem.MatchString(trimmed) ||
		patterns.OrderedItem.MatchString(trimmed) ||
		strings.HasPrefix(trimmed, "|")
}
