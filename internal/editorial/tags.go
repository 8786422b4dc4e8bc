package editorial

import (
	"regexp"
	"strings"

	"insightatlas/internal/patterns"
)

// tagged is the raw material a tag sub-parser collects before it is shaped
// into a block for the tag's kind.
type tagged struct {
	title string
	body  []string
	items []string
	rows  [][]string
}

// tryTag detects an open tag line and consumes the whole tagged region.
// Unterminated tags close at end of input instead of failing.
func (s *scan) tryTag(trimmed string) bool {
	m := patterns.OpenTag.FindStringSubmatch(trimmed)
	if m == nil || !patterns.IsKnownTag(m[1]) {
		return false
	}
	tag := patterns.TagName(m[1])
	s.flushPara()
	s.pos++

	var t tagged
	for s.pos < len(s.lines) {
		line := strings.TrimSpace(s.lines[s.pos])
		if patterns.IsCloseTag(tag, line) {
			s.pos++
			break
		}
		s.pos++
		s.collectTagLine(&t, line)
	}

	s.emit(shapeTagged(tag, t))
	return true
}

// collectTagLine sorts one in-tag line into the collected material: an
// optional bold title, bullet/ordinal list items, pipe table rows, prose.
func (s *scan) collectTagLine(t *tagged, line string) {
	if line == "" || patterns.IsGlyphArt(line) {
		return
	}
	if m := patterns.BoldLine.FindStringSubmatch(line); m != nil && t.title == "" {
		t.title = strings.TrimSpace(m[1])
		return
	}
	if m := patterns.BulletItem.FindStringSubmatch(line); m != nil {
		t.items = append(t.items, patterns.StripMarkdown(m[1]))
		return
	}
	if m := patterns.OrderedItem.FindStringSubmatch(line); m != nil {
		t.items = append(t.items, patterns.StripMarkdown(m[2]))
		return
	}
	if strings.HasPrefix(line, "|") {
		if row, ok := parseTableRow(line); ok {
			t.rows = append(t.rows, row)
		}
		return
	}
	t.body = append(t.body, patterns.StripMarkdown(line))
}

// shapeTagged builds the final block for a tag, populating only the payload
// fields the kind's renderer expects. Collected material that the kind has no
// field for is folded into the body so nothing is lost.
func shapeTagged(tag patterns.TagName, t tagged) Block {
	kind := tagKinds[tag]
	b := Block{Kind: kind, Title: t.title}
	body := strings.Join(t.body, " ")

	switch kind {
	case KindProcessFlow:
		steps, fromBody := flowSteps(t)
		b.Steps = steps
		if !fromBody {
			b.Body = body
		}

	case KindDecisionTree:
		branches, leftovers := parseBranches(t)
		b.Branches = branches
		b.Body = joinNonEmpty(body, strings.Join(leftovers, " "))

	case KindComparison, KindTable:
		b.TableRows = t.rows
		b.Body = joinNonEmpty(body, strings.Join(t.items, " "))

	case KindFramework, KindConceptMap,
		KindActionBox, KindApplyIt, KindExercise,
		KindQuickGlance, KindKeyTakeaways:
		b.ListItems = t.items
		b.Body = joinNonEmpty(body, flattenRows(t.rows))

	case KindPremiumQuote:
		quote, attr := parseAttribution(t.body)
		b.Body = joinNonEmpty(quote, strings.Join(t.items, " "))
		b.Attribution = attr

	default:
		// Narrative and insight kinds carry prose only.
		b.Body = joinNonEmpty(body, strings.Join(t.items, " "), flattenRows(t.rows))
	}
	return b
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, " ")
}

func flattenRows(rows [][]string) string {
	var parts []string
	for _, row := range rows {
		parts = append(parts, strings.Join(row, " "))
	}
	return strings.Join(parts, " ")
}

// arrowSplit breaks flowchart prose lines at arrow tokens.
var arrowSplit = regexp.MustCompile(`\s*(?:->|→|=>|⇒)\s*`)

// flowSteps derives process-flow steps from list items first, falling back to
// arrow-separated segments in the prose lines. fromBody reports that the
// prose lines were consumed as steps and must not also appear as body text.
func flowSteps(t tagged) (steps []string, fromBody bool) {
	if len(t.items) > 0 {
		return t.items, false
	}
	for _, line := range t.body {
		for _, seg := range arrowSplit.Split(line, -1) {
			if seg = strings.TrimSpace(seg); seg != "" {
				steps = append(steps, seg)
			}
		}
	}
	return steps, len(steps) > 0
}

// branchArrow matches "If <condition> -> <outcome>" and "<condition>: <outcome>"
// shapes inside a decision tree.
var branchArrow = regexp.MustCompile(`^\s*(?:[Ii]f\s+)?(.+?)\s*(?:->|→|=>|⇒)\s*(.+)$`)

// parseBranches turns collected decision-tree material into branches. List
// items are tried first, then prose lines; anything unparseable is returned
// as leftovers for the body.
func parseBranches(t tagged) ([]Branch, []string) {
	var branches []Branch
	var leftovers []string
	parse := func(line string) {
		if m := branchArrow.FindStringSubmatch(line); m != nil {
			branches = append(branches, Branch{
				Condition: strings.TrimSpace(m[1]),
				Outcome:   strings.TrimSpace(m[2]),
			})
			return
		}
		if idx := strings.Index(line, ":"); idx > 0 && idx < len(line)-1 {
			branches = append(branches, Branch{
				Condition: strings.TrimSpace(line[:idx]),
				Outcome:   strings.TrimSpace(line[idx+1:]),
			})
			return
		}
		leftovers = append(leftovers, line)
	}
	for _, item := range t.items {
		parse(item)
	}
	for _, line := range t.body {
		parse(line)
	}
	return branches, leftovers
}

// attributionLine matches a quote credit: — Author, Publication (2009)
var attributionLine = regexp.MustCompile(`^\s*[—–-]{1,2}\s*(.+?)(?:,\s*(.+?))?(?:\s*\((\d{4})\))?\s*$`)

// parseAttribution splits quote lines into the quoted text and an optional
// attribution parsed from a trailing credit line.
func parseAttribution(lines []string) (string, *Attribution) {
	if len(lines) == 0 {
		return "", nil
	}
	last := lines[len(lines)-1]
	m := attributionLine.FindStringSubmatch(last)
	if m == nil || len(lines) == 1 {
		return strings.Join(lines, " "), nil
	}
	attr := &Attribution{Author: strings.TrimSpace(m[1])}
	if m[2] != "" {
		attr.Publication = strings.TrimSpace(m[2])
	}
	if m[3] != "" {
		attr.Year = atoiSafe(m[3])
	}
	return strings.Join(lines[:len(lines)-1], " "), attr
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
