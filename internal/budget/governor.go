// Package budget enforces a word-count budget on streaming model output.
// Models do not reliably stop at a requested length; truncating raw output
// mid-sentence produces visibly broken documents. The governor degrades
// gradually instead: substitute low-value elaboration with a short synthesis
// sentence first, truncate at a sentence boundary only at the hard ceiling.
package budget

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"insightatlas/internal/config"
	"insightatlas/internal/patterns"
)

// State is the governor's position in its lifecycle.
type State string

const (
	// StateAccumulating passes chunks through unmodified.
	StateAccumulating State = "accumulating"
	// StateCutActive rewrites chunks, suppressing cuttable expansion.
	StateCutActive State = "cut-policy-active"
	// StateTerminated is absorbing: the budget is spent, all further chunks
	// are rejected until Reset.
	StateTerminated State = "terminated"
)

// EnforcementResult summarizes one finished generation pass.
type EnforcementResult struct {
	Content        string
	WordCount      int
	CutActivated   bool
	CutEventCount  int
	SynthesisCount int
	Sections       int
	Terminated     bool
}

// Governor applies a word budget to an in-order stream of text fragments.
// All mutable state belongs to one instance per generation pass; a mutex
// serializes access because chunks may arrive from a different goroutine than
// the caller reading progress. Chunks must still be delivered in order.
type Governor struct {
	mu     sync.Mutex
	policy config.GovernorPolicy
	log    *zap.Logger

	state          State
	cutActive      bool
	accumulated    strings.Builder
	wordCount      int
	pending        string // tail of the last incomplete sentence
	cutEvents      int
	synthesisTotal int
	synthesisUsed  int // in current section
	sectionIndex   int
}

// New returns a Governor for one generation pass. The policy must already be
// validated; an invalid policy is a programming error. log may be nil.
func New(policy config.GovernorPolicy, log *zap.Logger) *Governor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Governor{policy: policy, log: log, state: StateAccumulating}
}

// State returns the current lifecycle state.
func (g *Governor) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Reset clears all per-pass state so the same instance can govern a new pass.
// Safe to call at any point, including mid-stream abandonment.
func (g *Governor) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateAccumulating
	g.cutActive = false
	g.accumulated.Reset()
	g.wordCount = 0
	g.pending = ""
	g.cutEvents = 0
	g.synthesisTotal = 0
	g.synthesisUsed = 0
	g.sectionIndex = 0
}

// ProcessChunk consumes the next fragment and returns the accepted text,
// possibly rewritten, possibly empty. Decisions act on whole sentences only:
// the incomplete tail is buffered for the next call.
func (g *Governor) ProcessChunk(fragment string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateTerminated {
		return ""
	}

	combined := g.pending + fragment
	complete, tail := splitAtLastSentence(combined)
	g.pending = tail
	if complete == "" {
		return ""
	}

	g.trackSections(complete)
	return g.admit(complete)
}

// Finalize flushes the pending tail through the same budget accounting and
// returns the full accepted text. Safe to call on a terminated governor.
func (g *Governor) Finalize() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending != "" && g.state != StateTerminated {
		tail := g.pending
		g.pending = ""
		g.admit(tail)
	}
	g.pending = ""
	return g.accumulated.String()
}

// Result reports the enforcement outcome for the pass so far.
func (g *Governor) Result() EnforcementResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	return EnforcementResult{
		Content:        g.accumulated.String(),
		WordCount:      g.wordCount,
		CutActivated:   g.cutActive,
		CutEventCount:  g.cutEvents,
		SynthesisCount: g.synthesisTotal,
		Sections:       g.sectionIndex + 1,
		Terminated:     g.state == StateTerminated,
	}
}

// =============================================================================
// ADMISSION (callers hold g.mu)
// =============================================================================

// admit runs complete-sentence text through the budget: ceiling check first,
// then the cut policy if active. Returns the accepted text.
func (g *Governor) admit(text string) string {
	ceiling := g.policy.EffectiveCeiling()
	projected := g.wordCount + patterns.WordCount(text)

	if projected >= ceiling {
		accepted := truncateToBudget(text, ceiling-g.wordCount)
		g.accept(accepted)
		g.state = StateTerminated
		g.log.Debug("hard ceiling reached",
			zap.Int("word_count", g.wordCount),
			zap.Int("ceiling", ceiling))
		return accepted
	}

	if !g.cutActive && g.policy.TargetBudget > 0 {
		utilization := float64(projected) / float64(g.policy.TargetBudget)
		if utilization >= g.policy.CutTriggerRatio {
			g.cutActive = true
			g.state = StateCutActive
			g.log.Debug("cut policy activated",
				zap.Float64("utilization", utilization))
		}
	}

	if g.cutActive {
		text = g.applyCutPolicy(text)
	}

	g.accept(text)
	return text
}

// accept appends admitted text verbatim. splitAtLastSentence partitions the
// byte stream exactly between accepted text and the re-buffered tail, so no
// trimming or separator injection is allowed here: headings and blank lines
// must reach the downstream normalizer intact.
func (g *Governor) accept(text string) {
	if text == "" {
		return
	}
	g.accumulated.WriteString(text)
	g.wordCount += patterns.WordCount(text)
}

// trackSections advances the section index when headers pass through the
// stream and resets the per-section synthesis quota.
func (g *Governor) trackSections(text string) {
	for _, line := range strings.Split(text, "\n") {
		if m := patterns.Heading.FindStringSubmatch(strings.TrimSpace(line)); m != nil && len(m[1]) <= 2 {
			g.sectionIndex++
			g.synthesisUsed = 0
		}
	}
}

// =============================================================================
// CUT POLICY
// =============================================================================

// applyCutPolicy suppresses matched expansion material sentence by sentence,
// in the policy's category priority order. The first suppressions in each
// section substitute a synthesis sentence; once the section quota is spent,
// matches are omitted outright. The protected core-argument category is never
// scanned. Rewriting happens line by line with the surrounding whitespace
// re-attached, so headings and paragraph breaks survive the rewrite.
func (g *Governor) applyCutPolicy(text string) string {
	trimmed := strings.TrimLeft(text, " \t\n")
	lead := text[:len(text)-len(trimmed)]
	core := strings.TrimRight(trimmed, " \t\n")
	trail := trimmed[len(core):]

	lines := strings.Split(core, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = g.cutLine(line)
	}
	return lead + strings.Join(out, "\n") + trail
}

// cutLine rewrites one line's sentences under the cut policy.
func (g *Governor) cutLine(line string) string {
	sentences := patterns.SplitSentences(line)
	kept := make([]string, 0, len(sentences))

	for _, sentence := range sentences {
		category, matched := g.matchCutCategory(sentence)
		if !matched {
			kept = append(kept, sentence)
			continue
		}
		g.cutEvents++
		if g.synthesisUsed < g.policy.MaxSynthesisPerSection {
			g.synthesisUsed++
			g.synthesisTotal++
			kept = append(kept, synthesisFor(sentence))
		}
		g.log.Debug("suppressed expansion",
			zap.String("category", string(category)),
			zap.Int("cut_events", g.cutEvents))
	}
	return strings.Join(kept, " ")
}

// matchCutCategory checks the sentence against each configured category in
// priority order.
func (g *Governor) matchCutCategory(sentence string) (patterns.CutCategory, bool) {
	for _, name := range g.policy.CutOrder {
		cat := patterns.CutCategory(name)
		for _, re := range patterns.CutPatterns[cat] {
			if re.MatchString(sentence) {
				return cat, true
			}
		}
	}
	return "", false
}

// synthesisFor picks the substitute sentence matching the register of the
// suppressed text. The choice is deterministic.
func synthesisFor(suppressed string) string {
	set := patterns.SynthesisSentences[patterns.DetectSourceType(suppressed)]
	return set[len(suppressed)%len(set)]
}

// =============================================================================
// SENTENCE WINDOWING
// =============================================================================

// splitAtLastSentence divides text at the last complete sentence boundary.
// The first return is the complete portion (possibly empty), the second the
// incomplete tail to re-buffer.
func splitAtLastSentence(text string) (string, string) {
	idx := -1
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			// Terminal only when followed by whitespace, closing quote, or EOF.
			j := i + 1
			for j < len(text) && (text[j] == '"' || text[j] == '\'' || text[j] == ')' || text[j] == ']') {
				j++
			}
			if j >= len(text) || text[j] == ' ' || text[j] == '\n' || text[j] == '\t' {
				idx = j
			}
		}
	}
	if idx < 0 {
		return "", text
	}
	return text[:idx], text[idx:]
}

// truncateToBudget keeps at most budget whole words, then backs up to the
// last sentence boundary inside that window. No boundary inside the window
// means nothing is kept.
func truncateToBudget(text string, budget int) string {
	if budget <= 0 {
		return ""
	}
	words := strings.Fields(text)
	if len(words) > budget {
		words = words[:budget]
	}
	window := strings.Join(words, " ")

	loc := patterns.SentenceEnd.FindStringIndex(window)
	if loc != nil {
		return window
	}
	// Back up to the last terminal punctuation inside the window.
	last := strings.LastIndexAny(window, ".!?")
	if last < 0 {
		return ""
	}
	return window[:last+1]
}
