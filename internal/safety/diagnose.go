package safety

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestionDistance is the edit distance under which a token is close
// enough to an expected literal to suggest it.
const maxSuggestionDistance = 2

var patternWordRe = regexp.MustCompile(`[A-Za-z0-9_][A-Za-z0-9_-]*`)

// noSafePattern builds the rejection for a leaf that matched no allow-list
// pattern, including diagnostics. Everything computed here is advisory: it
// explains the rejection but can never turn it into an allow.
func noSafePattern(text string, cfg *ModeConfig) NoSafePattern {
	text = strings.TrimSpace(text)
	relevant := relevantPatterns(text, cfg.ReadOnlyBashPatterns)
	return NoSafePattern{
		Command:          text,
		RelevantPatterns: relevant,
		Mismatch:         analyzeMismatch(text, relevant),
	}
}

// relevantPatterns filters the allow-list down to entries plausibly about
// the same program as the rejected leaf: the leaf's first token appears in
// the pattern source's word set, or is within a small edit distance of its
// leading word. A heuristic relevance filter, not a correctness mechanism.
func relevantPatterns(text string, patterns []*CompiledPattern) []*CompiledPattern {
	first := firstToken(text)
	if first == "" {
		return nil
	}

	var relevant []*CompiledPattern
	for _, p := range patterns {
		words := patternWordRe.FindAllString(p.Source, -1)
		for i, w := range words {
			if w == first {
				relevant = append(relevant, p)
				break
			}
			if i == 0 && len(first) >= 3 && w[0] == first[0] &&
				levenshtein.ComputeDistance(first, w) <= maxSuggestionDistance {
				relevant = append(relevant, p)
				break
			}
		}
	}
	return relevant
}

// analyzeMismatch runs incremental prefix matching against each relevant
// pattern and reports the deepest divergence found. The relaxed form of a
// pattern is its whitespace-split token list, each token matched whole
// against the corresponding command token; growing the matched prefix one
// token at a time finds the point where the command left the allowed shape.
func analyzeMismatch(text string, relevant []*CompiledPattern) *MismatchAnalysis {
	cmdTokens := strings.Fields(text)
	if len(cmdTokens) == 0 || len(relevant) == 0 {
		return nil
	}

	var best *MismatchAnalysis
	bestDepth := -1

	for _, p := range relevant {
		depth, failedPatternToken := matchDepth(cmdTokens, p)
		if depth <= bestDepth {
			continue
		}
		analysis := &MismatchAnalysis{
			MatchedPrefix: strings.Join(cmdTokens[:depth], " "),
		}
		if depth < len(cmdTokens) {
			analysis.FailedToken = cmdTokens[depth]
			analysis.Suggestion = suggest(cmdTokens, depth, failedPatternToken)
		} else {
			// The command is a strict prefix of the allowed shape, e.g.
			// bare "git" against "git (status|log|diff)".
			analysis.Suggestion = incompleteSuggestion(failedPatternToken)
		}
		best = analysis
		bestDepth = depth
	}
	return best
}

// incompleteSuggestion hints at what the pattern still expected when the
// command ended early.
func incompleteSuggestion(failedPatternToken string) string {
	if failedPatternToken == "" {
		return ""
	}
	alts := patternWordRe.FindAllString(failedPatternToken, -1)
	if len(alts) == 0 {
		return ""
	}
	return fmt.Sprintf("this pattern expects a subcommand such as %q", alts[0])
}

// matchDepth returns how many leading command tokens match the pattern's
// token sequence, and the pattern token at the point of failure (empty when
// the command simply ran past the pattern).
func matchDepth(cmdTokens []string, p *CompiledPattern) (int, string) {
	patTokens := relaxedTokens(p.Source)
	depth := 0
	for depth < len(cmdTokens) && depth < len(patTokens) {
		re, err := regexp.Compile(`\A(?:` + patTokens[depth] + `)\z`)
		if err != nil {
			// Token splitting broke the pattern mid-group; stop here
			// rather than guess.
			return depth, patTokens[depth]
		}
		if !re.MatchString(cmdTokens[depth]) {
			return depth, patTokens[depth]
		}
		depth++
	}
	if depth < len(patTokens) {
		// The command ended before the pattern did.
		return depth, patTokens[depth]
	}
	return depth, ""
}

// relaxedTokens is the relaxed form of a pattern used for incremental
// prefix matching: the source with its common open-ended tail stripped,
// split on whitespace so each token can be matched on its own.
func relaxedTokens(source string) []string {
	for _, tail := range []string{"( .*)?", `(\s.*)?`, `( .+)?`, `\b.*`, ".*"} {
		source = strings.TrimSuffix(source, tail)
	}
	return strings.Fields(source)
}

// suggest maps known divergence shapes to an actionable hint. It returns
// an empty string when no canned suggestion applies.
func suggest(cmdTokens []string, depth int, failedPatternToken string) string {
	if failedPatternToken == "" || depth >= len(cmdTokens) {
		return ""
	}
	failed := cmdTokens[depth]

	expectRe, err := regexp.Compile(`\A(?:` + failedPatternToken + `)\z`)
	if err != nil {
		return ""
	}

	// A flag where the pattern wants a subcommand, with a matching
	// subcommand later in the command: "git -C /path status" against
	// "git (status|log|diff)".
	if strings.HasPrefix(failed, "-") {
		for _, tok := range cmdTokens[depth+1:] {
			if expectRe.MatchString(tok) {
				return fmt.Sprintf("flags like %s must come after the %s subcommand to match this mode's patterns", failed, tok)
			}
		}
	}

	// A near-miss of one of the pattern's literal alternatives:
	// "git stauts" against "git (status|log|diff)".
	for _, alt := range patternWordRe.FindAllString(failedPatternToken, -1) {
		if len(alt) >= 3 && levenshtein.ComputeDistance(failed, alt) <= maxSuggestionDistance {
			return fmt.Sprintf("did you mean %q?", alt)
		}
	}
	return ""
}

func firstToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
