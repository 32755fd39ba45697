package safety

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternSpec is one uncompiled allow-list entry as it appears in the
// configuration document.
type PatternSpec struct {
	Source  string `json:"source"`
	Flags   string `json:"flags,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// CompiledPattern is one compiled allow-list entry. Compilation happens once
// at config-load time; the classification hot path only evaluates.
type CompiledPattern struct {
	Regex   *regexp.Regexp
	Source  string
	Comment string
}

// CompilePattern compiles a single pattern spec. The source is anchored at
// both ends: a pattern matches a command only when it consumes the entire
// text, so "git (status|log|diff)" does not quietly admit "git difftool".
// Patterns that accept arguments say so explicitly with an open tail such as
// "git status( .*)?". The stdlib regexp package is used deliberately: its
// RE2 engine guarantees linear-time matching on the adversarial input this
// system exists to judge.
func CompilePattern(spec PatternSpec) (*CompiledPattern, error) {
	src := strings.TrimSpace(spec.Source)
	if src == "" {
		return nil, fmt.Errorf("empty pattern source")
	}

	expr := `\A(?:` + src + `)\z`
	for _, f := range spec.Flags {
		switch f {
		case 'i':
			expr = `(?i)` + expr
		default:
			return nil, fmt.Errorf("unsupported pattern flag %q", string(f))
		}
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", spec.Source, err)
	}

	return &CompiledPattern{
		Regex:   re,
		Source:  src,
		Comment: spec.Comment,
	}, nil
}

// CompilePatterns compiles an ordered list of pattern specs. An empty list
// is valid and means nothing is allowed yet. Any invalid entry fails the
// whole compilation; a config with broken patterns must never reach the
// classifier half-working.
func CompilePatterns(specs []PatternSpec) ([]*CompiledPattern, error) {
	patterns := make([]*CompiledPattern, 0, len(specs))
	for i, spec := range specs {
		p, err := CompilePattern(spec)
		if err != nil {
			return nil, fmt.Errorf("readOnlyBashPatterns[%d]: %w", i, err)
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// CompileNamePatterns compiles MCP tool-name patterns. Names are matched
// whole, same anchoring as bash patterns.
func CompileNamePatterns(sources []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(sources))
	for i, src := range sources {
		src = strings.TrimSpace(src)
		if src == "" {
			return nil, fmt.Errorf("readOnlyMcpPatterns[%d]: empty pattern source", i)
		}
		re, err := regexp.Compile(`\A(?:` + src + `)\z`)
		if err != nil {
			return nil, fmt.Errorf("readOnlyMcpPatterns[%d]: compile pattern %q: %w", i, src, err)
		}
		res = append(res, re)
	}
	return res, nil
}

// MatchesAllowlist reports whether a leaf command's reconstructed text is
// accepted by any compiled pattern. Patterns are tried in order; the first
// full match wins. No pattern means no match: deny-by-default.
func MatchesAllowlist(text string, patterns []*CompiledPattern) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	for _, p := range patterns {
		if p.Regex.MatchString(text) {
			return true
		}
	}
	return false
}

// MatchesName reports whether an MCP tool name matches any compiled name
// pattern.
func MatchesName(name string, patterns []*regexp.Regexp) bool {
	if name == "" {
		return false
	}
	for _, re := range patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
