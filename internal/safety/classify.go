package safety

import "strings"

// Classify decides whether a proposed shell command is provably read-only
// under the given mode config. It is a pure function of its inputs: no I/O,
// no hidden state, and the same inputs always yield the same decision.
// Anything the classifier cannot fully understand is rejected.
func Classify(command string, cfg *ModeConfig) Decision {
	if reason := ExplainRejection(command, cfg); reason != nil {
		return Reject(reason)
	}
	return Allow()
}

// ExplainRejection returns the reason a command would be rejected, or nil
// when the command is allowed. It is the reason-only variant of Classify
// used to render human-facing messages.
func ExplainRejection(command string, cfg *ModeConfig) RejectionReason {
	// Lexical screening runs before any parsing: feeding text with live
	// substitution syntax to a shell grammar is itself off-limits.
	if pattern, ok := HasDangerousSubstitution(command); ok {
		return DangerousSubstitution{Pattern: pattern}
	}
	if HasDangerousControlChars(command) {
		return DangerousControlChar{}
	}

	script, err := ParseScript(command)
	if err != nil {
		// Unparseable input is never assumed safe, and gets no further
		// analysis.
		return NoSafePattern{Command: strings.TrimSpace(command)}
	}

	return validateScript(script, cfg)
}

// ClassifyToolName decides whether an MCP tool name is classified read-only
// by the mode config. Names go through the same deny-by-default matching as
// bash leaves, against their own pattern list.
func ClassifyToolName(name string, cfg *ModeConfig) Decision {
	if MatchesName(name, cfg.ReadOnlyMCPPatterns) {
		return Allow()
	}
	return Reject(NoSafePattern{Command: name})
}

// validateScript walks the script's statements. The script is safe iff
// every statement independently validates; && and || impose nothing extra,
// since either branch might run, while & is banned outright because a
// backgrounded command's output cannot be audited by the caller.
func validateScript(script *Script, cfg *ModeConfig) RejectionReason {
	for _, stmt := range script.Stmts {
		if stmt.Sep == SepBackground {
			return DangerousOperator{Operator: "&", Type: OperatorBackground}
		}
		if reason := validateNode(stmt.Node, cfg); reason != nil {
			return reason
		}
	}
	return nil
}

func validateNode(node Node, cfg *ModeConfig) RejectionReason {
	switch n := node.(type) {
	case *Pipeline:
		// Data flows through every stage, so one unsafe stage taints the
		// whole pipeline.
		for _, stage := range n.Stages {
			if reason := validateNode(stage, cfg); reason != nil {
				return reason
			}
		}
		return nil

	case *SimpleCommand:
		if reason := validateRedirs(n.Redirs); reason != nil {
			return reason
		}
		if MatchesAllowlist(n.Text, cfg.ReadOnlyBashPatterns) {
			return nil
		}
		return noSafePattern(n.Text, cfg)

	case *Subshell:
		if reason := validateRedirs(n.Redirs); reason != nil {
			return reason
		}
		return validateScript(&n.Inner, cfg)

	default:
		// Lowering only produces the three node kinds above; anything
		// else is a bug, and bugs fail safe.
		return NoSafePattern{}
	}
}

// validateRedirs enforces the redirection policy: input redirection is
// always safe, output in any form is safe only when discarded to /dev/null.
// This one rule blocks "> file", ">> file", and ">| file" while still
// letting "cat file 2>/dev/null" through.
func validateRedirs(redirs []Redirection) RejectionReason {
	for _, r := range redirs {
		switch r.Direction {
		case RedirIn:
			continue
		case RedirOut, RedirAppend, RedirClobber:
			if r.Target == "/dev/null" {
				continue
			}
			return DangerousOperator{Operator: r.Operator, Type: OperatorRedirect}
		default:
			return DangerousOperator{Operator: r.Operator, Type: OperatorRedirect}
		}
	}
	return nil
}
