package safety

import (
	"fmt"
	"strings"
)

// FormatRejectionMessage renders a rejection for the user: the offending
// command, the category of the rejection, any diagnostics, and the fixed
// hint for leaving the restricted mode. Pure string building; it never
// changes the decision.
func FormatRejectionMessage(command string, reason RejectionReason, cfg *ModeConfig) string {
	mode := cfg.DisplayName
	if mode == "" {
		mode = "this mode"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s blocked the command %q: ", mode, strings.TrimSpace(command))

	switch r := reason.(type) {
	case DangerousSubstitution:
		fmt.Fprintf(&sb, "it contains %s substitution, which can execute arbitrary commands.", r.Pattern)

	case DangerousControlChar:
		sb.WriteString("it contains a control character that shells can misinterpret.")

	case DangerousOperator:
		switch r.Type {
		case OperatorBackground:
			fmt.Fprintf(&sb, "the %q operator runs commands in the background, where their output cannot be audited.", r.Operator)
		default:
			fmt.Fprintf(&sb, "the %q redirection writes outside /dev/null.", r.Operator)
		}

	case NoSafePattern:
		fmt.Fprintf(&sb, "%q does not match any read-only command pattern.", r.Command)
		if r.Mismatch != nil && r.Mismatch.FailedToken != "" {
			if r.Mismatch.MatchedPrefix != "" {
				fmt.Fprintf(&sb, "\n  %q matched an allowed shape, then %q diverged from it.",
					r.Mismatch.MatchedPrefix, r.Mismatch.FailedToken)
			} else {
				fmt.Fprintf(&sb, "\n  %q did not match the start of any allowed shape.", r.Mismatch.FailedToken)
			}
		} else if len(r.RelevantPatterns) > 0 {
			sb.WriteString("\n  Related allowed commands:")
			for _, p := range r.RelevantPatterns {
				label := p.Comment
				if label == "" {
					label = p.Source
				}
				fmt.Fprintf(&sb, "\n    - %s", label)
			}
		}
		if r.Mismatch != nil && r.Mismatch.Suggestion != "" {
			fmt.Fprintf(&sb, "\n  Suggestion: %s", r.Mismatch.Suggestion)
		}

	default:
		// The reason union is closed; this only fires if a new kind is
		// added without updating the formatter.
		fmt.Fprintf(&sb, "it was rejected (%s).", reason.Kind())
	}

	if cfg.ShortcutHint != "" {
		fmt.Fprintf(&sb, "\nPress %s to leave %s and run it with approval.", cfg.ShortcutHint, mode)
	}
	return sb.String()
}
