package safety

// Substitution markers reported in DangerousSubstitution reasons.
const (
	SubstCommand    = "$()"
	SubstBacktick   = "``"
	SubstProcessIn  = "<()"
	SubstProcessOut = ">()"
)

// HasDangerousSubstitution scans raw command text for command substitution
// ($(...) or backticks) and process substitution (<(...), >(...)) that the
// shell would actually execute. Occurrences inside single quotes are literal
// and ignored, as are occurrences escaped with a backslash. Double quotes do
// NOT neutralize substitution and are treated the same as unquoted text.
// ANSI-C quoting ($'...') is tracked as its own state: unlike plain single
// quotes it honors backslash escapes, so $'\'' must not flip quote parity.
//
// It returns the substitution form that was found, e.g. "$()", and whether
// one was found at all. The scan runs before any parsing: text containing
// live substitution syntax is rejected without ever being handed to the
// shell grammar.
func HasDangerousSubstitution(text string) (string, bool) {
	inSingle := false
	inDouble := false
	inAnsi := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if escaped {
			escaped = false
			continue
		}

		if inSingle {
			if c == '\'' {
				inSingle = false
			}
			continue
		}

		if inAnsi {
			switch c {
			case '\\':
				escaped = true
			case '\'':
				inAnsi = false
			}
			continue
		}

		switch c {
		case '\\':
			// Backslash escapes the next byte outside single quotes,
			// including inside double quotes.
			escaped = true
		case '\'':
			if !inDouble {
				inSingle = true
			}
		case '"':
			inDouble = !inDouble
		case '`':
			return SubstBacktick, true
		case '$':
			if i+1 < len(text) && text[i+1] == '(' {
				return SubstCommand, true
			}
			if !inDouble && i+1 < len(text) && text[i+1] == '\'' {
				// $'...' opens an ANSI-C quoted span; consume the quote
				// so the single-quote branch never sees it.
				inAnsi = true
				i++
			}
		case '<':
			if !inDouble && i+1 < len(text) && text[i+1] == '(' {
				return SubstProcessIn, true
			}
		case '>':
			if !inDouble && i+1 < len(text) && text[i+1] == '(' {
				return SubstProcessOut, true
			}
		}
	}
	return "", false
}

// HasDangerousControlChars reports whether the raw command text contains a
// NUL or another C0 control character. Tab is ordinary whitespace, and
// newline and carriage return are deliberately not flagged: multi-line input
// is legitimate and each line is validated structurally instead, since only
// the validator can tell "ls\ngit status" from "ls\nrm -rf /".
func HasDangerousControlChars(text string) bool {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 0x20 {
			continue
		}
		switch c {
		case '\t', '\n', '\r':
			continue
		}
		return true
	}
	return false
}
