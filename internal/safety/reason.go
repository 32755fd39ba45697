package safety

// Decision is the outcome of classifying a command.
type Decision struct {
	Allowed bool
	// Reason explains the rejection. It is nil when Allowed is true.
	Reason RejectionReason
}

// Allow returns an allowed decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Reject returns a rejected decision carrying the given reason.
func Reject(reason RejectionReason) Decision {
	return Decision{Reason: reason}
}

// RejectionKind identifies the category of a rejection.
type RejectionKind string

const (
	KindDangerousSubstitution RejectionKind = "dangerous_substitution"
	KindDangerousControlChar  RejectionKind = "dangerous_control_char"
	KindDangerousOperator     RejectionKind = "dangerous_operator"
	KindNoSafePattern         RejectionKind = "no_safe_pattern"
)

// RejectionReason is the closed set of reasons a command can be rejected.
// The four implementations below are the only ones; the message formatter
// handles each of them exhaustively.
type RejectionReason interface {
	Kind() RejectionKind
	rejectionReason()
}

// DangerousSubstitution reports unquoted command, backtick, or process
// substitution syntax found before parsing.
type DangerousSubstitution struct {
	// Pattern is the substitution form that was found, e.g. "$()" or "``".
	Pattern string
}

func (DangerousSubstitution) Kind() RejectionKind { return KindDangerousSubstitution }
func (DangerousSubstitution) rejectionReason()    {}

// DangerousControlChar reports a control character (NUL or similar) in the
// raw command text.
type DangerousControlChar struct{}

func (DangerousControlChar) Kind() RejectionKind { return KindDangerousControlChar }
func (DangerousControlChar) rejectionReason()    {}

// OperatorKind distinguishes the two classes of banned shell operators.
type OperatorKind string

const (
	OperatorRedirect   OperatorKind = "redirect"
	OperatorBackground OperatorKind = "background"
)

// DangerousOperator reports a shell operator that is banned outright:
// backgrounding, or an output redirection to anywhere but /dev/null.
type DangerousOperator struct {
	Operator string
	Type     OperatorKind
}

func (DangerousOperator) Kind() RejectionKind { return KindDangerousOperator }
func (DangerousOperator) rejectionReason()    {}

// NoSafePattern reports a leaf command that matched none of the configured
// read-only patterns. RelevantPatterns and Mismatch are advisory diagnostics
// and never influence the decision itself.
type NoSafePattern struct {
	// Command is the reconstructed text of the offending leaf.
	Command string
	// RelevantPatterns are allow-list entries related to the command's
	// program name, used to explain what almost matched.
	RelevantPatterns []*CompiledPattern
	// Mismatch pinpoints where the command diverged from the closest
	// pattern, when that could be determined.
	Mismatch *MismatchAnalysis
}

func (NoSafePattern) Kind() RejectionKind { return KindNoSafePattern }
func (NoSafePattern) rejectionReason()    {}

// MismatchAnalysis explains where a command stopped matching an allow-list
// pattern. Diagnostic only.
type MismatchAnalysis struct {
	// MatchedPrefix is the longest leading portion of the command that
	// still matched the pattern.
	MatchedPrefix string
	// FailedToken is the first token after MatchedPrefix.
	FailedToken string
	// Suggestion is an optional actionable hint.
	Suggestion string
}
