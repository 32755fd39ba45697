package safety

// The types below are safemode's own normalized view of a shell command,
// independent of the grammar library that produced it. Only the constructs
// the validator knows how to judge are representable; anything else fails
// lowering and is rejected upstream.

// Separator is the operator following a statement in a script.
type Separator string

const (
	// SepSequence covers ";", newlines, and the end of the script.
	SepSequence Separator = ";"
	SepAnd      Separator = "&&"
	SepOr       Separator = "||"
	// SepBackground is "&". It is always rejected by the validator.
	SepBackground Separator = "&"
)

// Script is a sequence of statements with their trailing separators.
type Script struct {
	Stmts []Statement
}

// Statement is one pipeline (or subshell) plus the separator that follows it.
type Statement struct {
	Node Node
	Sep  Separator
}

// Node is a validated element of a script: a Pipeline, SimpleCommand, or
// Subshell.
type Node interface {
	node()
}

// Pipeline is a chain of stages connected by "|".
type Pipeline struct {
	Stages []Node // SimpleCommand or Subshell
}

func (*Pipeline) node() {}

// SimpleCommand is a single leaf invocation: one program plus arguments,
// reconstructed as a flat string, with any redirections that applied to it.
type SimpleCommand struct {
	Text   string
	Redirs []Redirection
}

func (*SimpleCommand) node() {}

// Subshell is a parenthesized (or brace-grouped) inner script.
type Subshell struct {
	Inner  Script
	Redirs []Redirection
}

func (*Subshell) node() {}

// RedirDirection classifies a redirection operator.
type RedirDirection string

const (
	RedirIn      RedirDirection = "in"
	RedirOut     RedirDirection = "out"
	RedirAppend  RedirDirection = "append"
	RedirClobber RedirDirection = "clobber"
)

// Redirection is a single redirection with its resolved target word.
type Redirection struct {
	Direction RedirDirection
	// Operator is the literal operator text, e.g. ">>".
	Operator string
	// Target is the reconstructed target word.
	Target string
}
