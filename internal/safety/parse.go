package safety

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ErrUnsupportedSyntax marks shell constructs the validator has no rules
// for (loops, conditionals, functions, here-documents, and so on). The
// classifier never guesses at the meaning of something it cannot fully
// lower, so callers treat this exactly like a parse failure.
var ErrUnsupportedSyntax = errors.New("unsupported shell construct")

func unsupportedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedSyntax, fmt.Sprintf(format, args...))
}

// ParseScript parses a command string with the bash grammar and lowers it
// into safemode's own Script representation. Any parse failure, and any
// construct outside the representable subset, is an error; the caller
// converts that into a rejection.
func ParseScript(command string) (*Script, error) {
	parser := syntax.NewParser(
		syntax.Variant(syntax.LangBash),
		syntax.KeepComments(false),
	)

	file, err := parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, fmt.Errorf("parse command: %w", err)
	}

	return lowerStmts(file.Stmts)
}

func lowerStmts(stmts []*syntax.Stmt) (*Script, error) {
	script := &Script{}
	for _, stmt := range stmts {
		if err := lowerStmt(stmt, SepSequence, script); err != nil {
			return nil, err
		}
	}
	return script, nil
}

// lowerStmt appends the statement (flattening && and || chains into sibling
// statements) to the script. sep is the separator that follows the whole
// statement in the source.
func lowerStmt(stmt *syntax.Stmt, sep Separator, script *Script) error {
	if stmt.Background {
		sep = SepBackground
	}

	if bin, ok := stmt.Cmd.(*syntax.BinaryCmd); ok {
		switch bin.Op {
		case syntax.AndStmt, syntax.OrStmt:
			if len(stmt.Redirs) > 0 {
				return unsupportedf("redirection on %s chain", bin.Op.String())
			}
			inner := SepAnd
			if bin.Op == syntax.OrStmt {
				inner = SepOr
			}
			if err := lowerStmt(bin.X, inner, script); err != nil {
				return err
			}
			return lowerStmt(bin.Y, sep, script)
		}
	}

	node, err := lowerNode(stmt)
	if err != nil {
		return err
	}
	script.Stmts = append(script.Stmts, Statement{Node: node, Sep: sep})
	return nil
}

// lowerNode lowers a statement into a SimpleCommand, Subshell, or Pipeline,
// attaching the statement's redirections.
func lowerNode(stmt *syntax.Stmt) (Node, error) {
	if stmt.Negated {
		return nil, unsupportedf("negated command")
	}
	if stmt.Coprocess {
		return nil, unsupportedf("coprocess")
	}

	redirs, err := lowerRedirs(stmt.Redirs)
	if err != nil {
		return nil, err
	}

	switch cmd := stmt.Cmd.(type) {
	case *syntax.CallExpr:
		text, err := callText(cmd)
		if err != nil {
			return nil, err
		}
		return &SimpleCommand{Text: text, Redirs: redirs}, nil

	case *syntax.Subshell:
		inner, err := lowerStmts(cmd.Stmts)
		if err != nil {
			return nil, err
		}
		return &Subshell{Inner: *inner, Redirs: redirs}, nil

	case *syntax.Block:
		// A brace group is a subshell for our purposes: exactly as safe
		// as its contents.
		inner, err := lowerStmts(cmd.Stmts)
		if err != nil {
			return nil, err
		}
		return &Subshell{Inner: *inner, Redirs: redirs}, nil

	case *syntax.BinaryCmd:
		switch cmd.Op {
		case syntax.Pipe, syntax.PipeAll:
			if len(redirs) > 0 {
				return nil, unsupportedf("redirection on pipeline")
			}
			pipe := &Pipeline{}
			if err := lowerPipe(cmd, pipe); err != nil {
				return nil, err
			}
			return pipe, nil
		default:
			return nil, unsupportedf("operator %s", cmd.Op.String())
		}

	case nil:
		return nil, unsupportedf("empty statement")

	default:
		return nil, unsupportedf("%T", cmd)
	}
}

// lowerPipe flattens a left-nested pipe chain into pipeline stages.
func lowerPipe(bin *syntax.BinaryCmd, pipe *Pipeline) error {
	if left, ok := bin.X.Cmd.(*syntax.BinaryCmd); ok && len(bin.X.Redirs) == 0 &&
		(left.Op == syntax.Pipe || left.Op == syntax.PipeAll) && !bin.X.Negated {
		if err := lowerPipe(left, pipe); err != nil {
			return err
		}
	} else {
		stage, err := lowerStage(bin.X, bin.Op == syntax.PipeAll)
		if err != nil {
			return err
		}
		pipe.Stages = append(pipe.Stages, stage)
	}

	stage, err := lowerStage(bin.Y, false)
	if err != nil {
		return err
	}
	pipe.Stages = append(pipe.Stages, stage)
	return nil
}

// lowerStage lowers one pipeline stage. stderrPiped marks the left side of
// a |& operator, which desugars to a 2>&1 output redirect and is recorded
// as one so the validator rejects it by the redirect rule.
func lowerStage(stmt *syntax.Stmt, stderrPiped bool) (Node, error) {
	node, err := lowerNode(stmt)
	if err != nil {
		return nil, err
	}
	if stderrPiped {
		redir := Redirection{Direction: RedirOut, Operator: "|&", Target: "&1"}
		switch n := node.(type) {
		case *SimpleCommand:
			n.Redirs = append(n.Redirs, redir)
		case *Subshell:
			n.Redirs = append(n.Redirs, redir)
		default:
			return nil, unsupportedf("|& on nested pipeline")
		}
	}
	return node, nil
}

// lowerRedirs lowers redirection operators into the validator's model.
// Here-documents and here-strings are not representable and fail lowering.
func lowerRedirs(redirs []*syntax.Redirect) ([]Redirection, error) {
	if len(redirs) == 0 {
		return nil, nil
	}
	out := make([]Redirection, 0, len(redirs))
	for _, r := range redirs {
		var dir RedirDirection
		target, err := wordText(r.Word)
		if err != nil {
			return nil, err
		}

		switch r.Op {
		case syntax.RdrIn, syntax.DplIn:
			dir = RedirIn
		case syntax.RdrOut, syntax.RdrAll:
			dir = RedirOut
		case syntax.AppOut, syntax.AppAll:
			dir = RedirAppend
		case syntax.ClbOut:
			dir = RedirClobber
		case syntax.DplOut:
			// 2>&1 and friends duplicate an output descriptor; model the
			// fd as the target so the /dev/null rule rejects it.
			dir = RedirOut
			target = "&" + target
		default:
			return nil, unsupportedf("redirection %s", r.Op.String())
		}

		out = append(out, Redirection{
			Direction: dir,
			Operator:  r.Op.String(),
			Target:    target,
		})
	}
	return out, nil
}

// callText reconstructs a leaf command's text: assignments, program name,
// and arguments joined by single spaces.
func callText(call *syntax.CallExpr) (string, error) {
	parts := make([]string, 0, len(call.Assigns)+len(call.Args))

	for _, assign := range call.Assigns {
		text, err := assignText(assign)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	for _, word := range call.Args {
		text, err := wordText(word)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}

	if len(parts) == 0 {
		return "", unsupportedf("empty command")
	}
	return strings.Join(parts, " "), nil
}

func assignText(assign *syntax.Assign) (string, error) {
	var sb strings.Builder
	if assign.Name != nil {
		sb.WriteString(assign.Name.Value)
	}
	if assign.Append {
		sb.WriteString("+=")
	} else {
		sb.WriteString("=")
	}
	if assign.Value != nil {
		text, err := wordText(assign.Value)
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// wordText converts a word to flat text. Quoted segments contribute their
// literal content and parameter expansions stay in $NAME form. Substitution
// nodes are an error: the lexical guard vouched this text was inert before
// parsing, so a live substitution node reaching lowering is proof the guard
// was steered around, and lowering fails closed instead of flattening the
// node into text an open-tail pattern could swallow.
func wordText(word *syntax.Word) (string, error) {
	if word == nil {
		return "", nil
	}
	var sb strings.Builder
	for _, part := range word.Parts {
		if err := writeWordPart(&sb, part); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func writeWordPart(sb *strings.Builder, part syntax.WordPart) error {
	switch p := part.(type) {
	case *syntax.Lit:
		sb.WriteString(p.Value)
	case *syntax.SglQuoted:
		sb.WriteString(p.Value)
	case *syntax.DblQuoted:
		for _, qp := range p.Parts {
			if err := writeWordPart(sb, qp); err != nil {
				return err
			}
		}
	case *syntax.ParamExp:
		if p.Param != nil {
			sb.WriteString("$" + p.Param.Value)
		}
	case *syntax.CmdSubst:
		return unsupportedf("command substitution")
	case *syntax.ProcSubst:
		return unsupportedf("process substitution")
	default:
		// Arithmetic, extended globs, and anything else the validator
		// has no rules for.
		return unsupportedf("word part %T", part)
	}
	return nil
}
