package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, command string) *Script {
	t.Helper()
	script, err := ParseScript(command)
	require.NoError(t, err)
	return script
}

func leaf(t *testing.T, node Node) *SimpleCommand {
	t.Helper()
	cmd, ok := node.(*SimpleCommand)
	require.True(t, ok, "expected SimpleCommand, got %T", node)
	return cmd
}

func TestParseScript_Simple(t *testing.T) {
	script := mustParse(t, "ls -la")
	require.Len(t, script.Stmts, 1)

	cmd := leaf(t, script.Stmts[0].Node)
	assert.Equal(t, "ls -la", cmd.Text)
	assert.Empty(t, cmd.Redirs)
	assert.Equal(t, SepSequence, script.Stmts[0].Sep)
}

func TestParseScript_QuotedArgs(t *testing.T) {
	script := mustParse(t, `grep 'a b' "c d" file`)
	require.Len(t, script.Stmts, 1)

	// Quoted segments contribute their literal content.
	assert.Equal(t, "grep a b c d file", leaf(t, script.Stmts[0].Node).Text)
}

func TestParseScript_ParamStaysUnexpanded(t *testing.T) {
	script := mustParse(t, "ls $HOME")
	assert.Equal(t, "ls $HOME", leaf(t, script.Stmts[0].Node).Text)
}

func TestParseScript_AndOrChain(t *testing.T) {
	script := mustParse(t, "git status && git log || echo fail")
	require.Len(t, script.Stmts, 3)

	assert.Equal(t, "git status", leaf(t, script.Stmts[0].Node).Text)
	assert.Equal(t, SepAnd, script.Stmts[0].Sep)
	assert.Equal(t, "git log", leaf(t, script.Stmts[1].Node).Text)
	assert.Equal(t, SepOr, script.Stmts[1].Sep)
	assert.Equal(t, "echo fail", leaf(t, script.Stmts[2].Node).Text)
	assert.Equal(t, SepSequence, script.Stmts[2].Sep)
}

func TestParseScript_SemicolonsAndNewlines(t *testing.T) {
	script := mustParse(t, "ls; git status\ncat file")
	require.Len(t, script.Stmts, 3)
	for _, stmt := range script.Stmts {
		assert.Equal(t, SepSequence, stmt.Sep)
	}
}

func TestParseScript_Background(t *testing.T) {
	script := mustParse(t, "sleep 10 &")
	require.Len(t, script.Stmts, 1)
	assert.Equal(t, SepBackground, script.Stmts[0].Sep)
}

func TestParseScript_BackgroundChain(t *testing.T) {
	// Backgrounding applies to the whole && chain.
	script := mustParse(t, "ls && cat file &")
	require.Len(t, script.Stmts, 2)
	assert.Equal(t, SepAnd, script.Stmts[0].Sep)
	assert.Equal(t, SepBackground, script.Stmts[1].Sep)
}

func TestParseScript_Pipeline(t *testing.T) {
	script := mustParse(t, "cat file | grep x | head -n 5")
	require.Len(t, script.Stmts, 1)

	pipe, ok := script.Stmts[0].Node.(*Pipeline)
	require.True(t, ok)
	require.Len(t, pipe.Stages, 3)
	assert.Equal(t, "cat file", leaf(t, pipe.Stages[0]).Text)
	assert.Equal(t, "grep x", leaf(t, pipe.Stages[1]).Text)
	assert.Equal(t, "head -n 5", leaf(t, pipe.Stages[2]).Text)
}

func TestParseScript_StderrPipeBecomesRedirect(t *testing.T) {
	script := mustParse(t, "make |& tee log")
	pipe, ok := script.Stmts[0].Node.(*Pipeline)
	require.True(t, ok)
	require.Len(t, pipe.Stages, 2)

	first := leaf(t, pipe.Stages[0])
	require.Len(t, first.Redirs, 1)
	assert.Equal(t, RedirOut, first.Redirs[0].Direction)
	assert.Equal(t, "|&", first.Redirs[0].Operator)
}

func TestParseScript_Subshell(t *testing.T) {
	script := mustParse(t, "(cd /tmp; ls)")
	require.Len(t, script.Stmts, 1)

	sub, ok := script.Stmts[0].Node.(*Subshell)
	require.True(t, ok)
	require.Len(t, sub.Inner.Stmts, 2)
	assert.Equal(t, "cd /tmp", leaf(t, sub.Inner.Stmts[0].Node).Text)
}

func TestParseScript_BraceGroupLowersAsSubshell(t *testing.T) {
	script := mustParse(t, "{ ls; git status; }")
	sub, ok := script.Stmts[0].Node.(*Subshell)
	require.True(t, ok)
	assert.Len(t, sub.Inner.Stmts, 2)
}

func TestParseScript_Redirections(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		dir      RedirDirection
		operator string
		target   string
	}{
		{name: "input", command: "wc -l < file", dir: RedirIn, operator: "<", target: "file"},
		{name: "output", command: "ls > out.txt", dir: RedirOut, operator: ">", target: "out.txt"},
		{name: "append", command: "ls >> out.txt", dir: RedirAppend, operator: ">>", target: "out.txt"},
		{name: "clobber", command: "ls >| out.txt", dir: RedirClobber, operator: ">|", target: "out.txt"},
		{name: "stderr to devnull", command: "cat file 2> /dev/null", dir: RedirOut, operator: ">", target: "/dev/null"},
		{name: "fd duplication", command: "ls 2>&1", dir: RedirOut, operator: ">&", target: "&1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := mustParse(t, tt.command)
			cmd := leaf(t, script.Stmts[0].Node)
			require.Len(t, cmd.Redirs, 1)
			assert.Equal(t, tt.dir, cmd.Redirs[0].Direction)
			assert.Equal(t, tt.operator, cmd.Redirs[0].Operator)
			assert.Equal(t, tt.target, cmd.Redirs[0].Target)
		})
	}
}

func TestParseScript_AssignmentsKeptInText(t *testing.T) {
	script := mustParse(t, "FOO=bar git status")
	assert.Equal(t, "FOO=bar git status", leaf(t, script.Stmts[0].Node).Text)
}

func TestParseScript_Unsupported(t *testing.T) {
	commands := []string{
		"cat <<< 'here string'",
		"cat << EOF\nhello\nEOF",
		"for f in *; do cat $f; done",
		"if true; then ls; fi",
		"while read l; do echo $l; done",
		"case $x in a) ls;; esac",
		"f() { ls; }",
		"! grep -q x file",
		// Live expansion nodes surviving into lowering mean the lexical
		// guard was steered around; lowering must fail closed rather
		// than flatten them into text an open-tail pattern could match.
		"cat $(rm -rf /)",
		"diff <(ls) file",
		"tee >(wc -l)",
		"echo $((1+2))",
		"cat $'\\''$(rm -rf /)'x'",
	}

	for _, command := range commands {
		t.Run(command, func(t *testing.T) {
			_, err := ParseScript(command)
			assert.Error(t, err)
		})
	}
}

func TestParseScript_ParseError(t *testing.T) {
	_, err := ParseScript("ls ((")
	assert.Error(t, err)
}

func TestParseScript_Empty(t *testing.T) {
	script := mustParse(t, "")
	assert.Empty(t, script.Stmts)
}
