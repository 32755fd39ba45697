package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasDangerousSubstitution(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		pattern string
		hit     bool
	}{
		{name: "plain command", text: "git status", hit: false},
		{name: "command substitution", text: "ls $(rm -rf /)", pattern: SubstCommand, hit: true},
		{name: "nested substitution", text: "echo $(echo $(rm))", pattern: SubstCommand, hit: true},
		{name: "backticks", text: "echo `rm -rf /`", pattern: SubstBacktick, hit: true},
		{name: "process substitution in", text: "diff <(ls) <(ls ..)", pattern: SubstProcessIn, hit: true},
		{name: "process substitution out", text: "tee >(wc -l)", pattern: SubstProcessOut, hit: true},
		{name: "single quoted is literal", text: "grep '$(rm -rf /)' file", hit: false},
		{name: "single quoted backtick", text: "echo '`rm`'", hit: false},
		{name: "escaped dollar", text: `echo \$(pwd)`, hit: false},
		{name: "escaped backtick", text: "echo \\`pwd\\`", hit: false},
		{name: "double quotes do not protect", text: `echo "$(rm -rf /)"`, pattern: SubstCommand, hit: true},
		{name: "double quoted backtick", text: "echo \"`rm`\"", pattern: SubstBacktick, hit: true},
		{name: "dollar without paren", text: "echo $HOME", hit: false},
		{name: "plain redirect is not procsubst", text: "ls > out.txt", hit: false},
		{name: "arithmetic looks like substitution", text: "echo $((1+2))", pattern: SubstCommand, hit: true},
		{name: "single quote closes then live", text: "echo 'safe' $(rm)", pattern: SubstCommand, hit: true},
		{name: "ansi-c quoting is literal", text: `echo $'$(rm -rf /)'`, hit: false},
		{name: "ansi-c escaped quote does not flip parity", text: `cat $'\''$(rm -rf /)'x'`, pattern: SubstCommand, hit: true},
		{name: "ansi-c with doubled escape then live", text: `echo $'\\' $(rm)`, pattern: SubstCommand, hit: true},
		{name: "dollar quote inside double quotes is not ansi-c", text: `echo "$'x" $(rm)`, pattern: SubstCommand, hit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern, hit := HasDangerousSubstitution(tt.text)
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.Equal(t, tt.pattern, pattern)
			}
		})
	}
}

func TestHasDangerousControlChars(t *testing.T) {
	tests := []struct {
		name string
		text string
		hit  bool
	}{
		{name: "plain", text: "ls -la", hit: false},
		{name: "nul", text: "cat\x00file", hit: true},
		{name: "escape byte", text: "ls \x1b[2J", hit: true},
		{name: "bell", text: "echo \a", hit: true},
		{name: "newline ok", text: "ls\ngit status", hit: false},
		{name: "carriage return ok", text: "ls\r\ngit status", hit: false},
		{name: "tab ok", text: "ls\t-la", hit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hit, HasDangerousControlChars(tt.text))
		})
	}
}
