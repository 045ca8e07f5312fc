package annotate

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/coda/grammar"
	"github.com/gnolang/coda/tokenizer"
)

type expectedFragment struct {
	kind string
	text string
	meta string
	body string
}

func summarize(fragments []Fragment) []expectedFragment {
	out := make([]expectedFragment, len(fragments))
	for i, f := range fragments {
		out[i] = expectedFragment{f.Kind, f.Text, f.Meta, f.Body}
	}
	return out
}

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		lang     Language
		input    string
		expected []expectedFragment
	}{
		{
			name:     "empty",
			lang:     Python,
			input:    "",
			expected: []expectedFragment{},
		},
		{
			name:  "block then code",
			lang:  Python,
			input: "# --\n# Block 1\nLine 1\n",
			expected: []expectedFragment{
				{kind: BlockRule, text: "# --\n# Block 1\n", body: "Block 1"},
				{kind: CodeRule, text: "Line 1\n"},
			},
		},
		{
			name:  "plain comments are code",
			lang:  Python,
			input: "x = 1\n# -- intro\n# hello\n#   world\n\ny = 2\n# plain\nz\n",
			expected: []expectedFragment{
				{kind: CodeRule, text: "x = 1\n"},
				{kind: BlockRule, text: "# -- intro\n# hello\n#   world\n", meta: "intro", body: "hello\n  world"},
				{kind: CodeRule, text: "\ny = 2\n# plain\nz\n"},
			},
		},
		{
			name:  "touching blocks stay apart",
			lang:  Python,
			input: "# -- a\n# x\n# -- b\n# y",
			expected: []expectedFragment{
				{kind: BlockRule, text: "# -- a\n# x\n", meta: "a", body: "x"},
				{kind: BlockRule, text: "# -- b\n# y", meta: "b", body: "y"},
			},
		},
		{
			name:  "indented go block",
			lang:  Builtin[4],
			input: "func f() {\n\t// -- doc\n\t// text\n\treturn\n}\n",
			expected: []expectedFragment{
				{kind: CodeRule, text: "func f() {\n"},
				{kind: BlockRule, text: "\t// -- doc\n\t// text\n", meta: "doc", body: "text"},
				{kind: CodeRule, text: "\treturn\n}\n"},
			},
		},
		{
			name:  "marker alone",
			lang:  Python,
			input: "#  --   title  \n",
			expected: []expectedFragment{
				{kind: BlockRule, text: "#  --   title  \n", meta: "title"},
			},
		},
		{
			name:  "rule lines are plain comments",
			lang:  Python,
			input: "#-------\n# ----\n#-- tight\n# ---- heading\nx = 1\n",
			expected: []expectedFragment{
				{kind: CodeRule, text: "#-------\n# ----\n#-- tight\n# ---- heading\nx = 1\n"},
			},
		},
		{
			name:  "crlf marker",
			lang:  Python,
			input: "# -- win\r\n# body\r\n",
			expected: []expectedFragment{
				{kind: BlockRule, text: "# -- win\r\n# body\r\n", meta: "win", body: "body"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := MustNew(tt.lang)
			fragments := e.All(tt.input)
			assert.Equal(t, tt.expected, summarize(fragments))
		})
	}
}

func TestExtractTilesInput(t *testing.T) {
	t.Parallel()
	e := MustNew(Python)

	inputs := []string{
		"a\n",
		"# --\n",
		"\n\n\n",
		"# -- x\n# y\n\n# z\ncode\n# -- w\n",
		"def f():\n    # -- doc\n    # more\n    return 1\n# trailing",
	}
	for _, input := range inputs {
		var sb strings.Builder
		offset := 0
		for f := range e.Extract(input) {
			assert.Equal(t, offset, f.Start.Offset, "fragments of %q must be contiguous", input)
			assert.NotZero(t, f.Len())
			sb.WriteString(f.Text)
			offset = f.End.Offset
		}
		assert.Equal(t, input, sb.String())
	}
}

func TestExtractPositions(t *testing.T) {
	t.Parallel()
	e := MustNew(Python)

	fragments := slices.Collect(e.ExtractFile("demo.py", "x = 1\n  # -- doc\n  # body\ny\n"))
	require.Len(t, fragments, 3)

	block := fragments[1]
	assert.True(t, block.IsBlock())
	assert.Equal(t, "demo.py", block.Start.Filename)
	assert.Equal(t, 6, block.Start.Offset)
	assert.Equal(t, 2, block.Start.Line)
	assert.Equal(t, 1, block.Start.Column)
	assert.Equal(t, 4, block.End.Line)
	assert.Equal(t, "Block demo.py:2:1-4:1", block.String())
}

func TestExtractStopsEarly(t *testing.T) {
	t.Parallel()
	e := MustNew(Python)

	count := 0
	for range e.Extract("# -- a\nx\n# -- b\ny\n") {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestNewWith(t *testing.T) {
	t.Parallel()

	table := grammar.MustCompile(
		grammar.Rule{Name: BlockRule, Expr: "blockStart comment*"},
		grammar.Rule{Name: "Comment", Expr: "comment+"},
		grammar.Rule{Name: CodeRule, Expr: "_+"},
	)
	e, err := NewWith(Python, tokenizer.MustCompile(Python.Patterns()), table)
	require.NoError(t, err)

	assert.Equal(t, []expectedFragment{
		{kind: "Comment", text: "# a\n# b\n"},
		{kind: CodeRule, text: "x\n"},
	}, summarize(e.All("# a\n# b\nx\n")))

	_, err = NewWith(Python, e.Tokenizer(), grammar.Table{})
	assert.ErrorIs(t, err, grammar.ErrNoInitialState)
}

func TestUnnamedEventsAreText(t *testing.T) {
	t.Parallel()

	// no rule names: events come out unnamed
	table := grammar.MustSeq(grammar.Step{Kind: grammar.Wildcard, Card: grammar.OneOrMore})
	e, err := NewWith(Python, tokenizer.MustCompile(Python.Patterns()), table)
	require.NoError(t, err)

	fragments := e.All("a\n# b\n")
	require.Len(t, fragments, 1)
	assert.Equal(t, tokenizer.TextKind, fragments[0].Kind)
	assert.Equal(t, "a\n# b\n", fragments[0].Text)
}

func TestKinds(t *testing.T) {
	t.Parallel()
	tok := tokenizer.MustCompile(Python.Patterns())

	kinds := slices.Collect(Kinds(tok.Scan("# -- x\n# y\n\nz")))
	assert.Equal(t, []string{BlockStartKind, CommentKind, SeparatorKind, tokenizer.TextKind, tokenizer.EOSKind}, kinds)
}
