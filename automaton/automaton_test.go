package automaton

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/coda/grammar"
)

func compile(t *testing.T, rules ...grammar.Rule) grammar.Table {
	t.Helper()
	table, err := grammar.Compile(rules...)
	require.NoError(t, err)
	return table
}

func run(t *testing.T, table grammar.Table, kinds ...string) []Event {
	t.Helper()
	a, err := New(table)
	require.NoError(t, err)
	return slices.Collect(a.Run(slices.Values(kinds)))
}

var blockGrammar = []grammar.Rule{
	{Name: "Block", Expr: "blockStart comment+"},
	{Name: "Comment", Expr: "comment+"},
	{Name: "Code", Expr: "_+"},
}

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rules    []grammar.Rule
		kinds    []string
		expected []Event
	}{
		{
			name:     "single atom rule",
			rules:    []grammar.Rule{{Name: "M", Expr: "T"}},
			kinds:    []string{"T"},
			expected: []Event{{Rule: "M", Start: 0, End: 1}},
		},
		{
			name:     "repeat is greedy",
			rules:    []grammar.Rule{{Name: "M", Expr: "T+"}},
			kinds:    []string{"T", "T", "T"},
			expected: []Event{{Rule: "M", Start: 0, End: 3}},
		},
		{
			name:     "optional miss is an empty match",
			rules:    []grammar.Rule{{Name: "M", Expr: "T?"}},
			kinds:    []string{"A"},
			expected: []Event{{Rule: "M", Start: 0, End: 0}},
		},
		{
			name:  "optional hit then miss",
			rules: []grammar.Rule{{Name: "M", Expr: "T?"}},
			kinds: []string{"T", "A"},
			expected: []Event{
				{Rule: "M", Start: 0, End: 1},
				{Rule: "M", Start: 1, End: 1},
			},
		},
		{
			name:  "consecutive single matches",
			rules: []grammar.Rule{{Name: "M", Expr: "T"}},
			kinds: []string{"T", "T"},
			expected: []Event{
				{Rule: "M", Start: 0, End: 1},
				{Rule: "M", Start: 1, End: 2},
			},
		},
		{
			name:  "multi rule combination",
			rules: blockGrammar,
			kinds: []string{"blockStart", "comment", "code", "blockStart", "comment"},
			expected: []Event{
				{Rule: "Block", Start: 0, End: 2},
				{Rule: "Code", Start: 2, End: 3},
				{Rule: "Block", Start: 3, End: 5},
			},
		},
		{
			name:  "broken sequence is dropped",
			rules: []grammar.Rule{{Name: "Pair", Expr: "A B"}},
			kinds: []string{"A", "C", "A", "B"},
			expected: []Event{
				{Rule: "Pair", Start: 2, End: 4},
			},
		},
		{
			name:  "atom breaking a sequence may start another rule",
			rules: []grammar.Rule{{Name: "Pair", Expr: "A B"}, {Name: "Single", Expr: "C"}},
			kinds: []string{"A", "C"},
			expected: []Event{
				{Rule: "Single", Start: 1, End: 2},
			},
		},
		{
			name:  "partial match at end of stream is not reported",
			rules: []grammar.Rule{{Name: "Pair", Expr: "A B"}},
			kinds: []string{"A"},
		},
		{
			name:  "unknown kinds are ignored",
			rules: []grammar.Rule{{Name: "M", Expr: "T"}},
			kinds: []string{"X", "T", "Y"},
			expected: []Event{
				{Rule: "M", Start: 1, End: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			events := run(t, compile(t, tt.rules...), tt.kinds...)
			assert.Equal(t, tt.expected, events)
		})
	}
}

func TestDeterministic(t *testing.T) {
	t.Parallel()

	table := compile(t, blockGrammar...)
	kinds := []string{"code", "blockStart", "comment", "comment", "comment", "code", "code", "blockStart"}

	first := run(t, table, kinds...)
	second := run(t, table, kinds...)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestRedispatch(t *testing.T) {
	t.Parallel()

	a := MustNew(compile(t, blockGrammar...))

	assert.Empty(t, a.Feed("code"))
	assert.Equal(t, 1, a.Offset())

	// blockStart ends Code and starts Block in a single step
	events := a.Feed("blockStart")
	assert.Equal(t, []Event{{Rule: "Code", Start: 0, End: 1}}, events)
	assert.Equal(t, 2, a.Offset())

	ev, ok := a.Peek()
	require.True(t, ok)
	assert.Equal(t, Event{Rule: "Block", Start: 1, End: 2}, ev)
	_, ok = a.End()
	assert.False(t, ok, "Block needs a comment before it can end")

	assert.Empty(t, a.Feed("comment"))
	ev, ok = a.Peek()
	require.True(t, ok)
	assert.Equal(t, Event{Rule: "Block", Start: 1, End: 3}, ev)

	ev, ok = a.End()
	require.True(t, ok)
	assert.Equal(t, Event{Rule: "Block", Start: 1, End: 3}, ev)
	assert.Equal(t, grammar.State(0), a.State())
	assert.Equal(t, grammar.Start, a.Status())
	assert.Zero(t, a.Offset())
}

func TestEndWithoutMatch(t *testing.T) {
	t.Parallel()

	a := MustNew(compile(t, grammar.Rule{Name: "Pair", Expr: "A B"}))
	_, ok := a.End()
	assert.False(t, ok)

	a.Feed("A")
	_, ok = a.End()
	assert.False(t, ok)
	assert.Equal(t, grammar.Partial, a.Status())
}

func TestNoTransitionFinalizes(t *testing.T) {
	t.Parallel()

	// hand built: nothing leaves state 1, which is complete
	table := grammar.Table{
		0: {"A": {Target: 1, Status: grammar.Complete, Rule: "M"}},
		1: {},
	}
	a := MustNew(table)
	assert.Empty(t, a.Feed("A"))
	assert.Equal(t, []Event{{Rule: "M", Start: 0, End: 1}}, a.Feed("B"))
	assert.Equal(t, grammar.State(0), a.State())
	assert.Equal(t, grammar.Start, a.Status())
	assert.Empty(t, a.Feed("B"))
}

func TestDefects(t *testing.T) {
	t.Parallel()

	t.Run("end without start", func(t *testing.T) {
		t.Parallel()
		table := grammar.Table{
			0: {"A": {Target: 1, Status: grammar.Ready}},
			1: {grammar.Wildcard: {Target: 0, Status: grammar.End, Rule: "M"}},
		}
		a := MustNew(table, WithName("broken"))
		a.Feed("A")

		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			var defect *TableDefect
			require.True(t, errors.As(err, &defect))
			assert.Equal(t, "broken", defect.Name)
			assert.Equal(t, 1, defect.Offset)
			assert.Contains(t, err.Error(), "never started")
		}()
		a.Feed("B")
	})

	t.Run("endless redispatch", func(t *testing.T) {
		t.Parallel()
		table := grammar.Table{
			0: {grammar.Wildcard: {Target: 0, Status: grammar.Fail}},
		}
		a := MustNew(table)
		assert.Panics(t, func() { a.Feed("A") })
	})

	t.Run("unclosed table", func(t *testing.T) {
		t.Parallel()
		_, err := New(grammar.Table{0: {"A": {Target: 4, Status: grammar.Complete}}})
		assert.ErrorIs(t, err, grammar.ErrUnclosedTable)
		assert.Panics(t, func() { MustNew(grammar.Table{}) })
	})
}

func TestEffect(t *testing.T) {
	t.Parallel()

	type hop struct {
		kind     string
		from, to grammar.State
	}
	var hops []hop

	table := compile(t, grammar.Rule{Name: "M", Expr: "T+"})
	tr := table[0]["T"]
	tr.Effect = func(kind string, from, to grammar.State) {
		hops = append(hops, hop{kind, from, to})
	}
	table[0]["T"] = tr

	events := run(t, table, "T", "T")
	assert.Equal(t, []Event{{Rule: "M", Start: 0, End: 2}}, events)
	assert.Equal(t, []hop{{"T", 0, 1}}, hops)
}

func TestRunIsOneShot(t *testing.T) {
	t.Parallel()

	a := MustNew(compile(t, grammar.Rule{Name: "M", Expr: "T"}))
	seq := a.Run(slices.Values([]string{"T"}))

	assert.Len(t, slices.Collect(seq), 1)
	assert.Empty(t, slices.Collect(seq))

	a.Reset(0)
	assert.Len(t, slices.Collect(seq), 1)
}

func TestRunStopsEarly(t *testing.T) {
	t.Parallel()

	a := MustNew(compile(t, grammar.Rule{Name: "M", Expr: "T"}))
	count := 0
	for range a.Run(slices.Values([]string{"T", "T", "T", "T"})) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestMux(t *testing.T) {
	t.Parallel()

	blocks := MustNew(compile(t, grammar.Rule{Name: "Block", Expr: "blockStart comment*"}), WithName("blocks"))
	code := MustNew(compile(t, grammar.Rule{Name: "Code", Expr: "code+"}), WithName("code"))

	kinds := slices.Values([]string{"code", "blockStart", "comment", "code", "code"})

	type tagged struct {
		index int
		event Event
	}
	var got []tagged
	for i, ev := range Mux(kinds, blocks, code) {
		got = append(got, tagged{i, ev})
	}

	assert.Equal(t, []tagged{
		{1, Event{Rule: "Code", Start: 0, End: 1}},
		{0, Event{Rule: "Block", Start: 1, End: 3}},
		{1, Event{Rule: "Code", Start: 3, End: 5}},
	}, got)
	assert.Equal(t, "blocks", blocks.Name())
}

func TestEventString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Block[1:3]", Event{Rule: "Block", Start: 1, End: 3}.String())
	assert.Equal(t, "-[2:2]", Event{Start: 2, End: 2}.String())
	assert.True(t, Event{Start: 2, End: 2}.Empty())
	assert.Equal(t, 2, Event{Start: 1, End: 3}.Len())
}
