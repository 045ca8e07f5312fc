package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func to(target State, status Status) Transition {
	return Transition{Target: target, Status: status}
}

func TestSeq(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rule     string
		expected Table
	}{
		{
			name: "single",
			rule: "T",
			expected: Table{
				0: {"T": to(1, Complete)},
				1: {Wildcard: to(0, End)},
			},
		},
		{
			name: "one or more",
			rule: "T+",
			expected: Table{
				0: {"T": to(1, Complete)},
				1: {"T": to(1, Complete), Wildcard: to(0, End)},
			},
		},
		{
			name: "optional",
			rule: "T?",
			expected: Table{
				0: {"T": to(1, Complete), Wildcard: to(0, End)},
				1: {Wildcard: to(0, End)},
			},
		},
		{
			name: "pair",
			rule: "A B",
			expected: Table{
				0: {"A": to(1, Partial)},
				1: {"B": to(2, Complete), Wildcard: to(0, Fail)},
				2: {Wildcard: to(0, End)},
			},
		},
		{
			name: "zero or more before required",
			rule: "A* B",
			expected: Table{
				0: {"A": to(1, Partial), "B": to(2, Complete)},
				1: {"A": to(1, Partial), "B": to(2, Complete), Wildcard: to(0, Fail)},
				2: {Wildcard: to(0, End)},
			},
		},
		{
			name: "block",
			rule: "blockStart comment*",
			expected: Table{
				0: {"blockStart": to(1, Complete)},
				1: {"comment": to(2, Complete), Wildcard: to(0, End)},
				2: {"comment": to(2, Complete), Wildcard: to(0, End)},
			},
		},
		{
			name: "wildcard repeat exits",
			rule: "_+",
			expected: Table{
				0: {Wildcard: to(1, Complete)},
				1: {Wildcard: to(0, End)},
			},
		},
		{
			name: "wildcard repeat replaces fail",
			rule: "_+ B",
			expected: Table{
				0: {Wildcard: to(1, Partial)},
				1: {"B": to(2, Complete), Wildcard: to(1, Partial)},
				2: {Wildcard: to(0, End)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			steps, err := ParseRule(tt.rule)
			require.NoError(t, err)

			table, err := Seq(steps...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, table)
			assert.NoError(t, table.Validate())
		})
	}
}

func TestSeqEveryStateCanEnd(t *testing.T) {
	t.Parallel()

	rules := []string{"A", "A B C", "A? B? C?", "A+ B* _", "_* A", "A _? B+"}
	for _, rule := range rules {
		steps, err := ParseRule(rule)
		require.NoError(t, err)
		table := MustSeq(steps...)

		for _, state := range table.States() {
			assert.True(t, reachesEnd(table, state), "%s: state %d never ends", rule, state)
		}
	}
}

// reachesEnd reports whether an End transition is reachable from state.
func reachesEnd(table Table, from State) bool {
	seen := map[State]bool{}
	queue := []State{from}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if seen[s] {
			continue
		}
		seen[s] = true
		for _, tr := range table[s] {
			if tr.Status.Ends() {
				return true
			}
			queue = append(queue, tr.Target)
		}
	}
	return false
}

func TestSeqErrors(t *testing.T) {
	t.Parallel()

	_, err := Seq()
	assert.ErrorIs(t, err, ErrEmptyRule)

	_, err = Seq(Step{Card: OneOrMore})
	assert.ErrorIs(t, err, ErrInvalidStep)

	assert.Panics(t, func() { MustSeq() })
}
