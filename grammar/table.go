package grammar

import (
	"errors"
	"fmt"
	"sort"
)

// Wildcard is the reserved atom kind of the fallback transition of a
// state. It is the same symbol a rule spells AnyKind: a step over "_"
// is a step over whatever atom has no exact transition.
const (
	Wildcard = "*"
	AnyKind  = "_"
)

var (
	ErrNoInitialState = errors.New("grammar: table has no state 0")
	ErrUnclosedTable  = errors.New("grammar: transition targets an undefined state")
)

// State identifies a node of a transition table. State 0 is the shared
// initial state.
type State int

// Effect is an optional hook run when its transition is taken. It does
// not change matching.
type Effect func(kind string, from, to State)

// Transition is the outcome of feeding one atom kind in one state.
type Transition struct {
	Target State
	Status Status
	Rule   string // set on transitions that can terminate a match of a rule
	Effect Effect
}

// Table maps a state and an atom kind to a transition. Tables are
// treated as immutable once built; every operation returns a new one.
type Table map[State]map[string]Transition

// Lookup returns the transition for kind in state, falling back to the
// wildcard transition.
func (t Table) Lookup(state State, kind string) (Transition, bool) {
	transitions, ok := t[state]
	if !ok {
		return Transition{}, false
	}
	if tr, ok := transitions[kind]; ok {
		return tr, true
	}
	tr, ok := transitions[Wildcard]
	return tr, ok
}

// Validate checks that state 0 exists and that every target is defined.
func (t Table) Validate() error {
	if _, ok := t[0]; !ok {
		return ErrNoInitialState
	}
	for _, state := range t.States() {
		for kind, tr := range t[state] {
			if _, ok := t[tr.Target]; !ok {
				return fmt.Errorf("%w: %d --%s--> %d", ErrUnclosedTable, state, kind, tr.Target)
			}
		}
	}
	return nil
}

// States returns the states of the table in ascending order.
func (t Table) States() []State {
	states := make([]State, 0, len(t))
	for s := range t {
		states = append(states, s)
	}
	sortStates(states)
	return states
}

func sortStates(states []State) {
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
}

// Kinds returns the exact atom kinds the table has transitions for,
// sorted. The wildcard is not included.
func (t Table) Kinds() []string {
	seen := make(map[string]bool)
	for _, transitions := range t {
		for kind := range transitions {
			if kind != Wildcard {
				seen[kind] = true
			}
		}
	}
	kinds := make([]string, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Rules returns the rule names carried by the table's transitions, sorted.
func (t Table) Rules() []string {
	seen := make(map[string]bool)
	for _, transitions := range t {
		for _, tr := range transitions {
			if tr.Rule != "" {
				seen[tr.Rule] = true
			}
		}
	}
	rules := make([]string, 0, len(seen))
	for r := range seen {
		rules = append(rules, r)
	}
	sort.Strings(rules)
	return rules
}

// sortedKinds returns the keys of a state's transitions, wildcard last.
func sortedKinds(transitions map[string]Transition) []string {
	kinds := make([]string, 0, len(transitions))
	for k := range transitions {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if kinds[i] == Wildcard || kinds[j] == Wildcard {
			return kinds[j] == Wildcard && kinds[i] != Wildcard
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}
