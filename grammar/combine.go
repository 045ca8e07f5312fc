package grammar

import "maps"

// Remap relabels the non-initial states of table onto offset, offset+1, ...
// keeping their relative order. State 0 stays 0.
func Remap(table Table, offset State) Table {
	relabel := map[State]State{0: 0}
	next := offset
	for _, s := range table.nonInitialStates() {
		relabel[s] = next
		next++
	}

	out := make(Table, len(table))
	for state, transitions := range table {
		m := make(map[string]Transition, len(transitions))
		for kind, tr := range transitions {
			tr.Target = relabel[tr.Target]
			m[kind] = tr
		}
		out[relabel[state]] = m
	}
	return out
}

// Combine merges tables so that they share state 0 and nothing else.
// Their non-initial states are relabeled into disjoint ranges. The initial
// transitions are the union of every table's, with later tables winning
// when two of them react to the same kind.
func Combine(tables ...Table) Table {
	out := Table{0: {}}
	offset := State(1)
	for _, t := range tables {
		r := Remap(t, offset)
		offset += State(len(t.nonInitialStates()))
		for state, transitions := range r {
			if state == 0 {
				maps.Copy(out[0], transitions)
				continue
			}
			out[state] = transitions
		}
	}
	return out
}

// Tag returns a copy of table whose Partial, Complete and End transitions
// carry the rule name.
func Tag(table Table, rule string) Table {
	out := make(Table, len(table))
	for state, transitions := range table {
		m := make(map[string]Transition, len(transitions))
		for kind, tr := range transitions {
			if tr.Status.Tagged() {
				tr.Rule = rule
			}
			m[kind] = tr
		}
		out[state] = m
	}
	return out
}

// nonInitialStates returns the states other than 0 that the table
// defines or targets, in ascending order.
func (t Table) nonInitialStates() []State {
	seen := make(map[State]bool)
	for state, transitions := range t {
		seen[state] = true
		for _, tr := range transitions {
			seen[tr.Target] = true
		}
	}
	delete(seen, 0)

	states := make([]State, 0, len(seen))
	for s := range seen {
		states = append(states, s)
	}
	sortStates(states)
	return states
}
