package automaton

import "iter"

// Run feeds every kind of the sequence to the automaton, then ends it,
// yielding events as they are produced. The returned sequence can be
// ranged over once; later iterations yield nothing. Reset the automaton
// or build a new one to match another stream.
func (a *Automaton) Run(kinds iter.Seq[string]) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		if a.used {
			return
		}
		a.used = true

		for kind := range kinds {
			for _, ev := range a.Feed(kind) {
				if !yield(ev) {
					return
				}
			}
		}
		ev, ok := a.End()
		a.used = true
		if ok {
			yield(ev)
		}
	}
}

// Mux runs several automata over one shared stream of kinds. Each event
// is yielded with the index of the automaton that produced it. For each
// atom, automata are fed in the order given.
func Mux(kinds iter.Seq[string], automata ...*Automaton) iter.Seq2[int, Event] {
	return func(yield func(int, Event) bool) {
		for kind := range kinds {
			for i, a := range automata {
				for _, ev := range a.Feed(kind) {
					if !yield(i, ev) {
						return
					}
				}
			}
		}
		for i, a := range automata {
			if ev, ok := a.End(); ok {
				if !yield(i, ev) {
					return
				}
			}
		}
	}
}
