// Package automaton runs compiled grammar tables over streams of atom
// kinds.
//
// An Automaton keeps the state of one stream: the current table state,
// the status of the last transition and where the open match started.
// Each call to Feed consumes one atom and returns the events it closed.
// End flushes a match left open when the stream runs out.
//
//	a := automaton.MustNew(grammar.MustCompile(rules...))
//	for ev := range a.Run(kinds) {
//		fmt.Println(ev.Rule, ev.Start, ev.End)
//	}
//
// Events are expressed in atom indices, not text offsets. Callers that need
// text keep the atoms they fed and slice them.
package automaton
