package grammar

import "fmt"

// Seq compiles a sequence of steps into a table that recognizes it
// greedily over a live atom stream.
//
// State 0 waits for the first step. Every step i owns one landing state,
// the state reached right after consuming it, so the table has
// len(steps)+1 states. A repeating step loops on its landing state.
// Skippable steps are folded at compile time: the state waiting for them
// also carries the transitions of the steps that follow. Landing on a
// state yields Complete when every remaining step is skippable, Partial
// otherwise. Once the last step cannot extend any further, the wildcard
// leads back to 0 with End, so the atom that closed the match is fed
// again from the initial state. A required step that is not met leads
// back to 0 with Fail.
func Seq(steps ...Step) (Table, error) {
	n := len(steps)
	if n == 0 {
		return nil, ErrEmptyRule
	}
	for _, s := range steps {
		if s.Kind == "" {
			return nil, fmt.Errorf("%w: step has no atom kind", ErrInvalidStep)
		}
	}

	c := seqCompiler{steps: steps}
	table := Table{0: c.follow(0, false)}
	for i := range steps {
		table[c.landing(i)] = c.landingTransitions(i)
	}
	return table, nil
}

// MustSeq is like Seq but panics on error.
func MustSeq(steps ...Step) Table {
	t, err := Seq(steps...)
	if err != nil {
		panic(err)
	}
	return t
}

type seqCompiler struct {
	steps []Step
}

func (c seqCompiler) landing(i int) State { return State(i + 1) }

// status returns the status of consuming step i.
func (c seqCompiler) status(i int) Status {
	for _, s := range c.steps[i+1:] {
		if !s.Card.Skippable() {
			return Partial
		}
	}
	return Complete
}

// follow returns the transitions of a state waiting for step i.
// Fail transitions are never added to state 0: failing there would
// re-dispatch the atom to the very same transition.
func (c seqCompiler) follow(i int, inner bool) map[string]Transition {
	if i == len(c.steps) {
		return map[string]Transition{Wildcard: {Target: 0, Status: End}}
	}
	s := c.steps[i]

	var m map[string]Transition
	if s.Card.Skippable() {
		m = c.follow(i+1, inner)
	} else {
		m = make(map[string]Transition)
		if inner && !s.any() {
			m[Wildcard] = Transition{Target: 0, Status: Fail}
		}
	}
	m[s.Kind] = Transition{Target: c.landing(i), Status: c.status(i)}
	return m
}

func (c seqCompiler) landingTransitions(i int) map[string]Transition {
	m := c.follow(i+1, true)
	s := c.steps[i]
	if !s.Card.Repeats() {
		return m
	}

	loop := Transition{Target: c.landing(i), Status: c.status(i)}
	if !s.any() {
		m[s.Kind] = loop
		return m
	}
	// A repeating wildcard shares its key with the exit of the state.
	// Leaving the match wins over looping, breaking the sequence does not.
	if exit, ok := m[Wildcard]; !ok || exit.Status.Fails() {
		m[Wildcard] = loop
	}
	return m
}
