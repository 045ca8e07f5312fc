package automaton

import (
	"fmt"

	"github.com/gnolang/coda/grammar"
)

// TableDefect is the panic value raised when the automaton runs into a
// table that the grammar compiler should never have produced, such as an
// End transition closing a match that never started. It is an error so
// that recovering callers can report it as one.
type TableDefect struct {
	Name   string
	State  grammar.State
	Kind   string
	Offset int
	Reason string
}

func (d *TableDefect) Error() string {
	name := d.Name
	if name == "" {
		name = "automaton"
	}
	return fmt.Sprintf("%s: malformed table at atom %d (state %d, kind %q): %s",
		name, d.Offset, d.State, d.Kind, d.Reason)
}

// Option configures an Automaton.
type Option func(*Automaton)

// WithName names the automaton in defects and debug output.
func WithName(name string) Option {
	return func(a *Automaton) {
		a.name = name
	}
}

// Automaton is a cursor over a compiled table. It is fed atom kinds one
// at a time and reports the matches they complete.
//
// An Automaton is not safe for concurrent use. The table it runs on is
// only read, so any number of automata may share one.
type Automaton struct {
	table grammar.Table
	name  string

	state  grammar.State
	status grammar.Status
	start  int
	open   bool
	offset int
	last   grammar.Transition

	maxHops int
	used    bool
}

// New returns an automaton in state 0 over table, which must be valid.
func New(table grammar.Table, opts ...Option) (*Automaton, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	a := &Automaton{
		table: table,
		// Every re-dispatch of one atom lands on a different state unless
		// the table is broken.
		maxHops: len(table) + 2,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Reset(0)
	return a, nil
}

// MustNew is like New but panics on error.
func MustNew(table grammar.Table, opts ...Option) *Automaton {
	a, err := New(table, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Automaton) Name() string           { return a.name }
func (a *Automaton) State() grammar.State   { return a.state }
func (a *Automaton) Status() grammar.Status { return a.status }

// Offset returns the index of the next atom to be fed.
func (a *Automaton) Offset() int { return a.offset }

// Reset moves the automaton back to state 0, forgetting any open match.
// The next atom fed gets index offset.
func (a *Automaton) Reset(offset int) {
	a.state = 0
	a.status = grammar.Start
	a.start = 0
	a.open = false
	a.offset = offset
	a.last = grammar.Transition{}
	a.used = false
}

// Feed advances the automaton by one atom of the given kind and returns
// the matches it closed, usually none or one.
//
// When the atom closes a match (an End transition) it is fed again from
// the state reached, so that it can start the next match. A broken
// sequence (a Fail transition) drops the open match and the atom is fed
// again from state 0.
func (a *Automaton) Feed(kind string) []Event {
	var events []Event
	emptyAt := -1

	for hop := 0; ; hop++ {
		if hop > a.maxHops {
			panic(a.defect(kind, "atom is dispatched forever"))
		}

		from := a.state
		tr, ok := a.table.Lookup(from, kind)
		if !ok {
			if a.open && a.status.CanFinalize() {
				events = append(events, a.event(a.last.Rule, a.offset))
				a.open = false
				a.state = 0
				a.status = grammar.Start
			}
			break
		}

		if tr.Status.Opens() && !a.open {
			// Closing a match that never started is only meaningful from
			// state 0, where it denotes an empty match.
			if tr.Status.Ends() && from != 0 {
				panic(a.defect(kind, "end of a match that never started"))
			}
			a.start = a.offset
			a.open = true
		}
		a.state = tr.Target
		a.status = tr.Status
		a.last = tr
		if tr.Effect != nil {
			tr.Effect(kind, from, tr.Target)
		}

		if tr.Status.Fails() {
			a.open = false
			continue
		}
		if !tr.Status.Ends() {
			break
		}

		ev := a.event(tr.Rule, a.offset)
		a.open = false
		if ev.Empty() {
			if emptyAt == a.offset {
				break
			}
			emptyAt = a.offset
		}
		events = append(events, ev)
	}

	a.offset++
	return events
}

// Peek returns the match in progress as if it ended before the next atom.
func (a *Automaton) Peek() (Event, bool) {
	if !a.open || !a.status.InProgress() {
		return Event{}, false
	}
	return a.event(a.last.Rule, a.offset), true
}

// End closes the stream. If the open match may end here it is returned
// and the automaton is reset.
func (a *Automaton) End() (Event, bool) {
	if !a.open || !a.status.CanFinalize() {
		return Event{}, false
	}
	ev := a.event(a.last.Rule, a.offset)
	a.Reset(0)
	return ev, true
}

func (a *Automaton) String() string {
	return fmt.Sprintf("Automaton(name=%s, state=%d, status=%s, offset=%d)",
		a.name, a.state, a.status, a.offset)
}

func (a *Automaton) event(rule string, end int) Event {
	return Event{Rule: rule, Start: a.start, End: end}
}

func (a *Automaton) defect(kind, reason string) *TableDefect {
	return &TableDefect{
		Name:   a.name,
		State:  a.state,
		Kind:   kind,
		Offset: a.offset,
		Reason: reason,
	}
}
