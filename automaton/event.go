package automaton

import "fmt"

// Event reports a match of a rule over the atoms [Start, End) of the
// stream fed to an automaton. Rule is empty when the closing transition
// carried no rule name.
type Event struct {
	Rule  string
	Start int
	End   int
}

// Len returns the number of atoms covered by the event.
func (e Event) Len() int { return e.End - e.Start }

// Empty reports whether the event covers no atom, which happens when a
// rule made only of optional steps matches nothing.
func (e Event) Empty() bool { return e.End == e.Start }

func (e Event) String() string {
	rule := e.Rule
	if rule == "" {
		rule = "-"
	}
	return fmt.Sprintf("%s[%d:%d]", rule, e.Start, e.End)
}
