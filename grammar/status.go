package grammar

// Status describes where a transition leaves the match in progress.
// The declaration order is meaningful to readers (it goes from "nothing
// matched" to "match over") but code must use the predicates below
// instead of comparing values.
type Status int8

const (
	Start      Status = iota // initial status of an automaton
	Ready                    // ready, nothing matched yet
	Incomplete               // consumed atoms that cannot form a match yet
	Partial                  // a match exists once the remaining steps match
	Complete                 // a match exists and may still be extended
	End                      // the previous atom closed the match; restart on this one
	Fail                     // the sequence broke; the open match is discarded
)

// Opens reports whether taking a transition with this status records
// the start of a match when none is open.
func (s Status) Opens() bool {
	switch s {
	case Incomplete, Partial, Complete, End, Fail:
		return true
	}
	return false
}

// InProgress reports whether a match exists ending here or later.
func (s Status) InProgress() bool {
	switch s {
	case Partial, Complete, End:
		return true
	}
	return false
}

// CanFinalize reports whether the open match may be closed as is when
// the input ends or no transition applies.
func (s Status) CanFinalize() bool { return s == Complete }

// Ends reports whether the status closes the match before the current atom.
func (s Status) Ends() bool { return s == End }

// Fails reports whether the status discards the open match.
func (s Status) Fails() bool { return s == Fail }

// Tagged reports whether transitions with this status carry the rule name.
func (s Status) Tagged() bool {
	switch s {
	case Partial, Complete, End:
		return true
	}
	return false
}

func (s Status) String() string {
	switch s {
	case Start:
		return "start"
	case Ready:
		return "ready"
	case Incomplete:
		return "incomplete"
	case Partial:
		return "partial"
	case Complete:
		return "complete"
	case End:
		return "end"
	case Fail:
		return "fail"
	default:
		return "unknown"
	}
}
