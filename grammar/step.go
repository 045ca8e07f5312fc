package grammar

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyRule   = errors.New("grammar: empty rule")
	ErrInvalidStep = errors.New("grammar: invalid step")
)

// Cardinality defines how many times a step's atom kind repeats.
type Cardinality int

const (
	One        Cardinality = iota // exactly once
	Optional                      // ? (zero or one time)
	OneOrMore                     // + (one or more times)
	ZeroOrMore                    // * (zero or more times)
)

func (c Cardinality) String() string {
	switch c {
	case One:
		return ""
	case Optional:
		return "?"
	case OneOrMore:
		return "+"
	case ZeroOrMore:
		return "*"
	default:
		return "unknown"
	}
}

// Repeats reports whether the step may match more than once.
func (c Cardinality) Repeats() bool { return c == OneOrMore || c == ZeroOrMore }

// Skippable reports whether the step may match zero times.
func (c Cardinality) Skippable() bool { return c == Optional || c == ZeroOrMore }

var suffixes = map[byte]Cardinality{
	'?': Optional,
	'+': OneOrMore,
	'*': ZeroOrMore,
}

// Step is one element of a rule: an atom kind and its cardinality.
type Step struct {
	Kind string
	Card Cardinality
}

func (s Step) String() string {
	kind := s.Kind
	if kind == Wildcard {
		kind = AnyKind
	}
	return kind + s.Card.String()
}

// any reports whether the step matches every atom.
func (s Step) any() bool { return s.Kind == Wildcard }

// ParseStep parses a token such as "comment", "comment*" or "_+".
func ParseStep(token string) (Step, error) {
	if token == "" {
		return Step{}, fmt.Errorf("%w: empty token", ErrInvalidStep)
	}

	step := Step{Kind: token, Card: One}
	if card, ok := suffixes[token[len(token)-1]]; ok {
		step.Kind = token[:len(token)-1]
		step.Card = card
	}

	switch {
	case step.Kind == "":
		return Step{}, fmt.Errorf("%w: %q has no atom kind", ErrInvalidStep, token)
	case isSuffix(step.Kind[len(step.Kind)-1]):
		return Step{}, fmt.Errorf("%w: %q has more than one cardinality", ErrInvalidStep, token)
	case step.Kind == AnyKind:
		step.Kind = Wildcard
	}
	return step, nil
}

func isSuffix(c byte) bool {
	_, ok := suffixes[c]
	return ok
}

// ParseRule parses a space separated list of steps,
// e.g. "blockStart comment*".
func ParseRule(expr string) ([]Step, error) {
	tokens := strings.Fields(expr)
	if len(tokens) == 0 {
		return nil, ErrEmptyRule
	}
	steps := make([]Step, 0, len(tokens))
	for _, token := range tokens {
		step, err := ParseStep(token)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// FormatRule is the inverse of ParseRule.
func FormatRule(steps []Step) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}
