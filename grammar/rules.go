package grammar

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyGrammar  = errors.New("grammar: no rules")
	ErrDuplicateRule = errors.New("grammar: duplicate rule")
)

// Rule is a named sequence of steps written as in ParseRule.
type Rule struct {
	Name string `yaml:"name" toml:"name"`
	Expr string `yaml:"expr" toml:"expr"`
}

// Compile compiles rules into one automaton table. Each rule is compiled
// with Seq, tagged with its name and combined in order, so when two rules
// start with the same atom kind the one declared last is taken.
// Either every rule compiles or no table is returned.
func Compile(rules ...Rule) (Table, error) {
	if len(rules) == 0 {
		return nil, ErrEmptyGrammar
	}

	seen := make(map[string]bool, len(rules))
	tables := make([]Table, 0, len(rules))
	for _, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: rule has no name", ErrInvalidStep)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, r.Name)
		}
		seen[r.Name] = true

		steps, err := ParseRule(r.Expr)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.Name, err)
		}
		t, err := Seq(steps...)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.Name, err)
		}
		tables = append(tables, Tag(t, r.Name))
	}

	return Combine(tables...), nil
}

// MustCompile is like Compile but panics on error. It is meant for
// grammars declared as package variables.
func MustCompile(rules ...Rule) Table {
	t, err := Compile(rules...)
	if err != nil {
		panic(err)
	}
	return t
}
