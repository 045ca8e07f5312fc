// Package grammar compiles rules over atom kinds into transition tables.
//
// A rule is a sequence of steps, each an atom kind with a cardinality:
//
//	blockStart comment*
//	_+
//
// A bare kind matches exactly once, "?" makes it optional, "+" matches it
// one or more times and "*" zero or more times. The kind "_" matches any
// atom.
//
// Seq turns one rule into a Table. Tag names the transitions that close a
// match of the rule, and Combine merges several tables into one that shares
// its initial state. Compile does all three for a list of rules.
//
// Tables are plain maps and are never mutated after construction, so one
// compiled grammar can drive any number of automata concurrently.
package grammar
