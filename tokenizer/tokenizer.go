package tokenizer

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"regexp/syntax"
	"strings"
)

var (
	ErrNoPatterns    = errors.New("tokenizer: empty pattern set")
	ErrInvalidName   = errors.New("tokenizer: invalid pattern name")
	ErrDuplicateName = errors.New("tokenizer: duplicate pattern name")
	ErrPattern       = errors.New("tokenizer: malformed pattern")
	ErrEmptyMatch    = errors.New("tokenizer: pattern can match the empty string")
)

// Pattern is a single-shot atom kind.
type Pattern struct {
	Name string `yaml:"name" toml:"name"`
	Expr string `yaml:"pattern" toml:"pattern"`
}

// Block is a delimited atom kind: Start and End each produce an atom
// named after the block, tagged RoleStart and RoleEnd.
type Block struct {
	Name  string `yaml:"name" toml:"name"`
	Start string `yaml:"start" toml:"start"`
	End   string `yaml:"end" toml:"end"`
}

// Patterns is an ordered pattern set. Order matters: when two patterns
// match at the same offset, the one declared first wins.
type Patterns struct {
	Kinds  []Pattern `yaml:"kinds" toml:"kinds"`
	Blocks []Block   `yaml:"blocks" toml:"blocks"`
}

// group name prefixes of the combined expression
const (
	kindPrefix  = "k__"
	startPrefix = "s__"
	endPrefix   = "e__"
)

var validName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

type group struct {
	index int
	kind  string
	role  Role
}

// Tokenizer scans text into atoms. It is immutable once compiled and
// may be shared between goroutines.
type Tokenizer struct {
	re     *regexp.Regexp
	groups []group
	kinds  []string
}

// Compile merges every pattern of the set into one expression. All
// errors surface here: a compiled Tokenizer never fails while scanning.
func Compile(p Patterns) (*Tokenizer, error) {
	if len(p.Kinds) == 0 && len(p.Blocks) == 0 {
		return nil, ErrNoPatterns
	}

	var (
		branches []string
		kinds    []string
		seen     = make(map[string]bool)
	)
	add := func(prefix, name, expr string) error {
		if err := checkExpr(name, expr); err != nil {
			return err
		}
		branches = append(branches, fmt.Sprintf("(?P<%s%s>%s)", prefix, name, expr))
		return nil
	}
	declare := func(name string) error {
		if !validName.MatchString(name) {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[name] = true
		kinds = append(kinds, name)
		return nil
	}

	for _, k := range p.Kinds {
		if err := declare(k.Name); err != nil {
			return nil, err
		}
		if err := add(kindPrefix, k.Name, k.Expr); err != nil {
			return nil, err
		}
	}
	for _, b := range p.Blocks {
		if err := declare(b.Name); err != nil {
			return nil, err
		}
		if err := add(startPrefix, b.Name, b.Start); err != nil {
			return nil, err
		}
		if err := add(endPrefix, b.Name, b.End); err != nil {
			return nil, err
		}
	}

	re, err := regexp.Compile("(?m)" + strings.Join(branches, "|"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPattern, err)
	}

	t := &Tokenizer{re: re, kinds: kinds}
	for i, name := range re.SubexpNames() {
		switch {
		case strings.HasPrefix(name, kindPrefix):
			t.groups = append(t.groups, group{i, name[len(kindPrefix):], RoleContent})
		case strings.HasPrefix(name, startPrefix):
			t.groups = append(t.groups, group{i, name[len(startPrefix):], RoleStart})
		case strings.HasPrefix(name, endPrefix):
			t.groups = append(t.groups, group{i, name[len(endPrefix):], RoleEnd})
		}
	}
	if len(t.groups) != len(branches) {
		// a user pattern declared a group name with one of our prefixes
		return nil, fmt.Errorf("%w: reserved group name in pattern", ErrDuplicateName)
	}
	return t, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(p Patterns) *Tokenizer {
	t, err := Compile(p)
	if err != nil {
		panic(err)
	}
	return t
}

func checkExpr(name, expr string) error {
	parsed, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPattern, name, err)
	}
	if matchesEmpty(parsed) {
		return fmt.Errorf("%w: %s: %q", ErrEmptyMatch, name, expr)
	}
	return nil
}

// Kinds returns the declared atom kinds, in declaration order.
func (t *Tokenizer) Kinds() []string {
	return append([]string(nil), t.kinds...)
}

// Scan yields the atoms of text. Every byte of text belongs to exactly
// one atom; gaps between matches become TextKind atoms and the last
// atom is always an empty EOSKind atom at len(text).
func (t *Tokenizer) Scan(text string) iter.Seq[Atom] {
	return func(yield func(Atom) bool) {
		offset := 0
		for _, m := range t.re.FindAllStringSubmatchIndex(text, -1) {
			if m[0] > offset {
				if !yield(gap(text, offset, m[0])) {
					return
				}
			}
			if !yield(t.atom(text, m)) {
				return
			}
			offset = m[1]
		}
		if offset < len(text) {
			if !yield(gap(text, offset, len(text))) {
				return
			}
		}
		yield(Atom{Kind: EOSKind, Start: len(text), End: len(text), Role: RoleEndOfStream})
	}
}

// Atoms collects Scan into a slice.
func (t *Tokenizer) Atoms(text string) []Atom {
	var atoms []Atom
	for a := range t.Scan(text) {
		atoms = append(atoms, a)
	}
	return atoms
}

func (t *Tokenizer) atom(text string, m []int) Atom {
	for _, g := range t.groups {
		if m[2*g.index] >= 0 {
			return Atom{Kind: g.kind, Text: text[m[0]:m[1]], Start: m[0], End: m[1], Role: g.role}
		}
	}
	// unreachable: every branch of the expression is a named group
	return gap(text, m[0], m[1])
}

func gap(text string, start, end int) Atom {
	return Atom{Kind: TextKind, Text: text[start:end], Start: start, End: end, Role: RoleContent}
}
