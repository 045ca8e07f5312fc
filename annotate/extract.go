package annotate

import (
	"fmt"
	"go/token"
	"iter"
	"regexp"
	"strings"

	"github.com/gnolang/coda/automaton"
	"github.com/gnolang/coda/grammar"
	"github.com/gnolang/coda/tokenizer"
)

// Extractor splits source text into annotation blocks and code.
// It is immutable and may be shared between goroutines.
type Extractor struct {
	lang  Language
	tok   *tokenizer.Tokenizer
	table grammar.Table

	meta *regexp.Regexp
	body *regexp.Regexp
}

// New returns an extractor for lang using the default grammar.
func New(lang Language) (*Extractor, error) {
	if err := lang.Validate(); err != nil {
		return nil, err
	}
	tok, err := tokenizer.Compile(lang.Patterns())
	if err != nil {
		return nil, fmt.Errorf("language %s: %w", lang.Name, err)
	}
	return NewWith(lang, tok, grammar.MustCompile(DefaultRules...))
}

// MustNew is like New but panics on error.
func MustNew(lang Language) *Extractor {
	e, err := New(lang)
	if err != nil {
		panic(err)
	}
	return e
}

// NewWith returns an extractor running a custom tokenizer and grammar.
// Fragments are named after the grammar's rules; those named BlockRule
// get their Meta and Body parsed with the comment syntax of lang.
func NewWith(lang Language, tok *tokenizer.Tokenizer, table grammar.Table) (*Extractor, error) {
	if err := lang.Validate(); err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{
		lang:  lang,
		tok:   tok,
		table: table,
		meta:  lang.meta(),
		body:  lang.body(),
	}, nil
}

func (e *Extractor) Language() Language             { return e.lang }
func (e *Extractor) Tokenizer() *tokenizer.Tokenizer { return e.tok }
func (e *Extractor) Table() grammar.Table            { return e.table }

// Extract is ExtractFile without a filename.
func (e *Extractor) Extract(text string) iter.Seq[Fragment] {
	return e.ExtractFile("", text)
}

// All collects Extract into a slice.
func (e *Extractor) All(text string) []Fragment {
	var fragments []Fragment
	for f := range e.Extract(text) {
		fragments = append(fragments, f)
	}
	return fragments
}

// ExtractFile yields the fragments of text in order. Positions carry
// filename. Fragments not produced by any rule get tokenizer.TextKind as
// kind. Consecutive fragments of the same kind are merged, except blocks:
// two blocks that touch stay two blocks.
func (e *Extractor) ExtractFile(filename, text string) iter.Seq[Fragment] {
	return func(yield func(Fragment) bool) {
		fset := token.NewFileSet()
		file := fset.AddFile(filename, -1, len(text))
		file.SetLinesForContent([]byte(text))

		a := automaton.MustNew(e.table, automaton.WithName(filename))
		var (
			atoms   []tokenizer.Atom
			pending Fragment
			held    bool
		)
		emit := func(ev automaton.Event) bool {
			f, ok := e.fragment(file, text, atoms, ev)
			if !ok {
				return true
			}
			if held && pending.Kind == f.Kind && !f.IsBlock() {
				pending.End = f.End
				pending.Text = text[pending.Start.Offset:f.End.Offset]
				return true
			}
			if held && !yield(pending) {
				return false
			}
			pending, held = f, true
			return true
		}

		for atom := range e.tok.Scan(text) {
			if atom.Role == tokenizer.RoleEndOfStream {
				if ev, ok := a.End(); ok && !emit(ev) {
					return
				}
				break
			}
			atoms = append(atoms, atom)
			for _, ev := range a.Feed(atom.Kind) {
				if !emit(ev) {
					return
				}
			}
		}
		if held {
			yield(pending)
		}
	}
}

// fragment turns an event over atoms into a located fragment. Empty
// events yield nothing.
func (e *Extractor) fragment(file *token.File, text string, atoms []tokenizer.Atom, ev automaton.Event) (Fragment, bool) {
	if ev.Empty() || ev.Start >= len(atoms) {
		return Fragment{}, false
	}
	start := atoms[ev.Start].Start
	end := atoms[min(ev.End, len(atoms))-1].End

	kind := ev.Rule
	if kind == "" {
		kind = tokenizer.TextKind
	}
	f := Fragment{
		Kind:  kind,
		Start: file.Position(file.Pos(start)),
		End:   file.Position(file.Pos(end)),
		Text:  text[start:end],
	}
	if f.IsBlock() {
		f.Meta, f.Body = e.parseBlock(f.Text)
	}
	return f, true
}

// parseBlock splits a block into the meta of its marker line and the
// content of its comment lines.
func (e *Extractor) parseBlock(text string) (meta, body string) {
	first, rest, _ := strings.Cut(text, "\n")
	if m := e.meta.FindStringSubmatch(first); m != nil {
		meta = m[1]
	}

	var lines []string
	for _, line := range strings.SplitAfter(rest, "\n") {
		if line == "" {
			continue
		}
		if m := e.body.FindStringSubmatch(line); m != nil {
			lines = append(lines, m[1])
		} else {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
	}
	return meta, strings.Join(lines, "\n")
}

// Kinds adapts a sequence of atoms to the sequence of their kinds.
func Kinds(atoms iter.Seq[tokenizer.Atom]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for a := range atoms {
			if !yield(a.Kind) {
				return
			}
		}
	}
}
