// Package coda extracts literate annotation blocks from source text.
//
// An annotation block is a comment marker line such as
//
//	# -- setup
//
// followed by the comment lines directly below it. The packages under this
// module expose each stage: tokenizer splits text into atoms, grammar
// compiles rules into a transition table, automaton runs that table over a
// stream, and annotate puts them together for a comment syntax.
package coda

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gnolang/coda/annotate"
)

var ErrUnknownLanguage = errors.New("unknown language")

var python = sync.OnceValue(func() *annotate.Extractor {
	return annotate.MustNew(annotate.Python)
})

// Blocks returns the annotation blocks of text written with # comments.
func Blocks(text string) []annotate.Fragment {
	return onlyBlocks(python().All(text))
}

// BlocksOf returns the annotation blocks of text in the comment syntax of
// lang.
func BlocksOf(lang annotate.Language, text string) ([]annotate.Fragment, error) {
	ex, err := annotate.New(lang)
	if err != nil {
		return nil, err
	}
	return onlyBlocks(ex.All(text)), nil
}

// FileBlocks picks a built-in language from the extension of filename and
// returns the located annotation blocks of text.
func FileBlocks(filename, text string) ([]annotate.Fragment, error) {
	lang, ok := annotate.Lookup(annotate.Builtin, filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, filename)
	}
	ex, err := annotate.New(lang)
	if err != nil {
		return nil, err
	}
	return onlyBlocks(slices.Collect(ex.ExtractFile(filename, text))), nil
}

func onlyBlocks(fragments []annotate.Fragment) []annotate.Fragment {
	return slices.DeleteFunc(fragments, func(f annotate.Fragment) bool {
		return !f.IsBlock()
	})
}
