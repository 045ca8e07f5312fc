package internal

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/gnolang/coda/annotate"
	"github.com/gnolang/coda/grammar"
	tt "github.com/gnolang/coda/internal/types"
	"github.com/gnolang/coda/tokenizer"
)

var ErrUnsupportedFile = errors.New("no language for file")

type extractor struct {
	lang        annotate.Language
	ex          *annotate.Extractor
	fingerprint string
}

// Engine extracts blocks from source files, picking the extractor by
// file extension.
type Engine struct {
	extractors   []extractor
	ignoredKinds map[string]bool
	keptKinds    map[string]bool
	ignoredPaths []string
	cache        *Cache
}

// NewEngine compiles one extractor per language. A nil rules slice uses
// the default annotation grammar; an empty cacheDir disables caching.
// When two languages claim the same extension, the first one wins.
func NewEngine(langs []annotate.Language, rules []grammar.Rule, cacheDir string) (*Engine, error) {
	if len(langs) == 0 {
		langs = annotate.Builtin
	}
	if rules == nil {
		rules = annotate.DefaultRules
	}
	table, err := grammar.Compile(rules...)
	if err != nil {
		return nil, fmt.Errorf("error compiling grammar: %w", err)
	}

	engine := &Engine{}
	for _, lang := range langs {
		ex, err := newExtractor(lang, table)
		if err != nil {
			return nil, err
		}
		engine.extractors = append(engine.extractors, extractor{
			lang:        lang,
			ex:          ex,
			fingerprint: fingerprint(lang, table),
		})
	}

	if cacheDir != "" {
		engine.cache, err = NewCache(cacheDir)
		if err != nil {
			return nil, err
		}
	}

	return engine, nil
}

func newExtractor(lang annotate.Language, table grammar.Table) (*annotate.Extractor, error) {
	if err := lang.Validate(); err != nil {
		return nil, err
	}
	tok, err := tokenizer.Compile(lang.Patterns())
	if err != nil {
		return nil, fmt.Errorf("language %s: %w", lang.Name, err)
	}
	return annotate.NewWith(lang, tok, table)
}

// fingerprint identifies everything that shapes the blocks of an
// extractor: the language name recorded in blocks, its comment syntax and
// the compiled table.
func fingerprint(lang annotate.Language, table grammar.Table) string {
	h := md5.New()
	fmt.Fprintf(h, "%d\x00%s\x00%s\x00", cacheVersion, lang.Name, lang.Comment)
	_ = table.WritePretty(h)
	return hex.EncodeToString(h.Sum(nil))
}

// Cache returns the engine's cache, nil when caching is disabled.
func (e *Engine) Cache() *Cache { return e.cache }

// Languages returns the configured languages in priority order.
func (e *Engine) Languages() []annotate.Language {
	langs := make([]annotate.Language, len(e.extractors))
	for i, x := range e.extractors {
		langs[i] = x.lang
	}
	return langs
}

// Extensions returns every file extension the engine handles, sorted.
func (e *Engine) Extensions() []string {
	var exts []string
	for _, x := range e.extractors {
		for _, ext := range x.lang.Extensions {
			if !slices.Contains(exts, ext) {
				exts = append(exts, ext)
			}
		}
	}
	sort.Strings(exts)
	return exts
}

// Supports reports whether some language applies to filename and the
// file is not ignored.
func (e *Engine) Supports(filename string) bool {
	if e.IsIgnored(filename) {
		return false
	}
	_, ok := e.lookup(filename)
	return ok
}

func (e *Engine) lookup(filename string) (extractor, bool) {
	for _, x := range e.extractors {
		if x.lang.Matches(filename) {
			return x, true
		}
	}
	return extractor{}, false
}

// Extractor returns the extractor that handles filename.
func (e *Engine) Extractor(filename string) (*annotate.Extractor, bool) {
	x, ok := e.lookup(filename)
	return x.ex, ok
}

// IgnoreKind drops blocks of the given kind from the results.
func (e *Engine) IgnoreKind(kind string) {
	if e.ignoredKinds == nil {
		e.ignoredKinds = make(map[string]bool)
	}
	e.ignoredKinds[kind] = true
}

// KeepKinds restricts the results to the given kinds. No kinds means all.
func (e *Engine) KeepKinds(kinds ...string) {
	e.keptKinds = nil
	for _, k := range kinds {
		if e.keptKinds == nil {
			e.keptKinds = make(map[string]bool)
		}
		e.keptKinds[k] = true
	}
}

// IgnorePath excludes files matching a glob pattern, matched against the
// whole path and against its base name.
func (e *Engine) IgnorePath(pattern string) {
	e.ignoredPaths = append(e.ignoredPaths, pattern)
}

func (e *Engine) IsIgnored(filename string) bool {
	for _, pattern := range e.ignoredPaths {
		if ok, _ := filepath.Match(pattern, filename); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(filename)); ok {
			return true
		}
	}
	return false
}

// Run extracts the blocks of a file, going through the cache when one is
// configured.
func (e *Engine) Run(filename string) ([]tt.Block, error) {
	x, ok := e.lookup(filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	if e.cache != nil {
		if blocks, ok := e.cache.Get(x.fingerprint, filename, source); ok {
			return e.filter(blocks), nil
		}
	}

	blocks := extract(x, filename, source)

	if e.cache != nil {
		if err := e.cache.Set(x.fingerprint, filename, source, blocks); err != nil {
			return nil, fmt.Errorf("error caching blocks: %w", err)
		}
	}
	return e.filter(blocks), nil
}

// RunSource extracts the blocks of source as if it was read from
// filename. The filename only selects the language.
func (e *Engine) RunSource(filename string, source []byte) ([]tt.Block, error) {
	x, ok := e.lookup(filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}
	return e.filter(extract(x, filename, source)), nil
}

func extract(x extractor, filename string, source []byte) []tt.Block {
	var blocks []tt.Block
	for f := range x.ex.ExtractFile(filename, string(source)) {
		blocks = append(blocks, tt.Block{
			Kind:     f.Kind,
			Filename: filename,
			Language: x.lang.Name,
			Meta:     f.Meta,
			Body:     f.Body,
			Text:     f.Text,
			Start:    f.Start,
			End:      f.End,
		})
	}
	return blocks
}

func (e *Engine) filter(blocks []tt.Block) []tt.Block {
	if len(e.ignoredKinds) == 0 && len(e.keptKinds) == 0 {
		return blocks
	}
	filtered := make([]tt.Block, 0, len(blocks))
	for _, b := range blocks {
		if e.ignoredKinds[b.Kind] {
			continue
		}
		if e.keptKinds != nil && !e.keptKinds[b.Kind] {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered
}
