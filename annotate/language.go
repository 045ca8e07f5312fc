package annotate

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gnolang/coda/grammar"
	"github.com/gnolang/coda/tokenizer"
)

// Atom kinds produced by the pattern set of a Language.
const (
	BlockStartKind = "blockStart"
	CommentKind    = "comment"
	SeparatorKind  = "separator"
)

// Rule names of the annotation grammar. Fragments carry them as kind.
const (
	BlockRule = "Block"
	CodeRule  = "Code"
)

// DefaultRules is the annotation grammar: a marker line followed by any
// number of comment lines is a block, everything else is code.
var DefaultRules = []grammar.Rule{
	{Name: BlockRule, Expr: BlockStartKind + " " + CommentKind + "*"},
	{Name: CodeRule, Expr: grammar.AnyKind + "+"},
}

var ErrInvalidLanguage = errors.New("annotate: invalid language")

// Language describes the line comment syntax of a family of source files.
// An annotation block starts with the comment prefix followed by "--", as
// in "# --" or "// -- meta".
type Language struct {
	Name       string   `yaml:"name" toml:"name" json:"name"`
	Extensions []string `yaml:"extensions" toml:"extensions" json:"extensions"`
	Comment    string   `yaml:"comment" toml:"comment" json:"comment"`
}

// Builtin lists the languages known without configuration.
var Builtin = []Language{
	{Name: "python", Extensions: []string{".py", ".pyi"}, Comment: "#"},
	{Name: "shell", Extensions: []string{".sh", ".bash", ".zsh"}, Comment: "#"},
	{Name: "ruby", Extensions: []string{".rb"}, Comment: "#"},
	{Name: "yaml", Extensions: []string{".yaml", ".yml", ".toml"}, Comment: "#"},
	{Name: "go", Extensions: []string{".go", ".gno"}, Comment: "//"},
	{Name: "c", Extensions: []string{".c", ".h", ".cc", ".cpp", ".hpp", ".java", ".js", ".ts", ".rs", ".swift"}, Comment: "//"},
	{Name: "sql", Extensions: []string{".sql", ".lua"}, Comment: "--"},
}

// Python is the language of the original coda annotation syntax.
var Python = Builtin[0]

// Validate checks that the language can be turned into a pattern set.
func (l Language) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidLanguage)
	}
	if strings.TrimSpace(l.Comment) == "" || strings.ContainsAny(l.Comment, "\n\r") {
		return fmt.Errorf("%w: %s: comment prefix %q", ErrInvalidLanguage, l.Name, l.Comment)
	}
	for _, ext := range l.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: %s: extension %q must start with a dot", ErrInvalidLanguage, l.Name, ext)
		}
	}
	return nil
}

// Matches reports whether the language applies to filename.
func (l Language) Matches(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range l.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// marker is the part of a marker line after the comment prefix: blanks,
// exactly two dashes, then the end of the line or blanks and the meta.
// Rule lines such as "#-------" or "// ----" are plain comments.
const marker = `[ \t]+--(?:[ \t][^\n]*)?\r?(?:\n|\z)`

// Patterns returns the pattern set recognizing the language's annotation
// lines. Marker lines are tried before plain comments.
func (l Language) Patterns() tokenizer.Patterns {
	prefix := `^[ \t]*` + regexp.QuoteMeta(l.Comment)
	return tokenizer.Patterns{
		Kinds: []tokenizer.Pattern{
			{Name: BlockStartKind, Expr: prefix + marker},
			{Name: CommentKind, Expr: prefix + `[^\n]*(?:\n|\z)`},
			{Name: SeparatorKind, Expr: `^[ \t]*\n`},
		},
	}
}

// meta matches a marker line and captures the text after the dashes.
func (l Language) meta() *regexp.Regexp {
	return regexp.MustCompile(`^[ \t]*` + regexp.QuoteMeta(l.Comment) + `[ \t]+--[ \t]*(.*?)[ \t]*\r?\n?$`)
}

// body matches a comment line and captures its content without the
// prefix and the first space.
func (l Language) body() *regexp.Regexp {
	return regexp.MustCompile(`^[ \t]*` + regexp.QuoteMeta(l.Comment) + ` ?(.*?)\r?\n?$`)
}

// Lookup returns the first language of langs that applies to filename.
func Lookup(langs []Language, filename string) (Language, bool) {
	for _, l := range langs {
		if l.Matches(filename) {
			return l, true
		}
	}
	return Language{}, false
}
