/*
Package tokenizer turns text into a stream of tagged atoms using a set of
named regular expressions.

# Pattern sets

A pattern set declares two kinds of patterns:

  - Kinds: single-shot patterns. Each match becomes one atom whose kind is
    the pattern name.
    Example: {Name: "comment", Expr: `^[ \t]*#[^\n]*\n`}

  - Blocks: pairs of start and end patterns. A match of either produces an
    atom named after the block, with role RoleStart or RoleEnd.
    Example: {Name: "fence", Start: "^```[a-z]*\n", End: "^```\n"}

Every pattern is compiled into a single alternation, in declaration order,
with multi-line mode enabled so that ^ and $ match at line boundaries.

# Atom stream

Scanning always covers the whole input:

	text:   "x = 1\n# note\ny = 2\n"
	atoms:  #text "x = 1\n"
	        comment "# note\n"
	        #text "y = 2\n"
	        #eos ""

Text between matches becomes a "#text" atom, and the stream ends with an
empty "#eos" atom positioned at the end of the input.

# Compile-time checks

Compile rejects names that are not identifiers, duplicate names, patterns
that do not parse, and patterns able to match the empty string. The last
rule guarantees that scanning always advances.

# Usage

	tok, err := tokenizer.Compile(tokenizer.Patterns{
		Kinds: []tokenizer.Pattern{
			{Name: "blockStart", Expr: `^[ \t]*#[ \t]?--+[^\n]*(?:\n|\z)`},
			{Name: "comment", Expr: `^[ \t]*#[^\n]*(?:\n|\z)`},
		},
	})
	if err != nil {
		return err
	}
	for atom := range tok.Scan(source) {
		fmt.Println(atom)
	}
*/
package tokenizer
