// Package annotate extracts literate annotation blocks from source text.
//
// An annotation block is a run of line comments introduced by a marker
// line, the comment prefix followed by dashes:
//
//	# -- meta
//	# first line of the block
//	# second line
//
// Everything else is code. The extractor tokenizes the text with the
// patterns of a Language, runs the annotation grammar over the atoms and
// slices the text at the boundaries of each match.
package annotate
