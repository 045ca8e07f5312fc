package tokenizer

import (
	"fmt"
	"strconv"
)

// Role tells how an atom participates in a block.
type Role int

const (
	RoleContent     Role = iota // ordinary named match, or unmatched text
	RoleStart                   // opening delimiter of a block pair
	RoleEnd                     // closing delimiter of a block pair
	RoleEndOfStream             // sentinel, always the last atom
)

func (r Role) String() string {
	switch r {
	case RoleContent:
		return "content"
	case RoleStart:
		return "start"
	case RoleEnd:
		return "end"
	case RoleEndOfStream:
		return "eos"
	default:
		return "unknown"
	}
}

// Reserved atom kinds. Neither can be declared by a pattern set.
const (
	TextKind = "#text" // text not covered by any pattern
	EOSKind  = "#eos"  // end of stream sentinel
)

// Atom is one located token of the input.
type Atom struct {
	Kind  string // pattern or block name, or one of the reserved kinds
	Text  string // literal text, input[Start:End]
	Start int    // byte offset of the first byte
	End   int    // byte offset just past the last byte
	Role  Role
}

// Len returns the length of the atom in bytes.
func (a Atom) Len() int { return a.End - a.Start }

func (a Atom) String() string {
	escaped := strconv.Quote(a.Text)
	return fmt.Sprintf("%s[%d:%d](%s) %s", a.Kind, a.Start, a.End, a.Role, escaped)
}
