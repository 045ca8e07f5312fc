package annotate

import (
	"fmt"
	"go/token"
)

// Fragment is a located slice of a source text matched by one rule of the
// grammar. The fragments of a text follow each other without gaps.
type Fragment struct {
	Kind  string         `json:"kind"`
	Start token.Position `json:"start"`
	End   token.Position `json:"end"`
	Text  string         `json:"text"`

	// set on annotation blocks only
	Meta string `json:"meta,omitempty"`
	Body string `json:"body,omitempty"`
}

// IsBlock reports whether the fragment is an annotation block.
func (f Fragment) IsBlock() bool { return f.Kind == BlockRule }

// Len returns the length of the fragment in bytes.
func (f Fragment) Len() int { return f.End.Offset - f.Start.Offset }

func (f Fragment) String() string {
	return fmt.Sprintf("%s %s-%d:%d", f.Kind, f.Start, f.End.Line, f.End.Column)
}
