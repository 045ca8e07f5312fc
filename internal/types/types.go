package types

import "go/token"

// Block is one fragment extracted from a source file, as reported to
// users and stored in the cache.
type Block struct {
	Kind     string         `json:"kind"`
	Filename string         `json:"filename"`
	Language string         `json:"language"`
	Meta     string         `json:"meta,omitempty"`
	Body     string         `json:"body,omitempty"`
	Text     string         `json:"text"`
	Start    token.Position `json:"start"`
	End      token.Position `json:"end"`
}

// Lines returns the number of lines the block spans.
func (b Block) Lines() int {
	n := b.End.Line - b.Start.Line
	if b.End.Column > 1 {
		n++
	}
	return max(n, 1)
}
