package grammar

import (
	"fmt"
	"io"
	"strings"
)

// WritePretty writes a human readable dump of the table, one state per
// block, states and kinds in a stable order:
//
//	0:
//	   → 1:blockStart [partial] #Block
func (t Table) WritePretty(w io.Writer) error {
	for _, state := range t.States() {
		if _, err := fmt.Fprintf(w, "%d:\n", state); err != nil {
			return err
		}
		transitions := t[state]
		for _, kind := range sortedKinds(transitions) {
			tr := transitions[kind]
			rule := ""
			if tr.Rule != "" {
				rule = " #" + tr.Rule
			}
			if _, err := fmt.Fprintf(w, "   → %d:%s [%s]%s\n", tr.Target, kind, tr.Status, rule); err != nil {
				return err
			}
		}
	}
	return nil
}

// Pretty returns the dump written by WritePretty.
func (t Table) Pretty() string {
	var sb strings.Builder
	_ = t.WritePretty(&sb)
	return sb.String()
}
