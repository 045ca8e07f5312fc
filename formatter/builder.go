package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/fatih/color"

	"github.com/gnolang/coda/annotate"
	tt "github.com/gnolang/coda/internal/types"
)

const tabWidth = 8

var (
	kindStyle    = color.New(color.FgYellow, color.Bold)
	metaStyle    = color.New(color.FgGreen, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	summaryStyle = color.New(color.FgHiWhite, color.Bold)
)

// SetColor forces colored output on or off. By default color is enabled
// only when stdout is a terminal.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// blockFormatter is the interface that wraps the blockTemplate method.
// Implementations are responsible for formatting one kind of fragment.
type blockFormatter interface {
	BlockTemplate() string
}

// getBlockFormatter returns the formatter for a fragment kind. Annotation
// blocks show their parsed content, everything else its source lines.
func getBlockFormatter(kind string) blockFormatter {
	switch kind {
	case annotate.BlockRule:
		return &AnnotationFormatter{}
	default:
		return &SourceFormatter{}
	}
}

// GenerateFormattedBlocks formats blocks into a human-readable string.
func GenerateFormattedBlocks(blocks []tt.Block) string {
	var builder strings.Builder
	for _, block := range blocks {
		builder.WriteString(buildBlock(block, getBlockFormatter(block.Kind)))
	}
	return builder.String()
}

// GenerateSummary returns the closing line of a report.
func GenerateSummary(blocks []tt.Block) string {
	files := make(map[string]struct{})
	for _, b := range blocks {
		files[b.Filename] = struct{}{}
	}
	return summaryStyle.Sprintf("found %s in %s\n",
		plural(len(blocks), "fragment"), plural(len(files), "file"))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

/***** Block Formatter Builder *****/

type BlockData struct {
	Kind            string
	Language        string
	Meta            string
	Filename        string
	Padding         string
	StartLine       int
	StartColumn     int
	FirstLine       int
	MaxLineNumWidth int
	Lines           []string
	CommonIndent    string
}

func buildBlock(block tt.Block, formatter blockFormatter) string {
	lines, firstLine := blockLines(block)
	lastLine := firstLine + max(len(lines)-1, 0)
	maxLineNumWidth := calculateMaxLineNumWidth(lastLine)

	data := BlockData{
		Kind:            block.Kind,
		Language:        block.Language,
		Meta:            block.Meta,
		Filename:        block.Filename,
		StartLine:       block.Start.Line,
		StartColumn:     block.Start.Column,
		FirstLine:       firstLine,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         strings.Repeat(" ", maxLineNumWidth+1),
		Lines:           lines,
		CommonIndent:    findCommonIndent(lines),
	}

	funcMap := template.FuncMap{
		"header":  header,
		"snippet": codeSnippet,
		"rule":    rule,
		"note":    note,
	}

	tmpl := template.Must(template.New("block").Funcs(funcMap).Parse(formatter.BlockTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting block: %v", err)
	}
	return buf.String()
}

// blockLines returns the lines to print for block and the line number of
// the first one. The body of an annotation starts below its marker line.
func blockLines(block tt.Block) ([]string, int) {
	if block.Kind == annotate.BlockRule {
		if block.Body == "" {
			return nil, block.Start.Line + 1
		}
		return strings.Split(block.Body, "\n"), block.Start.Line + 1
	}
	text := strings.TrimSuffix(block.Text, "\n")
	if text == "" {
		return nil, block.Start.Line
	}
	return strings.Split(text, "\n"), block.Start.Line
}

// utils functions used in the text templates

func header(kind string, meta string, maxLineNumWidth int, filename string, startLine int, startColumn int) string {
	endString := kindStyle.Sprintf("%s", strings.ToLower(kind))
	if meta != "" {
		endString += kindStyle.Sprint(": ") + metaStyle.Sprint(meta)
	}
	endString += "\n"

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	endString += fileStyle.Sprintf("%s:%d:%d\n", filename, startLine, startColumn)
	return endString
}

func codeSnippet(lines []string, firstLine int, maxLineNumWidth int, commonIndent string, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)
	for i, line := range lines {
		line = expandTabs(strings.TrimPrefix(line, commonIndent))
		lineNum := fmt.Sprintf("%*d", maxLineNumWidth, firstLine+i)
		endString += lineStyle.Sprintf("%s |", lineNum)
		if line != "" {
			endString += " " + line
		}
		endString += "\n"
	}
	return endString
}

func rule(padding string) string {
	return lineStyle.Sprintf("%s|\n", padding)
}

func note(padding string, lines int, language string) string {
	endString := lineStyle.Sprintf("%s= ", padding)
	text := plural(lines, "line")
	if language != "" {
		text += " of " + language
	}
	return endString + summaryStyle.Sprintf("%s\n", text)
}

func calculateMaxLineNumWidth(endLine int) int {
	return len(fmt.Sprintf("%d", endLine))
}

func expandTabs(line string) string {
	var b strings.Builder
	col := 0
	for _, ch := range line {
		if ch == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(ch)
		col++
	}
	return b.String()
}

// findCommonIndent finds the common indent of the non-blank lines.
func findCommonIndent(lines []string) string {
	var indent []rune
	found := false
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}
		current := []rune(line[:len(line)-len(trimmed)])
		if !found {
			indent, found = current, true
			continue
		}
		indent = commonPrefix(indent, current)
		if len(indent) == 0 {
			break
		}
	}
	return string(indent)
}

// commonPrefix finds the common prefix of two strings.
func commonPrefix(a, b []rune) []rune {
	minLen := min(len(a), len(b))
	for i := 0; i < minLen; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:minLen]
}
