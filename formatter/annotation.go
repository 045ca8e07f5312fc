package formatter

// AnnotationFormatter prints the content of an annotation block below
// its meta line.
type AnnotationFormatter struct{}

func (f *AnnotationFormatter) BlockTemplate() string {
	return `{{header .Kind .Meta .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .Lines .FirstLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{rule .Padding}}
`
}
