package formatter

type SourceFormatter struct{}

func (f *SourceFormatter) BlockTemplate() string {
	return `{{header .Kind .Meta .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .Lines .FirstLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{note .Padding (len .Lines) .Language}}
`
}
