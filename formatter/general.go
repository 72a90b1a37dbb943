package formatter

type GeneralIssueFormatter struct{}

func (f *GeneralIssueFormatter) IssueTemplate() string {
	return `{{header .Reason .Severity .MaxLineNumWidth .Filename .Line -}}
{{snippet .Snippet .MaxLineNumWidth .Padding -}}
{{message .Message .Padding -}}
{{if .Note}}{{note .Note}}{{end}}
`
}

// DependencyIssueFormatter also lists what the step cites, since the
// snippet cannot show citations that do not resolve.
type DependencyIssueFormatter struct{}

func (f *DependencyIssueFormatter) IssueTemplate() string {
	return `{{header .Reason .Severity .MaxLineNumWidth .Filename .Line -}}
{{snippet .Snippet .MaxLineNumWidth .Padding -}}
{{message .Message .Padding -}}
{{citations .Deps .Padding -}}
{{if .Note}}{{note .Note}}{{end}}
`
}

// UnverifiableFormatter is a warning: the line may still be right once it
// and what it cites are parsed.
type UnverifiableFormatter struct{}

func (f *UnverifiableFormatter) IssueTemplate() string {
	return `{{header .Reason .Severity .MaxLineNumWidth .Filename .Line -}}
{{snippet .Snippet .MaxLineNumWidth .Padding -}}
{{message .Message .Padding}}
`
}

// LoadFailureFormatter reports a document that never became a proof, so
// there are no lines to show.
type LoadFailureFormatter struct{}

func (f *LoadFailureFormatter) IssueTemplate() string {
	return `{{header .Reason .Severity .MaxLineNumWidth .Filename .Line -}}
{{message .Message .Padding}}
`
}
