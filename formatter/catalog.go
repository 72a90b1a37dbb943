package formatter

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/gnoswap-labs/deduce/internal/oracle"
	"github.com/gnoswap-labs/deduce/internal/rules"
)

const catalogTemplate = `{{range .}}{{class .Classification}}
{{range .Rules}}  {{ruleID .ID}} {{.Name}}
{{range clauses .}}      {{.}}
{{end}}{{end}}
{{end}}`

// FormatCatalog lists rules group by group with their clauses.
func FormatCatalog(groups []rules.Group) string {
	funcMap := template.FuncMap{
		"class":  func(c rules.Classification) string { return fileStyle.Sprint(c.String()) },
		"ruleID": func(id rules.ID) string { return ruleStyle.Sprint(string(id)) },
		"clauses": func(r rules.Rule) []string {
			if r.Rewrite == nil {
				return []string{"repeats a visible line unchanged"}
			}
			out := make([]string, len(r.Rewrite.Reductions))
			for i, c := range r.Rewrite.Reductions {
				out[i] = c.String()
			}
			return out
		},
	}

	tmpl := template.Must(template.New("catalog").Funcs(funcMap).Parse(catalogTemplate))
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, groups); err != nil {
		return fmt.Sprintf("Error formatting catalog: %v", err)
	}
	return buf.String()
}

// FormatOracleReport prints every failed clause followed by the summary.
func FormatOracleReport(report oracle.Report) string {
	var buf bytes.Buffer
	for _, f := range report.Failures {
		buf.WriteString(errorStyle.Sprint("error: ") + ruleStyle.Sprintf("%s\n", f.Clause.Name))
		buf.WriteString(lineStyle.Sprint("  = ") + messageStyle.Sprintf("%s\n", f.Err))
	}
	if report.OK() {
		buf.WriteString(suggestionStyle.Sprintf("%s\n", report.Summary()))
	} else {
		buf.WriteString(errorStyle.Sprintf("%s\n", report.Summary()))
	}
	return buf.String()
}
