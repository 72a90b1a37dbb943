package formatter

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnoswap-labs/deduce/check"
	"github.com/gnoswap-labs/deduce/internal/proof"
)

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	warningStyle    = color.New(color.FgHiYellow, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
	noStyle         = color.New(color.FgWhite)
)

// issueFormatter is implemented by the per-reason layouts of a failing line.
type issueFormatter interface {
	IssueTemplate() string
}

// getIssueFormatter picks the layout for a failure reason. Anything
// without a dedicated layout uses GeneralIssueFormatter.
func getIssueFormatter(reason string) issueFormatter {
	switch reason {
	case check.ReasonNotLoaded:
		return &LoadFailureFormatter{}
	case proof.ReasonUnparsed.String():
		return &UnverifiableFormatter{}
	case proof.ReasonBadDependency.String(), proof.ReasonDependencyCount.String():
		return &DependencyIssueFormatter{}
	default:
		return &GeneralIssueFormatter{}
	}
}

// GenerateFormattedReport renders every line of report that did not check.
func GenerateFormattedReport(report *check.Report) string {
	var builder strings.Builder
	for _, line := range report.Lines {
		if line.State == proof.Valid.String() {
			continue
		}
		builder.WriteString(buildIssue(report, line, getIssueFormatter(line.Reason)))
	}
	return builder.String()
}

/***** Issue Formatter Builder *****/

// SnippetLine is one proof line shown under an issue header.
type SnippetLine struct {
	Number int
	Depth  int
	Text   string
	Target bool
}

type IssueData struct {
	Severity        string
	Reason          string
	Filename        string
	Line            int
	ID              string
	Rule            string
	Deps            []string
	Message         string
	Note            string
	MaxLineNumWidth int
	Padding         string
	Snippet         []SnippetLine
}

func buildIssue(report *check.Report, line check.LineResult, formatter issueFormatter) string {
	snippet := snippetFor(report, line)
	maxLineNumWidth := 1
	if len(snippet) > 0 {
		maxLineNumWidth = calculateMaxLineNumWidth(snippet[len(snippet)-1].Number)
	}

	severity := "ERROR"
	if line.State == proof.Unverifiable.String() {
		severity = "WARNING"
	}

	data := IssueData{
		Severity:        severity,
		Reason:          line.Reason,
		Filename:        displayName(report),
		Line:            line.Number,
		ID:              line.ID,
		Rule:            line.Rule,
		Deps:            line.Deps,
		Message:         line.Message,
		Note:            noteFor(line.Reason),
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         strings.Repeat(" ", maxLineNumWidth+1),
		Snippet:         snippet,
	}

	funcMap := template.FuncMap{
		"header":    header,
		"snippet":   proofSnippet,
		"message":   message,
		"citations": citations,
		"note":      note,
	}

	tmpl := template.Must(template.New("issue").Funcs(funcMap).Parse(formatter.IssueTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v", err)
	}
	return buf.String()
}

func displayName(report *check.Report) string {
	if report.Path != "" {
		return report.Path
	}
	return report.ID
}

// snippetFor returns the failing line preceded by the lines it cites, in
// row order. A cited subproof contributes every row of its span.
func snippetFor(report *check.Report, line check.LineResult) []SnippetLine {
	want := map[int]bool{line.Number: true}
	for _, d := range line.Deps {
		lo, hi, ok := parseCitation(d)
		if !ok {
			continue
		}
		for n := lo; n <= hi; n++ {
			want[n] = true
		}
	}

	numbers := make([]int, 0, len(want))
	for n := range want {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	out := make([]SnippetLine, 0, len(numbers))
	for _, n := range numbers {
		if n < 1 || n > len(report.Lines) {
			continue
		}
		l := report.Lines[n-1]
		out = append(out, SnippetLine{Number: n, Depth: l.Depth, Text: lineText(l), Target: n == line.Number})
	}
	return out
}

func parseCitation(s string) (lo, hi int, ok bool) {
	if a, b, found := strings.Cut(s, "-"); found {
		first, err1 := strconv.Atoi(a)
		last, err2 := strconv.Atoi(b)
		return first, last, err1 == nil && err2 == nil
	}
	n, err := strconv.Atoi(s)
	return n, n, err == nil
}

func lineText(l check.LineResult) string {
	if l.Reason == check.ReasonNotLoaded {
		return l.Message
	}
	text := l.Expr
	if text == "" {
		text = "?"
	}
	if l.Kind == "step" && l.Rule != "" {
		text += "    " + l.Rule
		if len(l.Deps) > 0 {
			text += " " + strings.Join(l.Deps, ", ")
		}
	}
	return text
}

func noteFor(reason string) string {
	switch reason {
	case proof.ReasonDependencyCount.String():
		return "equivalence rules cite one to three lines and no subproof; reiteration cites exactly one line"
	case proof.ReasonBadDependency.String():
		return "a step may cite premises of enclosing subproofs and earlier lines of enclosing subproofs"
	case proof.ReasonUnknownRule.String():
		return "run `deduce rules` to list the available rules"
	case proof.ReasonNoRule.String():
		return "set `rule` on the step"
	default:
		return ""
	}
}

// utils functions used in the text templates

func header(reason string, severity string, maxLineNumWidth int, filename string, line int) string {
	var endString string
	switch severity {
	case "ERROR":
		endString = errorStyle.Sprintf("error: ")
	case "WARNING":
		endString = warningStyle.Sprintf("warning: ")
	}

	endString += ruleStyle.Sprintf("%s\n", reason)

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	if line > 0 {
		endString += fileStyle.Sprintf("%s:%d\n", filename, line)
	} else {
		endString += fileStyle.Sprintf("%s\n", filename)
	}

	return endString
}

func proofSnippet(lines []SnippetLine, maxLineNumWidth int, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)
	prev := 0
	for _, l := range lines {
		if prev != 0 && l.Number > prev+1 {
			endString += lineStyle.Sprintf("%s.\n", padding)
		}
		prev = l.Number

		lineNum := fmt.Sprintf("%*d", maxLineNumWidth, l.Number)
		text := strings.Repeat("| ", l.Depth) + l.Text
		if l.Target {
			endString += lineStyle.Sprintf("%s | ", lineNum) + messageStyle.Sprintf("%s\n", text)
		} else {
			endString += lineStyle.Sprintf("%s | ", lineNum) + noStyle.Sprintf("%s\n", text)
		}
	}
	return endString
}

func message(msg string, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + messageStyle.Sprintf("%s\n", msg)
}

func citations(deps []string, padding string) string {
	cited := "nothing"
	if len(deps) > 0 {
		cited = strings.Join(deps, ", ")
	}
	return lineStyle.Sprintf("%s= ", padding) + noStyle.Sprintf("cites: %s\n", cited)
}

func note(note string) string {
	if note == "" {
		return ""
	}
	return suggestionStyle.Sprint("Note: ") + lineStyle.Sprintf("%s\n", note)
}

func calculateMaxLineNumWidth(endLine int) int {
	return len(fmt.Sprintf("%d", endLine))
}
