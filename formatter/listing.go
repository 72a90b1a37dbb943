package formatter

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/deduce/check"
	"github.com/gnoswap-labs/deduce/internal/proof"
)

// FormatListing renders a whole proof with one status mark per line.
// Subproof nesting is drawn with a bar per level.
func FormatListing(report *check.Report) string {
	var b strings.Builder

	title := displayName(report)
	if report.Name != "" && report.Name != title {
		title += " (" + report.Name + ")"
	}
	b.WriteString(fileStyle.Sprintf("%s\n", title))

	width := calculateMaxLineNumWidth(len(report.Lines))
	for _, l := range report.Lines {
		b.WriteString(lineStyle.Sprintf("%*d ", width, l.Number))
		b.WriteString(statusMark(l.State))
		b.WriteString(" " + strings.Repeat("| ", l.Depth))
		b.WriteString(noStyle.Sprint(lineText(l)))
		b.WriteString("\n")
	}
	return b.String()
}

func statusMark(state string) string {
	switch state {
	case proof.Valid.String():
		return suggestionStyle.Sprint("✓")
	case proof.Invalid.String():
		return errorStyle.Sprint("✗")
	default:
		return warningStyle.Sprint("?")
	}
}

// Summary counts documents and line states across reports.
func Summary(reports []*check.Report) string {
	var lines, invalid, unverifiable int
	for _, r := range reports {
		for _, l := range r.Lines {
			lines++
			switch l.State {
			case proof.Invalid.String():
				invalid++
			case proof.Unverifiable.String():
				unverifiable++
			}
		}
	}

	out := fmt.Sprintf("checked %d documents, %d lines: ", len(reports), lines)
	if invalid == 0 && unverifiable == 0 {
		return out + suggestionStyle.Sprint("all valid") + "\n"
	}
	return out + errorStyle.Sprintf("%d invalid", invalid) + ", " +
		warningStyle.Sprintf("%d unverifiable", unverifiable) + "\n"
}
