package report

import (
	"strconv"
	"strings"

	"github.com/ericfisherdev/prtimeline/internal/domain/model"
)

// RenderSummary builds the Markdown job summary: the window list followed by
// the Gantt diagram in a mermaid code block.
func RenderSummary(pr model.PullRequest, windows []model.ReviewerWindow) string {
	var b strings.Builder

	b.WriteString("# " + Title + "\n\n")
	if pr.RepoFullName != "" {
		ref := pr.RepoFullName + "#" + strconv.Itoa(pr.Number)
		if pr.URL != "" {
			ref = "[" + ref + "](" + pr.URL + ")"
		}
		b.WriteString(ref)
		if pr.Title != "" {
			b.WriteString(" " + pr.Title)
		}
		b.WriteString("\n\n")
	}

	b.WriteString("## Reviewer Windows\n\n")
	if len(windows) == 0 {
		b.WriteString("_No reviewer windows._\n")
	}
	for _, w := range windows {
		b.WriteString("- " + FormatWindowLine(w) + "\n")
	}

	b.WriteString("\n## Mermaid Diagram\n\n")
	b.WriteString(RenderMermaid(windows))
	b.WriteString("\n")

	return b.String()
}
