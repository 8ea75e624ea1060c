package report

import (
	"fmt"
	"strings"

	"github.com/ericfisherdev/prtimeline/internal/domain/model"
)

// Title is the diagram and summary heading.
const Title = "PR Review Timeline"

// RenderGantt renders the Mermaid Gantt body without code fences. Each window
// becomes one task line; the output has no trailing newline.
func RenderGantt(windows []model.ReviewerWindow) string {
	lines := make([]string, 0, len(windows)+5)
	lines = append(lines,
		"gantt",
		"  title "+Title,
		"  dateFormat  YYYY-MM-DD",
		"  axisFormat  %d %b",
		"",
	)

	for _, w := range windows {
		lines = append(lines, fmt.Sprintf("  @%s : %s, %s", w.Reviewer, w.Start, w.End))
	}

	return strings.Join(lines, "\n")
}

// RenderMermaid wraps the Gantt body in a fenced mermaid block for Markdown
// contexts such as PR bodies.
func RenderMermaid(windows []model.ReviewerWindow) string {
	return "```mermaid\n" + RenderGantt(windows) + "\n```"
}

// FormatWindowLine renders one window as "@r: start (startReason) -> end (endReason)".
func FormatWindowLine(w model.ReviewerWindow) string {
	return fmt.Sprintf("@%s: %s (%s) -> %s (%s)", w.Reviewer, w.Start, w.StartReason, w.End, w.EndReason)
}
