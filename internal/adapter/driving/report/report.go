// Package report renders reviewer windows for terminals, Markdown surfaces
// and machine consumers.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/ericfisherdev/prtimeline/internal/domain/model"
)

// Format selects a renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMermaid  Format = "mermaid"
	FormatGantt    Format = "gantt"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists every supported format in display order.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatMermaid, FormatGantt, FormatMarkdown, FormatHTML}
}

// ParseFormat validates a user-supplied format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q (want one of %s)", model.ErrUnknownFormat, s, formatList())
}

func formatList() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// Report is everything a renderer may draw from.
type Report struct {
	PR      model.PullRequest
	Windows []model.ReviewerWindow
	Color   bool
}

// Write renders r to w in the requested format. Text outputs end with a newline.
func Write(w io.Writer, format Format, r Report) error {
	switch format {
	case FormatText:
		return RenderText(w, r.PR, r.Windows, r.Color)
	case FormatJSON:
		return RenderJSON(w, r.Windows)
	case FormatMermaid:
		return writeLine(w, RenderMermaid(r.Windows))
	case FormatGantt:
		return writeLine(w, RenderGantt(r.Windows))
	case FormatMarkdown:
		_, err := io.WriteString(w, RenderSummary(r.PR, r.Windows))
		return err
	case FormatHTML:
		page, err := RenderHTML(RenderSummary(r.PR, r.Windows))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, page)
		return err
	default:
		return fmt.Errorf("%w %q", model.ErrUnknownFormat, format)
	}
}

func writeLine(w io.Writer, s string) error {
	_, err := io.WriteString(w, s+"\n")
	return err
}
