package report

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in the summary (e.g. from a PR title) is dropped by goldmark's
// default renderer; the UGC policy keeps the language-* class on code blocks.
var (
	summaryMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	summaryPolicy   = bluemonday.UGCPolicy()
)

// RenderHTML converts a Markdown report to a sanitized HTML fragment.
func RenderHTML(md string) (string, error) {
	if md == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := summaryMarkdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return summaryPolicy.Sanitize(buf.String()), nil
}
