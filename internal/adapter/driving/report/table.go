package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/ericfisherdev/prtimeline/internal/domain/model"
)

var (
	approvedColor   = color.New(color.FgGreen)
	mergedColor     = color.New(color.FgCyan)
	todayColor      = color.New(color.FgYellow)
	normalizedColor = color.New(color.FgMagenta)
	headingColor    = color.New(color.Bold)
)

// RenderTable writes the windows as an aligned text table. End reasons are
// colored when colored is true, regardless of the global color setting.
func RenderTable(w io.Writer, windows []model.ReviewerWindow, colored bool) error {
	table := tablewriter.NewWriter(w)

	table.Header([]string{"Reviewer", "Start", "End", "Days", "Start reason", "End reason"})

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := make([][]string, 0, len(windows))
	for _, win := range windows {
		data = append(data, []string{
			"@" + win.Reviewer,
			win.Start.String(),
			win.End.String(),
			strconv.Itoa(win.Days()),
			string(win.StartReason),
			paint(endReasonColor(win.EndReason), string(win.EndReason), colored),
		})
	}

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("building table: %w", err)
	}
	return table.Render()
}

// RenderText writes a heading line for the PR followed by the window table.
func RenderText(w io.Writer, pr model.PullRequest, windows []model.ReviewerWindow, colored bool) error {
	heading := fmt.Sprintf("%s: %s#%d", Title, pr.RepoFullName, pr.Number)
	if pr.Title != "" {
		heading += " " + pr.Title
	}
	if _, err := fmt.Fprintln(w, paint(headingColor, heading, colored)); err != nil {
		return err
	}

	if len(windows) == 0 {
		_, err := fmt.Fprintln(w, "No reviewer windows.")
		return err
	}
	return RenderTable(w, windows, colored)
}

func endReasonColor(r model.EndReason) *color.Color {
	if r.IsNormalized() {
		return normalizedColor
	}
	switch r {
	case model.EndReasonApproved:
		return approvedColor
	case model.EndReasonMerged:
		return mergedColor
	default:
		return todayColor
	}
}

// paint applies c to s only when colored is set. The color is cloned so the
// shared palette is never toggled.
func paint(c *color.Color, s string, colored bool) string {
	if !colored {
		return s
	}
	clone := *c
	clone.EnableColor()
	return clone.Sprint(s)
}
