package application

import (
	"regexp"
	"strings"
)

// Markers delimiting the managed timeline region of a PR description.
const (
	TimelineStartMarker = "<!-- pr-review-timeline:start -->"
	TimelineEndMarker   = "<!-- pr-review-timeline:end -->"
)

// timelineRegion matches the first marker-delimited region, non-greedy and
// across newlines.
var timelineRegion = regexp.MustCompile(
	"(?s)" + regexp.QuoteMeta(TimelineStartMarker) + ".*?" + regexp.QuoteMeta(TimelineEndMarker),
)

// PatchBody returns body with block placed between the timeline markers.
// An existing region is replaced in place; otherwise the region is appended
// after a blank line. Text outside the region is preserved byte for byte.
func PatchBody(body, block string) string {
	wrapped := TimelineStartMarker + "\n" + block + "\n" + TimelineEndMarker

	if loc := timelineRegion.FindStringIndex(body); loc != nil {
		var b strings.Builder
		b.Grow(len(body) - (loc[1] - loc[0]) + len(wrapped))
		b.WriteString(body[:loc[0]])
		b.WriteString(wrapped)
		b.WriteString(body[loc[1]:])
		return b.String()
	}

	return body + "\n\n" + wrapped
}
