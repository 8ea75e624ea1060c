package model

import "strings"

// StartReason explains why a reviewer window starts on its start date.
type StartReason string

const (
	StartReasonRequested         StartReason = "requested"          // Explicit review request event.
	StartReasonAssigned          StartReason = "assigned"           // Assignment event.
	StartReasonFirstReview       StartReason = "first_review"       // Drive-by: inferred from the first review.
	StartReasonFallbackRequested StartReason = "fallback_requested" // No events; currently requested at PR creation.
)

// EndReason explains why a reviewer window ends on its end date.
type EndReason string

const (
	EndReasonApproved EndReason = "approved"
	EndReasonMerged   EndReason = "merged"
	EndReasonToday    EndReason = "today"

	EndReasonApprovedNormalized EndReason = "approved+normalized"
	EndReasonMergedNormalized   EndReason = "merged+normalized"
	EndReasonTodayNormalized    EndReason = "today+normalized"
)

const normalizedSuffix = "+normalized"

// Normalized returns the +normalized variant of r. Already-normalized reasons
// are returned unchanged.
func (r EndReason) Normalized() EndReason {
	if r.IsNormalized() {
		return r
	}
	return r + normalizedSuffix
}

// IsNormalized reports whether the end date was forced to start+1 day.
func (r EndReason) IsNormalized() bool {
	return strings.HasSuffix(string(r), normalizedSuffix)
}

// Base strips the +normalized suffix.
func (r EndReason) Base() EndReason {
	return EndReason(strings.TrimSuffix(string(r), normalizedSuffix))
}

// EventKind is the GitHub issue event type. Only review_requested and
// assigned take part in timeline reasoning; other kinds are ignored.
type EventKind string

const (
	EventKindReviewRequested EventKind = "review_requested"
	EventKindAssigned        EventKind = "assigned"
)

// ReviewStateApproved is the API review state for an approval. Comparisons
// against it are case-insensitive.
const ReviewStateApproved = "approved"

// PRState represents the state of a pull request.
type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
)
