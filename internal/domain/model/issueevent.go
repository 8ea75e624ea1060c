package model

import "time"

// IssueEvent is a single entry of a PR's issue event history.
type IssueEvent struct {
	Kind              EventKind
	RequestedReviewer string // Set for review_requested events on a user (not a team).
	Assignee          string // Set for assigned events.
	Actor             string
	CreatedAt         time.Time
}
