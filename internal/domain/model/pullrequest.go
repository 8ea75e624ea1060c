package model

import "time"

// PullRequest is the PR metadata the timeline is computed for.
type PullRequest struct {
	Number       int
	RepoFullName string
	Title        string
	Author       string
	State        PRState
	IsDraft      bool
	Merged       bool
	Body         string
	URL          string
	CreatedAt    time.Time
	MergedAt     *time.Time // nil while unmerged.

	// Logins of users whose review is currently requested. Teams are not included.
	RequestedReviewers []string
}

// IsClosedOrMerged reports whether the PR no longer accepts reviews.
func (pr PullRequest) IsClosedOrMerged() bool {
	return pr.State == PRStateClosed || pr.Merged || pr.MergedAt != nil
}
