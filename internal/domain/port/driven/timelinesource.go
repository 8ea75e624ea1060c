package driven

import (
	"context"

	"github.com/ericfisherdev/prtimeline/internal/domain/model"
)

// TimelineSource defines the driven port for reading the history of a single
// pull request. Implementations must return fully materialized sequences or
// an error; partial results are never returned alongside a nil error.
type TimelineSource interface {
	// FetchPullRequest returns the PR metadata (creation, merge, author,
	// currently requested reviewers, body).
	FetchPullRequest(ctx context.Context, repoFullName string, prNumber int) (*model.PullRequest, error)
	// FetchIssueEvents returns the PR's issue events in API order.
	FetchIssueEvents(ctx context.Context, repoFullName string, prNumber int) ([]model.IssueEvent, error)
	// FetchReviews returns every review submitted on the PR.
	FetchReviews(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error)
}
