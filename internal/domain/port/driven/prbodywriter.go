package driven

import "context"

// PRBodyWriter defines the driven port for replacing a pull request's
// description. It is separate from TimelineSource so read-only callers
// never need write credentials.
type PRBodyWriter interface {
	UpdatePullRequestBody(ctx context.Context, repoFullName string, prNumber int, body string) error
}
