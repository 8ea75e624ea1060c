package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/prtimeline/internal/domain/model"
	"github.com/ericfisherdev/prtimeline/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PRBodyWriter = (*Client)(nil)

// UpdatePullRequestBody replaces the description of a pull request. Only the
// body field is sent, so title, state and base are left untouched.
func (c *Client) UpdatePullRequestBody(ctx context.Context, repoFullName string, prNumber int, body string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	var resp *gh.Response
	err = c.withRetry(ctx, "edit-pull-request", func() error {
		var err error
		_, resp, err = c.gh.PullRequests.Edit(ctx, owner, repo, prNumber, &gh.PullRequest{
			Body: gh.Ptr(body),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("updating body of %s#%d: %w: %w", repoFullName, prNumber, model.ErrPublishFailed, err)
	}

	logRateLimit(resp, repoFullName+"/pull-edit", 0, 1)
	return nil
}
