// Package github implements the TimelineSource and PRBodyWriter ports using the go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/prtimeline/internal/domain/model"
	"github.com/ericfisherdev/prtimeline/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TimelineSource = (*Client)(nil)

// Retry defaults for transient API failures.
const (
	defaultAttempts   = 5
	defaultRetryDelay = 1 * time.Second
	maxRetryDelay     = 30 * time.Second
)

// Options tunes the client. The zero value talks to api.github.com with the
// default timeout and retry policy.
type Options struct {
	BaseURL    string // GitHub Enterprise API root, e.g. https://ghe.example.com/api/v3/.
	Timeout    time.Duration
	Attempts   int
	RetryDelay time.Duration
}

// Client implements the driven.TimelineSource and driven.PRBodyWriter ports
// using the go-github library.
type Client struct {
	gh         *gh.Client
	attempts   uint
	retryDelay time.Duration
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with token auth)
func NewClient(token string, opts Options) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	if opts.Timeout > 0 {
		rateLimitClient.Timeout = opts.Timeout
	}

	client := gh.NewClient(rateLimitClient).WithAuthToken(token)
	if opts.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise URL %q: %w", opts.BaseURL, err)
		}
	}

	return newClient(client, opts), nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, opts Options) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	client.BaseURL = u

	return newClient(client, opts), nil
}

func newClient(client *gh.Client, opts Options) *Client {
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	return &Client{gh: client, attempts: uint(attempts), retryDelay: delay}
}

// FetchPullRequest retrieves a single pull request.
func (c *Client) FetchPullRequest(ctx context.Context, repoFullName string, prNumber int) (*model.PullRequest, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	var (
		pr   *gh.PullRequest
		resp *gh.Response
	)
	err = c.withRetry(ctx, "get-pull-request", func() error {
		var err error
		pr, resp, err = c.gh.PullRequests.Get(ctx, owner, repo, prNumber)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching pull request %s#%d: %w: %w", repoFullName, prNumber, model.ErrFetchFailed, err)
	}

	logRateLimit(resp, repoFullName+"/pull", 0, 1)

	mapped := mapPullRequest(pr, repoFullName)
	return &mapped, nil
}

// FetchIssueEvents retrieves the full issue event history of a pull request.
// It handles pagination automatically and maps go-github types to domain model types.
func (c *Client) FetchIssueEvents(ctx context.Context, repoFullName string, prNumber int) ([]model.IssueEvent, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListOptions{PerPage: 100}
	allEvents := []model.IssueEvent{}

	for {
		var (
			events []*gh.IssueEvent
			resp   *gh.Response
		)
		err := c.withRetry(ctx, "list-issue-events", func() error {
			var err error
			events, resp, err = c.gh.Issues.ListIssueEvents(ctx, owner, repo, prNumber, opts)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("listing issue events for %s#%d (page %d): %w: %w", repoFullName, prNumber, opts.Page, model.ErrFetchFailed, err)
		}

		logRateLimit(resp, repoFullName+"/issue-events", opts.Page, len(events))

		for _, e := range events {
			allEvents = append(allEvents, mapIssueEvent(e))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allEvents, nil
}

// FetchReviews retrieves all reviews for a pull request.
// It handles pagination automatically and maps go-github types to domain model types.
func (c *Client) FetchReviews(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListOptions{PerPage: 100}
	allReviews := []model.Review{}

	for {
		var (
			reviews []*gh.PullRequestReview
			resp    *gh.Response
		)
		err := c.withRetry(ctx, "list-reviews", func() error {
			var err error
			reviews, resp, err = c.gh.PullRequests.ListReviews(ctx, owner, repo, prNumber, opts)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("listing reviews for %s#%d (page %d): %w: %w", repoFullName, prNumber, opts.Page, model.ErrFetchFailed, err)
		}

		logRateLimit(resp, repoFullName+"/reviews", opts.Page, len(reviews))

		for _, r := range reviews {
			allReviews = append(allReviews, mapReview(r))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allReviews, nil
}

// withRetry runs fn with exponential backoff and jitter. Only transient
// failures are retried; see isTransient.
func (c *Client) withRetry(ctx context.Context, operation string, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.MaxDelay(maxRetryDelay),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(c.retryDelay/4),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("retrying github api call",
				"operation", operation,
				"attempt", n+1,
				"max_attempts", c.attempts,
				"error", err,
			)
		}),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
	)
}

// isTransient reports whether err is worth retrying: 5xx responses,
// secondary rate limits and network failures. Other 4xx responses, primary
// rate limit exhaustion and context cancellation are final.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return false
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		if ghErr.Response == nil {
			return false
		}
		code := ghErr.Response.StatusCode
		return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// mapPullRequest converts a go-github PullRequest to a domain model PullRequest.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapPullRequest(pr *gh.PullRequest, repoFullName string) model.PullRequest {
	var mergedAt *time.Time
	if ts := pr.GetMergedAt(); !ts.IsZero() {
		t := ts.Time
		mergedAt = &t
	}

	reviewers := make([]string, 0, len(pr.RequestedReviewers))
	for _, r := range pr.RequestedReviewers {
		reviewers = append(reviewers, r.GetLogin())
	}

	return model.PullRequest{
		Number:             pr.GetNumber(),
		RepoFullName:       repoFullName,
		Title:              pr.GetTitle(),
		Author:             pr.GetUser().GetLogin(),
		State:              model.PRState(pr.GetState()),
		IsDraft:            pr.GetDraft(),
		Merged:             pr.GetMerged() || mergedAt != nil,
		Body:               pr.GetBody(),
		URL:                pr.GetHTMLURL(),
		CreatedAt:          pr.GetCreatedAt().Time,
		MergedAt:           mergedAt,
		RequestedReviewers: reviewers,
	}
}

// mapIssueEvent converts a go-github IssueEvent to a domain model IssueEvent.
func mapIssueEvent(e *gh.IssueEvent) model.IssueEvent {
	return model.IssueEvent{
		Kind:              model.EventKind(e.GetEvent()),
		RequestedReviewer: e.GetRequestedReviewer().GetLogin(),
		Assignee:          e.GetAssignee().GetLogin(),
		Actor:             e.GetActor().GetLogin(),
		CreatedAt:         e.GetCreatedAt().Time,
	}
}

// mapReview converts a go-github PullRequestReview to a domain model Review.
// The raw API state is kept; approval matching is case-insensitive downstream.
func mapReview(r *gh.PullRequestReview) model.Review {
	return model.Review{
		ID:          r.GetID(),
		Submitter:   r.GetUser().GetLogin(),
		State:       r.GetState(),
		SubmittedAt: r.GetSubmittedAt().Time,
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo: %w", fullName, model.ErrInvalidRepo)
	}
	return parts[0], parts[1], nil
}
