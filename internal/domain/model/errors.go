package model

import "errors"

var (
	// ErrAuthMissing is returned when no GitHub credentials could be resolved.
	ErrAuthMissing = errors.New("github auth missing")
	// ErrFetchFailed wraps any failed read against the GitHub API.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrPublishFailed wraps a failed PR body update.
	ErrPublishFailed = errors.New("publish failed")
	// ErrInvalidRepo signals a repository or PR reference that cannot be parsed.
	ErrInvalidRepo = errors.New("invalid repository reference")
	// ErrNotPullRequest signals an Actions event without a pull_request payload.
	ErrNotPullRequest = errors.New("not a pull request event")
	// ErrUnknownFormat signals an unsupported output format.
	ErrUnknownFormat = errors.New("unknown output format")
)
