package cli

import (
	"context"
	"strings"

	githubadapter "github.com/ericfisherdev/prtimeline/internal/adapter/driven/github"
	"github.com/ericfisherdev/prtimeline/internal/application"
	"github.com/ericfisherdev/prtimeline/internal/config"
)

// publicAPIURL is the REST root of github.com, as reported by Actions
// runners in GITHUB_API_URL.
const publicAPIURL = "https://api.github.com"

// defaultServiceFactory wires the go-github adapter as both source and
// writer. GitHub App credentials take precedence over a token.
func defaultServiceFactory(ctx context.Context, cfg *config.Config, repoFullName string) (*application.TimelineService, error) {
	client, err := newGitHubClient(ctx, cfg, cfg.GitHubToken, repoFullName, apiBaseURL(cfg))
	if err != nil {
		return nil, err
	}
	return application.NewTimelineService(client, client).WithClock(cfg.Clock()), nil
}

func newGitHubClient(ctx context.Context, cfg *config.Config, token, repoFullName, baseURL string) (*githubadapter.Client, error) {
	opts := githubadapter.Options{
		BaseURL:  baseURL,
		Timeout:  cfg.HTTPTimeout,
		Attempts: cfg.MaxRetries,
	}

	if cfg.HasAppCredentials() {
		key, err := githubadapter.LoadAppKey(cfg.AppPrivateKey, cfg.AppPrivateKeyPath)
		if err != nil {
			return nil, err
		}
		return githubadapter.NewAppClient(ctx, cfg.AppID, key, repoFullName, opts)
	}

	token, _, err := githubadapter.ResolveToken(token, cfg.GitHubHost)
	if err != nil {
		return nil, err
	}
	return githubadapter.NewClient(token, opts)
}

// apiBaseURL derives the REST root for GitHub Enterprise hosts when no
// explicit API URL is configured. Empty means api.github.com.
func apiBaseURL(cfg *config.Config) string {
	if cfg.APIBaseURL != "" {
		return cfg.APIBaseURL
	}
	host := strings.TrimSpace(cfg.GitHubHost)
	if host == "" || host == "github.com" {
		return ""
	}
	return "https://" + host + "/api/v3/"
}

// workflowAPIBaseURL resolves the REST root inside a workflow run. An explicit
// API URL still wins; otherwise the runner's GITHUB_API_URL is used unless it
// points at github.com.
func workflowAPIBaseURL(cfg *config.Config, runnerAPIURL string) string {
	if cfg.APIBaseURL != "" {
		return cfg.APIBaseURL
	}
	runnerAPIURL = strings.TrimRight(strings.TrimSpace(runnerAPIURL), "/")
	if runnerAPIURL == "" || runnerAPIURL == publicAPIURL {
		return apiBaseURL(cfg)
	}
	return runnerAPIURL + "/"
}
