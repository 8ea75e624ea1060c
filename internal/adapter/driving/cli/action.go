package cli

import (
	"context"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/prtimeline/internal/adapter/driving/action"
	"github.com/ericfisherdev/prtimeline/internal/application"
)

func newActionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "action",
		Short: "Run as a GitHub Actions step on pull_request events.",
		Long: `Reads the pull_request event of the current workflow run, sets the
timeline-json and timeline-mermaid step outputs, writes the job summary and,
unless publish-to-pr is false, patches the timeline into the PR description.`,
		Args: cobra.NoArgs,
		RunE: a.runAction,
	}
}

func (a *app) runAction(cmd *cobra.Command, _ []string) error {
	gha := githubactions.New(
		githubactions.WithWriter(cmd.OutOrStdout()),
		githubactions.WithGetenv(a.getenv),
	)

	factory := func(ctx context.Context, token, repoFullName, apiURL string) (*application.TimelineService, error) {
		client, err := newGitHubClient(ctx, a.cfg, token, repoFullName, workflowAPIBaseURL(a.cfg, apiURL))
		if err != nil {
			return nil, err
		}
		return application.NewTimelineService(client, client).WithClock(a.cfg.Clock()), nil
	}

	runner := action.NewRunner(gha, a.getenv, factory)
	if err := runner.Run(cmd.Context()); err != nil {
		gha.Errorf("%v", err)
		return err
	}
	return nil
}
