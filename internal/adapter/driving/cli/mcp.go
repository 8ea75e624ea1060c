package cli

import (
	"context"

	"github.com/spf13/cobra"

	mcpserver "github.com/ericfisherdev/prtimeline/internal/adapter/driving/mcp"
	"github.com/ericfisherdev/prtimeline/internal/application"
)

func newMCPCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the review_timeline tool over MCP stdio.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			factory := func(ctx context.Context, repo string) (*application.TimelineService, error) {
				return a.newService(ctx, a.cfg, repo)
			}
			return mcpserver.StartMCPServer(cmd.Context(), factory, a.defaultRepo(), a.build.Version)
		},
	}
}
