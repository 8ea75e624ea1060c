// Package mcp exposes the review timeline as a Model Context Protocol tool.
package mcp

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ericfisherdev/prtimeline/internal/adapter/driving/report"
	"github.com/ericfisherdev/prtimeline/internal/application"
)

// ToolReviewTimeline is the name of the single tool this server registers.
const ToolReviewTimeline = "review_timeline"

// ServiceFactory builds a TimelineService authorized for repoFullName. It is
// called once per tool call, so app installations are resolved for the
// repository actually requested.
type ServiceFactory func(ctx context.Context, repoFullName string) (*application.TimelineService, error)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	newService  ServiceFactory
	defaultRepo string
}

// NewMCPServer initializes and configures the MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(factory ServiceFactory, defaultRepo, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"PR Review Timeline",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{newService: factory, defaultRepo: defaultRepo}

	s.AddTool(mcp.NewTool(ToolReviewTimeline,
		mcp.WithDescription("Compute per-reviewer review windows (request to approval, merge or today) for a GitHub pull request."),
		mcp.WithString("repo", mcp.Description("Repository as owner/repo, owner/repo#N or a pull request URL. Defaults to the configured repository.")),
		mcp.WithNumber("number", mcp.Description("Pull request number. Optional when repo already names the PR.")),
		mcp.WithString("format", mcp.Description("Output format. Defaults to 'json'."), mcp.Enum("json", "mermaid", "gantt", "markdown", "text")),
	), h.handleReviewTimeline)

	return s
}

// StartMCPServer serves the tools over stdio until stdin closes.
func StartMCPServer(_ context.Context, factory ServiceFactory, defaultRepo, version string) error {
	s := NewMCPServer(factory, defaultRepo, version)
	return server.ServeStdio(s)
}

func (h *toolHandler) handleReviewTimeline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args []string
	if repo := request.GetString("repo", ""); repo != "" {
		args = append(args, repo)
	}
	if n := request.GetInt("number", 0); n > 0 {
		args = append(args, strconv.Itoa(n))
	}

	ref, err := application.ParsePRRef(args, h.defaultRepo)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid pull request reference: %v", err)), nil
	}

	format, err := report.ParseFormat(request.GetString("format", string(report.FormatJSON)))
	if err != nil || format == report.FormatHTML {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q", request.GetString("format", ""))), nil
	}

	svc, err := h.newService(ctx, ref.Repo)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("connecting to GitHub for %s failed: %v", ref.Repo, err)), nil
	}

	tl, err := svc.Compute(ctx, ref.Repo, ref.Number)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("computing timeline for %s failed: %v", ref, err)), nil
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, format, report.Report{PR: tl.PR, Windows: tl.Windows}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering failed: %v", err)), nil
	}

	return mcp.NewToolResultText(buf.String()), nil
}
