// Package action runs the timeline as a GitHub Actions step: it reads the
// pull_request event, computes the windows, sets step outputs, writes the
// job summary and optionally patches the PR description.
package action

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sethvargo/go-githubactions"

	"github.com/ericfisherdev/prtimeline/internal/adapter/driving/report"
	"github.com/ericfisherdev/prtimeline/internal/application"
	"github.com/ericfisherdev/prtimeline/internal/domain/model"
)

// Step inputs and outputs, as declared in action.yml.
const (
	InputToken     = "github-token"
	InputPublish   = "publish-to-pr"
	InputSkipDraft = "skip-draft"

	OutputJSON    = "timeline-json"
	OutputMermaid = "timeline-mermaid"
)

// ServiceFactory builds a TimelineService authenticated with token for repo.
// apiURL is the workflow's REST root (GITHUB_API_URL), which differs from
// api.github.com on GitHub Enterprise Server runners.
type ServiceFactory func(ctx context.Context, token, repoFullName, apiURL string) (*application.TimelineService, error)

// Runner executes one Actions step invocation.
type Runner struct {
	gha     *githubactions.Action
	getenv  githubactions.GetenvFunc
	factory ServiceFactory
	logger  *slog.Logger
}

// NewRunner creates a Runner. getenv must be the same lookup gha was built
// with so inputs and fallbacks agree.
func NewRunner(gha *githubactions.Action, getenv githubactions.GetenvFunc, factory ServiceFactory) *Runner {
	return &Runner{
		gha:     gha,
		getenv:  getenv,
		factory: factory,
		logger:  slog.Default(),
	}
}

// prEvent is the subset of the pull_request payload the runner gates on.
type prEvent struct {
	action string
	number int
	draft  bool
	state  string
	merged bool
}

// Run handles the current event. Events that are skipped return nil.
func (r *Runner) Run(ctx context.Context) error {
	ghctx, err := r.gha.Context()
	if err != nil {
		return fmt.Errorf("reading workflow context: %w", err)
	}

	ev, ok := parseEvent(ghctx.Event)
	if !ok {
		r.gha.Infof("Not a pull request event, skipping")
		r.logger.Debug("event skipped", "event_name", ghctx.EventName, "reason", model.ErrNotPullRequest)
		return nil
	}

	token := strings.TrimSpace(r.gha.GetInput(InputToken))
	if token == "" {
		token = strings.TrimSpace(r.getenv("GITHUB_TOKEN"))
	}
	if token == "" {
		return fmt.Errorf("GitHub token missing. Provide input '%s' or set environment GITHUB_TOKEN: %w", InputToken, model.ErrAuthMissing)
	}

	publish, err := r.boolInput(InputPublish, true)
	if err != nil {
		return err
	}
	skipDraft, err := r.boolInput(InputSkipDraft, false)
	if err != nil {
		return err
	}

	isClosedAction := ev.action == "closed"
	if skipDraft && ev.draft && !isClosedAction {
		r.gha.Infof("Skipping draft PR per configuration")
		return nil
	}
	if (ev.state == string(model.PRStateClosed) || ev.merged) && !isClosedAction {
		r.gha.Infof("Skipping closed/merged PR on non-finalization event")
		return nil
	}
	if isClosedAction {
		r.gha.Infof("Finalizing timeline on closed event (merged=%t)", ev.merged)
	}

	owner, name := ghctx.Repo()
	repo := owner + "/" + name
	if err := application.ValidateRepo(repo); err != nil {
		return fmt.Errorf("resolving repository from workflow context: %w", err)
	}

	svc, err := r.factory(ctx, token, repo, ghctx.APIURL)
	if err != nil {
		return err
	}

	tl, err := svc.Compute(ctx, repo, ev.number)
	if err != nil {
		return err
	}

	gantt := report.RenderGantt(tl.Windows)
	mermaid := report.RenderMermaid(tl.Windows)
	timelineJSON, err := report.CompactJSON(tl.Windows)
	if err != nil {
		return err
	}

	r.gha.SetOutput(OutputJSON, timelineJSON)
	r.gha.SetOutput(OutputMermaid, mermaid)

	r.gha.Infof("Computed %d reviewer windows", len(tl.Windows))
	for _, w := range tl.Windows {
		r.gha.Infof("%s", report.FormatWindowLine(w))
	}
	r.gha.Infof("Gantt (summary body):\n%s", gantt)

	r.gha.AddStepSummary(report.RenderSummary(tl.PR, tl.Windows))

	if !publish {
		r.gha.Infof("PR body update disabled (%s=false)", InputPublish)
		return nil
	}
	return svc.Publish(ctx, tl.PR, mermaid)
}

// boolInput parses a YAML 1.2 core-schema boolean input, falling back to def
// when the input is unset.
func (r *Runner) boolInput(name string, def bool) (bool, error) {
	raw := r.gha.GetInput(name)
	if raw == "" {
		return def, nil
	}
	switch raw {
	case "true", "True", "TRUE":
		return true, nil
	case "false", "False", "FALSE":
		return false, nil
	}
	return false, fmt.Errorf("input %q is not a YAML 1.2 core schema boolean: %q", name, raw)
}

// parseEvent extracts the pull_request payload. ok is false when the event
// carries none.
func parseEvent(event map[string]any) (prEvent, bool) {
	pr, ok := event["pull_request"].(map[string]any)
	if !ok || pr == nil {
		return prEvent{}, false
	}

	ev := prEvent{}
	ev.action, _ = event["action"].(string)
	ev.draft, _ = pr["draft"].(bool)
	ev.state, _ = pr["state"].(string)
	ev.merged, _ = pr["merged"].(bool)
	if n, ok := pr["number"].(float64); ok {
		ev.number = int(n)
	} else if n, ok := event["number"].(float64); ok {
		ev.number = int(n)
	}
	return ev, ev.number > 0
}
