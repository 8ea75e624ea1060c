package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/prtimeline/internal/domain/model"
	"github.com/ericfisherdev/prtimeline/internal/domain/port/driven"
)

// Timeline is the computed review timeline for one pull request.
type Timeline struct {
	PR      model.PullRequest
	Raw     model.RawTimeline
	Windows []model.ReviewerWindow
	Today   model.Date
}

// TimelineService fetches a PR's history, runs it through the normalizer and
// window builder, and publishes rendered diagrams back to the PR body.
type TimelineService struct {
	source driven.TimelineSource
	writer driven.PRBodyWriter
	now    func() time.Time
	logger *slog.Logger
}

// NewTimelineService creates a TimelineService. writer may be nil when the
// caller never publishes.
func NewTimelineService(source driven.TimelineSource, writer driven.PRBodyWriter) *TimelineService {
	return &TimelineService{
		source: source,
		writer: writer,
		now:    time.Now,
		logger: slog.Default(),
	}
}

// WithClock replaces the clock used to resolve open windows.
func (s *TimelineService) WithClock(now func() time.Time) *TimelineService {
	s.now = now
	return s
}

// WithLogger replaces the service logger.
func (s *TimelineService) WithLogger(logger *slog.Logger) *TimelineService {
	s.logger = logger
	return s
}

// Compute fetches the PR, its issue events and its reviews concurrently and
// builds the reviewer windows. Any failed fetch cancels the others; no partial
// data reaches the normalizer.
func (s *TimelineService) Compute(ctx context.Context, repoFullName string, prNumber int) (*Timeline, error) {
	var (
		pr      *model.PullRequest
		events  []model.IssueEvent
		reviews []model.Review
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pr, err = s.source.FetchPullRequest(gctx, repoFullName, prNumber)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.source.FetchIssueEvents(gctx, repoFullName, prNumber)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = s.source.FetchReviews(gctx, repoFullName, prNumber)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("computing timeline for %s#%d: %w", repoFullName, prNumber, err)
	}

	today := model.DateOf(s.now())
	raw := NormalizeTimeline(*pr, events, reviews)
	windows := BuildReviewerWindows(raw, today)

	s.logger.Debug("timeline computed",
		"repo", repoFullName,
		"pr", prNumber,
		"events", len(events),
		"reviews", len(reviews),
		"windows", len(windows),
		"today", today.String(),
	)

	return &Timeline{
		PR:      *pr,
		Raw:     raw,
		Windows: windows,
		Today:   today,
	}, nil
}

// Publish patches block into the PR description between the timeline
// markers, leaving the rest of the body untouched.
func (s *TimelineService) Publish(ctx context.Context, pr model.PullRequest, block string) error {
	if s.writer == nil {
		return fmt.Errorf("publishing timeline for %s#%d: %w: no writer configured", pr.RepoFullName, pr.Number, model.ErrPublishFailed)
	}

	body := PatchBody(pr.Body, block)
	if err := s.writer.UpdatePullRequestBody(ctx, pr.RepoFullName, pr.Number, body); err != nil {
		return fmt.Errorf("publishing timeline for %s#%d: %w", pr.RepoFullName, pr.Number, err)
	}

	s.logger.Info("timeline published", "repo", pr.RepoFullName, "pr", pr.Number)
	return nil
}
