package application

import (
	"strings"

	"github.com/ericfisherdev/prtimeline/internal/domain/model"
)

// NormalizeTimeline reduces a PR's issue events and reviews into the
// per-reviewer earliest start and earliest approval maps. The PR author is
// excluded from every map at every step.
//
// Start dates come from review_requested and assigned events (earliest day
// wins across both). If that yields nothing, the currently requested
// reviewers are seeded at the PR creation day. Finally, anyone who submitted
// a review without a recorded start is seeded at their first review day.
func NormalizeTimeline(pr model.PullRequest, events []model.IssueEvent, reviews []model.Review) model.RawTimeline {
	author := pr.Author
	created := model.DateOf(pr.CreatedAt)

	starts := newEarliest()
	for _, e := range events {
		switch e.Kind {
		case model.EventKindReviewRequested:
			if isReviewer(e.RequestedReviewer, author) {
				starts.offer(e.RequestedReviewer, model.DateOf(e.CreatedAt), model.StartReasonRequested)
			}
		case model.EventKindAssigned:
			if isReviewer(e.Assignee, author) {
				starts.offer(e.Assignee, model.DateOf(e.CreatedAt), model.StartReasonAssigned)
			}
		}
	}

	// Event history unavailable or empty: fall back to who is requested now.
	if starts.len() == 0 {
		for _, login := range pr.RequestedReviewers {
			if isReviewer(login, author) && !starts.has(login) {
				starts.set(login, created, model.StartReasonFallbackRequested)
			}
		}
	}

	firstReview := newEarliest()
	approvals := newEarliest()
	for _, r := range reviews {
		if !isReviewer(r.Submitter, author) {
			continue
		}
		ts := r.Timestamp()
		if ts.IsZero() {
			continue
		}
		day := model.DateOf(ts)

		firstReview.offer(r.Submitter, day, "")
		if strings.EqualFold(r.State, model.ReviewStateApproved) {
			approvals.offer(r.Submitter, day, "")
		}
	}

	// Drive-by reviewers: reviewed without any request, assignment or fallback.
	for login, day := range firstReview.dates {
		if !starts.has(login) {
			starts.set(login, day, model.StartReasonFirstReview)
		}
	}

	var merged *model.Date
	if pr.MergedAt != nil && !pr.MergedAt.IsZero() {
		d := model.DateOf(*pr.MergedAt)
		merged = &d
	}

	return model.RawTimeline{
		PRCreated:    created,
		PRMerged:     merged,
		PRAuthor:     author,
		ReviewStart:  starts.dates,
		StartReasons: starts.reasons,
		Approvals:    approvals.dates,
	}
}

// isReviewer reports whether login can own a reviewer window.
func isReviewer(login, author string) bool {
	return login != "" && login != author
}

// earliest is a login -> day association where offers only ever move a
// login's day earlier. The reason of the winning offer is kept alongside.
type earliest struct {
	dates   map[string]model.Date
	reasons map[string]model.StartReason
}

func newEarliest() *earliest {
	return &earliest{
		dates:   make(map[string]model.Date),
		reasons: make(map[string]model.StartReason),
	}
}

// offer records day for login if login is unseen or day is strictly earlier
// than the recorded one.
func (e *earliest) offer(login string, day model.Date, reason model.StartReason) {
	if existing, ok := e.dates[login]; ok && !day.Before(existing) {
		return
	}
	e.set(login, day, reason)
}

func (e *earliest) set(login string, day model.Date, reason model.StartReason) {
	e.dates[login] = day
	if reason != "" {
		e.reasons[login] = reason
	}
}

func (e *earliest) has(login string) bool {
	_, ok := e.dates[login]
	return ok
}

func (e *earliest) len() int {
	return len(e.dates)
}
