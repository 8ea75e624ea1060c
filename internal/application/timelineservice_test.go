package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prtimeline/internal/domain/model"
)

// --- Mock implementations for TimelineService tests ---

type mockTimelineSource struct {
	pr         *model.PullRequest
	events     []model.IssueEvent
	reviews    []model.Review
	prErr      error
	eventsErr  error
	reviewsErr error
}

func (m *mockTimelineSource) FetchPullRequest(_ context.Context, _ string, _ int) (*model.PullRequest, error) {
	if m.prErr != nil {
		return nil, m.prErr
	}
	return m.pr, nil
}

func (m *mockTimelineSource) FetchIssueEvents(_ context.Context, _ string, _ int) ([]model.IssueEvent, error) {
	return m.events, m.eventsErr
}

func (m *mockTimelineSource) FetchReviews(_ context.Context, _ string, _ int) ([]model.Review, error) {
	return m.reviews, m.reviewsErr
}

type mockBodyWriter struct {
	calls []string
	repo  string
	num   int
	err   error
}

func (m *mockBodyWriter) UpdatePullRequestBody(_ context.Context, repoFullName string, prNumber int, body string) error {
	m.repo = repoFullName
	m.num = prNumber
	m.calls = append(m.calls, body)
	return m.err
}

func frozen(d int) func() time.Time {
	return func() time.Time { return at(d, 15) }
}

func TestTimelineService_Compute(t *testing.T) {
	pr := basePR()
	source := &mockTimelineSource{
		pr:      &pr,
		events:  []model.IssueEvent{requested("alice", at(2, 0)), requested("bob", at(3, 0))},
		reviews: []model.Review{review("alice", "APPROVED", at(4, 0))},
	}

	svc := NewTimelineService(source, nil).WithClock(frozen(9))
	tl, err := svc.Compute(context.Background(), "octo/widgets", 7)

	require.NoError(t, err)
	assert.Equal(t, day(9), tl.Today)
	assert.Equal(t, pr.Number, tl.PR.Number)
	require.Len(t, tl.Windows, 2)
	assert.Equal(t, model.ReviewerWindow{
		Reviewer: "alice", Start: day(2), End: day(4),
		StartReason: model.StartReasonRequested, EndReason: model.EndReasonApproved,
	}, tl.Windows[0])
	assert.Equal(t, model.ReviewerWindow{
		Reviewer: "bob", Start: day(3), End: day(9),
		StartReason: model.StartReasonRequested, EndReason: model.EndReasonToday,
	}, tl.Windows[1])
}

func TestTimelineService_ComputeFetchErrors(t *testing.T) {
	boom := errors.New("boom")
	pr := basePR()

	tests := []struct {
		name   string
		source *mockTimelineSource
	}{
		{"pull request", &mockTimelineSource{prErr: boom}},
		{"events", &mockTimelineSource{pr: &pr, eventsErr: boom}},
		{"reviews", &mockTimelineSource{pr: &pr, reviewsErr: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl, err := NewTimelineService(tt.source, nil).Compute(context.Background(), "octo/widgets", 7)

			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
			assert.Nil(t, tl)
		})
	}
}

func TestTimelineService_Publish(t *testing.T) {
	writer := &mockBodyWriter{}
	pr := basePR()
	pr.Body = "Description"

	err := NewTimelineService(&mockTimelineSource{}, writer).Publish(context.Background(), pr, "BLOCK")

	require.NoError(t, err)
	require.Len(t, writer.calls, 1)
	assert.Equal(t, PatchBody("Description", "BLOCK"), writer.calls[0])
	assert.Equal(t, "octo/widgets", writer.repo)
	assert.Equal(t, 7, writer.num)
}

func TestTimelineService_PublishErrors(t *testing.T) {
	pr := basePR()

	err := NewTimelineService(&mockTimelineSource{}, nil).Publish(context.Background(), pr, "BLOCK")
	assert.ErrorIs(t, err, model.ErrPublishFailed)

	writer := &mockBodyWriter{err: model.ErrPublishFailed}
	err = NewTimelineService(&mockTimelineSource{}, writer).Publish(context.Background(), pr, "BLOCK")
	assert.ErrorIs(t, err, model.ErrPublishFailed)
}
