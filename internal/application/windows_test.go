package application

import (
	"testing"
	"testing/quick"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prtimeline/internal/domain/model"
)

func datePtr(d model.Date) *model.Date { return &d }

func rawWith(starts map[string]model.Date, approvals map[string]model.Date, merged *model.Date) model.RawTimeline {
	reasons := make(map[string]model.StartReason, len(starts))
	for login := range starts {
		reasons[login] = model.StartReasonRequested
	}
	if approvals == nil {
		approvals = map[string]model.Date{}
	}
	return model.RawTimeline{
		PRCreated:    day(1),
		PRMerged:     merged,
		PRAuthor:     "author",
		ReviewStart:  starts,
		StartReasons: reasons,
		Approvals:    approvals,
	}
}

func TestBuildReviewerWindows_ScenarioApprovedBeforeMerge(t *testing.T) {
	pr := basePR()
	merged := at(10, 12)
	pr.MergedAt = &merged
	events := []model.IssueEvent{requested("A", at(2, 12))}
	reviews := []model.Review{review("A", "APPROVED", at(3, 12))}

	windows := BuildReviewerWindows(NormalizeTimeline(pr, events, reviews), day(15))

	assert.Equal(t, []model.ReviewerWindow{{
		Reviewer:    "A",
		Start:       day(2),
		End:         day(3),
		StartReason: model.StartReasonRequested,
		EndReason:   model.EndReasonApproved,
	}}, windows)
}

func TestBuildReviewerWindows_ScenarioSameDayMerge(t *testing.T) {
	pr := basePR()
	merged := at(2, 18)
	pr.MergedAt = &merged

	windows := BuildReviewerWindows(NormalizeTimeline(pr, []model.IssueEvent{requested("A", at(2, 9))}, nil), day(15))

	require.Len(t, windows, 1)
	assert.Equal(t, day(2), windows[0].Start)
	assert.Equal(t, day(3), windows[0].End)
	assert.Equal(t, model.EndReasonMergedNormalized, windows[0].EndReason)
}

func TestBuildReviewerWindows_ScenarioApprovalBeforeRequest(t *testing.T) {
	pr := basePR()
	merged := at(20, 12)
	pr.MergedAt = &merged
	events := []model.IssueEvent{requested("A", at(5, 12))}
	reviews := []model.Review{review("A", "APPROVED", at(4, 12))}

	windows := BuildReviewerWindows(NormalizeTimeline(pr, events, reviews), day(25))

	require.Len(t, windows, 1)
	assert.Equal(t, day(5), windows[0].Start)
	assert.Equal(t, day(6), windows[0].End)
	assert.Equal(t, model.StartReasonRequested, windows[0].StartReason)
	assert.Equal(t, model.EndReasonApprovedNormalized, windows[0].EndReason)
}

func TestBuildReviewerWindows_EndResolution(t *testing.T) {
	tests := []struct {
		name       string
		approval   *model.Date
		merged     *model.Date
		wantEnd    model.Date
		wantReason model.EndReason
	}{
		{"approval before merge", datePtr(day(4)), datePtr(day(6)), day(4), model.EndReasonApproved},
		{"approval equals merge", datePtr(day(6)), datePtr(day(6)), day(6), model.EndReasonMerged},
		{"approval after merge", datePtr(day(8)), datePtr(day(6)), day(6), model.EndReasonMerged},
		{"approval only", datePtr(day(4)), nil, day(4), model.EndReasonApproved},
		{"merge only", nil, datePtr(day(6)), day(6), model.EndReasonMerged},
		{"neither", nil, nil, day(9), model.EndReasonToday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approvals := map[string]model.Date{}
			if tt.approval != nil {
				approvals["alice"] = *tt.approval
			}
			raw := rawWith(map[string]model.Date{"alice": day(2)}, approvals, tt.merged)

			windows := BuildReviewerWindows(raw, day(9))

			require.Len(t, windows, 1)
			assert.Equal(t, tt.wantEnd, windows[0].End)
			assert.Equal(t, tt.wantReason, windows[0].EndReason)
		})
	}
}

func TestBuildReviewerWindows_TodayBeforeStartIsNormalized(t *testing.T) {
	raw := rawWith(map[string]model.Date{"alice": day(9)}, nil, nil)

	windows := BuildReviewerWindows(raw, day(9))

	require.Len(t, windows, 1)
	assert.Equal(t, day(10), windows[0].End)
	assert.Equal(t, model.EndReasonTodayNormalized, windows[0].EndReason)
}

func TestBuildReviewerWindows_ApprovalWithoutStartIsIgnored(t *testing.T) {
	raw := rawWith(map[string]model.Date{"alice": day(2)}, map[string]model.Date{"ghost": day(3)}, nil)

	windows := BuildReviewerWindows(raw, day(9))

	require.Len(t, windows, 1)
	assert.Equal(t, "alice", windows[0].Reviewer)
}

func TestBuildReviewerWindows_SortedByStartThenReviewer(t *testing.T) {
	raw := rawWith(map[string]model.Date{
		"zoe":   day(2),
		"amy":   day(5),
		"bob":   day(2),
		"carl":  day(3),
		"aaron": day(2),
	}, nil, nil)

	windows := BuildReviewerWindows(raw, day(20))

	var got []string
	for _, w := range windows {
		got = append(got, w.Reviewer)
	}
	assert.Equal(t, []string{"aaron", "bob", "zoe", "carl", "amy"}, got)
}

func TestBuildReviewerWindows_Idempotent(t *testing.T) {
	pr := basePR()
	merged := at(12, 0)
	pr.MergedAt = &merged
	events := []model.IssueEvent{
		requested("alice", at(2, 0)),
		assigned("bob", at(3, 0)),
		requested("carol", at(3, 0)),
	}
	reviews := []model.Review{
		review("alice", "APPROVED", at(4, 0)),
		review("dan", "COMMENTED", at(5, 0)),
	}

	first := BuildReviewerWindows(NormalizeTimeline(pr, events, reviews), day(20))
	for i := 0; i < 20; i++ {
		again := BuildReviewerWindows(NormalizeTimeline(pr, events, reviews), day(20))
		require.Equal(t, first, again)
	}
}

func TestBuildReviewerWindows_Empty(t *testing.T) {
	windows := BuildReviewerWindows(rawWith(map[string]model.Date{}, nil, nil), day(9))

	assert.NotNil(t, windows)
	assert.Empty(t, windows)
}

// Every window must end strictly after it starts, whatever the combination
// of approval, merge and clock.
func TestBuildReviewerWindows_EndAlwaysAfterStart(t *testing.T) {
	base := model.NewDate(2023, time.June, 1)

	property := func(startOff, approvalOff, mergeOff, todayOff uint16, hasApproval, hasMerge bool) bool {
		start := base.AddDays(int(startOff % 400))
		approvals := map[string]model.Date{}
		if hasApproval {
			approvals["r"] = base.AddDays(int(approvalOff % 400))
		}
		var merged *model.Date
		if hasMerge {
			merged = datePtr(base.AddDays(int(mergeOff % 400)))
		}

		raw := rawWith(map[string]model.Date{"r": start}, approvals, merged)
		windows := BuildReviewerWindows(raw, base.AddDays(int(todayOff%400)))

		return len(windows) == 1 &&
			windows[0].End.After(windows[0].Start) &&
			windows[0].Start.Equal(start)
	}

	require.NoError(t, quick.Check(property, &quick.Config{MaxCount: 2000}))
}
