package application

import (
	"sort"

	"github.com/ericfisherdev/prtimeline/internal/domain/model"
)

// BuildReviewerWindows resolves an end date for every reviewer in raw and
// returns one window per reviewer, sorted by start day (ties by login).
//
// The end is the earlier of approval and merge when both exist. Approval wins
// only when strictly before the merge; a same-day tie resolves to merged.
// Without either, the window runs until today. An end that is not strictly
// after the start is replaced with start+1 day and its reason gets the
// +normalized suffix.
func BuildReviewerWindows(raw model.RawTimeline, today model.Date) []model.ReviewerWindow {
	reviewers := make([]string, 0, len(raw.ReviewStart))
	for login := range raw.ReviewStart {
		reviewers = append(reviewers, login)
	}
	sort.Strings(reviewers)

	windows := make([]model.ReviewerWindow, 0, len(reviewers))
	for _, login := range reviewers {
		start := raw.ReviewStart[login]
		end, reason := resolveEnd(raw.Approvals, raw.PRMerged, login, today)

		if !end.After(start) {
			end = start.AddDays(1)
			reason = reason.Normalized()
		}

		windows = append(windows, model.ReviewerWindow{
			Reviewer:    login,
			Start:       start,
			End:         end,
			StartReason: raw.StartReasons[login],
			EndReason:   reason,
		})
	}

	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].Start.String() < windows[j].Start.String()
	})

	return windows
}

// resolveEnd picks the end candidate for one reviewer before normalization.
func resolveEnd(approvals map[string]model.Date, merged *model.Date, login string, today model.Date) (model.Date, model.EndReason) {
	approvedAt, approved := approvals[login]

	switch {
	case approved && merged != nil:
		if approvedAt.Before(*merged) {
			return approvedAt, model.EndReasonApproved
		}
		return *merged, model.EndReasonMerged
	case approved:
		return approvedAt, model.EndReasonApproved
	case merged != nil:
		return *merged, model.EndReasonMerged
	default:
		return today, model.EndReasonToday
	}
}
