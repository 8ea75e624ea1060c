package model

import "time"

// Review represents a review submitted on a pull request.
type Review struct {
	ID          int64
	Submitter   string // Empty for reviews by deleted (ghost) users.
	State       string // Raw API state, e.g. "APPROVED", "COMMENTED".
	SubmittedAt time.Time
	CreatedAt   time.Time
}

// Timestamp returns when the review happened, preferring SubmittedAt over
// CreatedAt. It is zero when neither is known.
func (r Review) Timestamp() time.Time {
	if !r.SubmittedAt.IsZero() {
		return r.SubmittedAt
	}
	return r.CreatedAt
}
