package model

// RawTimeline is the normalized per-reviewer record the window builder
// consumes. It is computed fresh per invocation and never mutated afterwards.
type RawTimeline struct {
	PRCreated Date
	PRMerged  *Date // nil while unmerged.
	PRAuthor  string

	// ReviewStart maps each reviewer to the earliest day they became one.
	// StartReasons has exactly the same key set.
	ReviewStart  map[string]Date
	StartReasons map[string]StartReason

	// Approvals maps a reviewer to the earliest day they approved.
	Approvals map[string]Date
}

// Reviewers returns the number of reviewers with a recorded start.
func (t RawTimeline) Reviewers() int {
	return len(t.ReviewStart)
}
