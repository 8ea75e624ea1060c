package model

// ReviewerWindow is the computed date range during which a reviewer was
// expected to be reviewing a PR. End is always strictly after Start.
type ReviewerWindow struct {
	Reviewer    string      `json:"reviewer"`
	Start       Date        `json:"start"`
	End         Date        `json:"end"`
	StartReason StartReason `json:"startReason"`
	EndReason   EndReason   `json:"endReason"`
}

// Days returns the window length in whole days (always >= 1).
func (w ReviewerWindow) Days() int {
	return w.Start.DaysUntil(w.End)
}
