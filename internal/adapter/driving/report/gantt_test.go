package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/prtimeline/internal/domain/model"
)

func sampleWindows() []model.ReviewerWindow {
	return []model.ReviewerWindow{
		{
			Reviewer:    "alice",
			Start:       model.MustParseDate("2024-01-02"),
			End:         model.MustParseDate("2024-01-03"),
			StartReason: model.StartReasonRequested,
			EndReason:   model.EndReasonApproved,
		},
		{
			Reviewer:    "bob",
			Start:       model.MustParseDate("2024-01-05"),
			End:         model.MustParseDate("2024-01-06"),
			StartReason: model.StartReasonFirstReview,
			EndReason:   model.EndReasonMergedNormalized,
		},
	}
}

func TestRenderGantt(t *testing.T) {
	want := "gantt\n" +
		"  title PR Review Timeline\n" +
		"  dateFormat  YYYY-MM-DD\n" +
		"  axisFormat  %d %b\n" +
		"\n" +
		"  @alice : 2024-01-02, 2024-01-03\n" +
		"  @bob : 2024-01-05, 2024-01-06"

	assert.Equal(t, want, RenderGantt(sampleWindows()))
}

func TestRenderGantt_Empty(t *testing.T) {
	assert.Equal(t,
		"gantt\n  title PR Review Timeline\n  dateFormat  YYYY-MM-DD\n  axisFormat  %d %b\n",
		RenderGantt(nil),
	)
}

func TestRenderMermaid(t *testing.T) {
	got := RenderMermaid(sampleWindows())

	assert.Equal(t, "```mermaid\n"+RenderGantt(sampleWindows())+"\n```", got)
}

func TestFormatWindowLine(t *testing.T) {
	windows := sampleWindows()

	assert.Equal(t, "@alice: 2024-01-02 (requested) -> 2024-01-03 (approved)", FormatWindowLine(windows[0]))
	assert.Equal(t, "@bob: 2024-01-05 (first_review) -> 2024-01-06 (merged+normalized)", FormatWindowLine(windows[1]))
}
