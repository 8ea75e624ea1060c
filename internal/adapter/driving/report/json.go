package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ericfisherdev/prtimeline/internal/domain/model"
)

// RenderJSON writes the windows as an indented JSON array. A nil slice is
// written as [].
func RenderJSON(w io.Writer, windows []model.ReviewerWindow) error {
	if windows == nil {
		windows = []model.ReviewerWindow{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(windows); err != nil {
		return fmt.Errorf("encoding windows: %w", err)
	}
	return nil
}

// CompactJSON returns the windows as single-line JSON.
func CompactJSON(windows []model.ReviewerWindow) (string, error) {
	if windows == nil {
		windows = []model.ReviewerWindow{}
	}

	b, err := json.Marshal(windows)
	if err != nil {
		return "", fmt.Errorf("encoding windows: %w", err)
	}
	return string(b), nil
}
