package render

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sukalov/cifrabot/internal/sheets"
)

// Diff is a unified diff from the original sheet to the transposed one.
// Only chord lines can differ, so lyric lines show up as context.
func Diff(v sheets.View) (string, error) {
	if !v.Transposed() {
		return "", nil
	}
	from := "original"
	to := fmt.Sprintf("transposed %s", signed(v.Semitones))
	if v.Sheet.Key != "" {
		from += " (" + v.Sheet.Key + ")"
		to += " (" + v.CurrentKey + ")"
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(v.Sheet.Chords),
		B:        difflib.SplitLines(v.Text),
		FromFile: from,
		ToFile:   to,
		Context:  1,
	})
}
