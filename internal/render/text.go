package render

import (
	"io"
	"strings"

	"github.com/sukalov/cifrabot/internal/sheets"
)

const ruleWidth = 70

var rule = strings.Repeat("=", ruleWidth)

// WriteText prints a view the way the console shows it
func WriteText(w io.Writer, v sheets.View) error {
	var b strings.Builder
	b.WriteString("\n" + rule + "\n")
	header := HeaderLines(v)
	b.WriteString(header[0] + "\n")
	b.WriteString(rule + "\n")
	for _, line := range header[1:] {
		b.WriteString(line + "\n")
	}
	b.WriteString(rule + "\n\n")
	b.WriteString(v.Text)
	b.WriteString("\n\n" + rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Text is WriteText into a string
func Text(v sheets.View) string {
	var b strings.Builder
	_ = WriteText(&b, v)
	return b.String()
}
