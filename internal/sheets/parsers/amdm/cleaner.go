package amdm

import (
	"fmt"
	"regexp"
	"strings"
)

var trailingSpaceRegex = regexp.MustCompile(`(?m)[ \t]+$`)

// finalCleanup trims line ends and caps runs of blank lines. Leading spaces
// are kept since they align chords over the lyrics.
func (p *Parser) finalCleanup(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = trailingSpaceRegex.ReplaceAllString(text, "")

	if p.config.MaxLineBreaks > 0 {
		excessiveBreaksRegex := regexp.MustCompile(fmt.Sprintf(`\n{%d,}`, p.config.MaxLineBreaks+1))
		text = excessiveBreaksRegex.ReplaceAllString(text, strings.Repeat("\n", p.config.MaxLineBreaks))
	}

	return strings.Trim(text, "\n")
}
