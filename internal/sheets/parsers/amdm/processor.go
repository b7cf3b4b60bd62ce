package amdm

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

var (
	// /* author notes */ left inline in the sheet
	commentRegex = regexp.MustCompile(`/\*[^*]*\*/`)
	// unterminated /* running to the end of a line
	openCommentRegex = regexp.MustCompile(`(?m)/\*.*$`)
)

// processSheet turns the chords block into plain text, keeping chord lines
// aligned with the lyrics under them
func (p *Parser) processSheet(selection *goquery.Selection) string {
	block := selection.Clone()

	// author comments and chord diagrams carry no sheet text
	block.Find(`span.podbor__author-comment`).Remove()
	block.Find(`img`).Remove()

	text := block.Text()
	text = commentRegex.ReplaceAllString(text, "")
	text = openCommentRegex.ReplaceAllString(text, "")

	return p.finalCleanup(text)
}
