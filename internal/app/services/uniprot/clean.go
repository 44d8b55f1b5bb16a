package uniprot

import (
	"regexp"
	"strings"
)

var (
	pubmedParenPattern   = regexp.MustCompile(`\s*\(PubMed:[^)]+\)`)
	ecoBracePattern      = regexp.MustCompile(`\s*\{ECO:[^}]+\}`)
	pubmedBracketPattern = regexp.MustCompile(`\s*\[PubMed:[^\]]+\]`)
	ecoParenPattern      = regexp.MustCompile(`\s*\(ECO:[^)]+\)`)
	runsOfSpacePattern   = regexp.MustCompile(`\s\s+`)
)

// cleanText strips curation markers such as "(PubMed:123)", "{ECO:...}",
// "[PubMed:123]" and "(ECO:...)" from annotation text, then collapses the
// whitespace runs they leave behind. Cleaning an already clean string is a
// no-op.
func cleanText(text string) string {
	if text == "" {
		return ""
	}
	text = pubmedParenPattern.ReplaceAllString(text, "")
	text = ecoBracePattern.ReplaceAllString(text, "")
	text = pubmedBracketPattern.ReplaceAllString(text, "")
	text = ecoParenPattern.ReplaceAllString(text, "")
	text = runsOfSpacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
