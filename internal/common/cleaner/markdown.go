package cleaner

import "regexp"

// Converted markdown sometimes carries artifacts from the source HTML:
// bold runs split across lines, missing spaces around markers, runs of
// blank lines. SanitizeMarkdown repairs the common cases.

var (
	boldThenLine   = regexp.MustCompile(`\*\*([^*\n]*)\*\*\n([^\n*]+)`)
	lineThenBold   = regexp.MustCompile(`([^\n*]+)\n\*\*([^*\n]*)\*\*`)
	wordBreakBold  = regexp.MustCompile(`(\w+)\n\s+\*\*([^*]+)\*\*`)
	boldThenLower  = regexp.MustCompile(`\*\*([^*]+)\*\*\n([a-z])`)
	boldThenUpper  = regexp.MustCompile(`\*\*([^*]+)\*\*([A-Z][a-z])`)
	adjacentBold   = regexp.MustCompile(`\*\*([^*]+)\*\*\*\*([^*]+)\*\*`)
	spaceInsideFmt = regexp.MustCompile(`(^|\s)\*\* ([^*]+)\*\*`)
	spaceBeforeEnd = regexp.MustCompile(`\*\*([^*]+) \*\*(\s|$)`)
	spacedBoldPair = regexp.MustCompile(`\*\*([^*]+)\*\*\s{2,}\*\*([^*]+)\*\*`)
	blankRuns      = regexp.MustCompile(`\n{3,}`)
	trimEdges      = regexp.MustCompile(`^\s+|\s+$`)
)

// SanitizeMarkdown fixes broken bold formatting and collapses excess
// blank lines in converted markdown.
func SanitizeMarkdown(s string) string {
	if s == "" {
		return s
	}
	s = boldThenLine.ReplaceAllString(s, "**$1** $2")
	s = lineThenBold.ReplaceAllString(s, "$1 **$2**")
	s = wordBreakBold.ReplaceAllString(s, "$1 **$2**")
	s = boldThenLower.ReplaceAllString(s, "**$1** $2")
	s = boldThenUpper.ReplaceAllString(s, "**$1** $2")
	s = adjacentBold.ReplaceAllString(s, "**$1**\n\n**$2**")
	s = spaceInsideFmt.ReplaceAllString(s, "$1**$2**")
	s = spaceBeforeEnd.ReplaceAllString(s, "**$1**$2")
	s = spacedBoldPair.ReplaceAllString(s, "**$1**\n\n**$2**")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return trimEdges.ReplaceAllString(s, "")
}
