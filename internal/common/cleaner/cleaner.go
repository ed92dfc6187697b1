package cleaner

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"

	"github.com/project-tktt/go-jobspy/internal/domain"
)

// Cleaner renders scraped description HTML into the requested output
// format: sanitized HTML, plain text, or markdown.
type Cleaner struct {
	policy    *bluemonday.Policy
	strict    *bluemonday.Policy
	converter *md.Converter
}

// NewCleaner creates a cleaner with a policy that keeps basic formatting
// but strips scripts, styles and event handlers.
func NewCleaner() *Cleaner {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("p", "br", "div", "span")
	policy.AllowElements("strong", "b", "em", "i", "u")
	policy.AllowElements("ul", "ol", "li")
	policy.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.AllowAttrs("href").OnElements("a")
	policy.AllowRelativeURLs(true)
	policy.RequireParseableURLs(true)
	policy.AllowURLSchemes("http", "https", "mailto")

	return &Cleaner{
		policy:    policy,
		strict:    bluemonday.StrictPolicy(),
		converter: md.NewConverter("", true, nil),
	}
}

// Clean sanitizes HTML content, keeping safe formatting tags.
func (c *Cleaner) Clean(html string) string {
	return c.policy.Sanitize(html)
}

// CleanToText removes all HTML and returns plain text.
func (c *Cleaner) CleanToText(html string) string {
	text := c.strict.Sanitize(html)
	text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	return strings.TrimSpace(text)
}

// ToMarkdown converts sanitized HTML to markdown. Conversion failures
// degrade to plain text rather than erroring.
func (c *Cleaner) ToMarkdown(html string) string {
	out, err := c.converter.ConvertString(c.Clean(html))
	if err != nil {
		return c.CleanToText(html)
	}
	return strings.TrimSpace(out)
}

// Render produces the description in the requested format.
func (c *Cleaner) Render(html string, format domain.DescriptionFormat) string {
	if html == "" {
		return ""
	}
	switch format {
	case domain.FormatHTML:
		return c.Clean(html)
	case domain.FormatPlain:
		return c.CleanToText(html)
	default:
		return SanitizeMarkdown(c.ToMarkdown(html))
	}
}
