package normalizer

import (
	"regexp"
	"strings"
)

var (
	emailRe      = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	titleNoiseRe = regexp.MustCompile(`(?i)^(vaga:?|job:?|position:?)\s*`)
	spaceRunRe   = regexp.MustCompile(`\s+`)
)

var remoteIndicators = []string{
	"remote", "remoto", "home office", "trabalho remoto",
	"à distância", "anywhere", "worldwide", "distributed",
}

// ExtractEmails pulls contact addresses out of free text, deduplicated
// in order of first appearance.
func ExtractEmails(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	for _, m := range emailRe.FindAllString(text, -1) {
		key := strings.ToLower(m)
		if !seen[key] {
			seen[key] = true
			out = append(out, m)
		}
	}
	return out
}

// IsRemote reports whether any of the given text fields advertises
// remote work.
func IsRemote(fields ...string) bool {
	blob := strings.ToLower(strings.Join(fields, " "))
	for _, ind := range remoteIndicators {
		if strings.Contains(blob, ind) {
			return true
		}
	}
	return false
}

// NormalizeTitle strips listing-site noise ("Vaga: ...") and collapses
// whitespace in a job title.
func NormalizeTitle(title string) string {
	title = spaceRunRe.ReplaceAllString(strings.TrimSpace(title), " ")
	return strings.TrimSpace(titleNoiseRe.ReplaceAllString(title, ""))
}

// NormalizeCompany collapses whitespace and drops legal-form suffixes
// from a company name.
func NormalizeCompany(company string) string {
	company = spaceRunRe.ReplaceAllString(strings.TrimSpace(company), " ")
	return strings.TrimSpace(companySuffixRe.ReplaceAllString(company, ""))
}

var companySuffixRe = regexp.MustCompile(`(?i)\s*(ltda\.?|ltd\.?|inc\.?|corp\.?|s\.?a\.?)$`)
