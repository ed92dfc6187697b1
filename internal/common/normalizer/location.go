package normalizer

import (
	"strings"

	"github.com/project-tktt/go-jobspy/internal/domain"
)

// ParseLocation splits free-text locations like "São Paulo, SP" or
// "Porto - Portugal" into structured fields. Text that matches no known
// shape is retained verbatim in the Raw fallback.
func ParseLocation(raw, defaultCountry string) domain.Location {
	text := CleanText(raw)
	if text == "" {
		return domain.Location{Country: defaultCountry}
	}

	loc := domain.Location{Raw: text, Country: defaultCountry}

	var parts []string
	switch {
	case strings.Contains(text, ","):
		parts = strings.Split(text, ",")
	case strings.Contains(text, " - "):
		parts = strings.Split(text, " - ")
	default:
		loc.City = text
		return loc
	}

	for i := range parts {
		parts[i] = CleanText(parts[i])
	}
	switch len(parts) {
	case 2:
		loc.City, loc.State = parts[0], parts[1]
	default:
		loc.City, loc.State = parts[0], parts[1]
		if c := parts[len(parts)-1]; c != "" {
			loc.Country = c
		}
	}
	return loc
}

// CleanText collapses runs of whitespace (including non-breaking
// spaces) into single spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}
