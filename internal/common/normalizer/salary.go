package normalizer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/project-tktt/go-jobspy/internal/domain"
)

// Salary extraction is heuristic by design: it only fires on text with a
// recognizable currency-anchored amount, and mismatches are expected
// behavior, not bugs. Pattern precedence is fixed so results stay
// reproducible: currency+range first, then currency+single number, then
// the interval keyword. No match leaves compensation entirely absent.

const (
	currencyPattern = `(R\$|US\$|\$|€|£|\bUSD\b|\bEUR\b|\bGBP\b|\bBRL\b)`
	amountPattern   = `([\d][\d.,]*)\s*([kK])?`
)

var (
	salaryRangeRe = regexp.MustCompile(`(?i)` + currencyPattern + `\s*` + amountPattern +
		`\s*(?:-|–|—|\bto\b|até|\ba\b)\s*(?:` + currencyPattern + `\s*)?` + amountPattern)
	salarySingleRe = regexp.MustCompile(`(?i)` + currencyPattern + `\s*` + amountPattern)

	// Checked in this order; the first keyword found wins.
	intervalKeywords = []struct {
		interval domain.CompensationInterval
		terms    []string
	}{
		{domain.IntervalHourly, []string{"hour", "/h", "hr", "hora", "giờ"}},
		{domain.IntervalYearly, []string{"year", "/y", "yr", "annum", "annual", "ano", "năm"}},
		{domain.IntervalMonthly, []string{"month", "/m", "mês", "mes", "tháng"}},
		{domain.IntervalWeekly, []string{"week", "wk", "semana", "tuần"}},
		{domain.IntervalDaily, []string{"day", "daily", "dia", "día", "ngày"}},
	}
)

// ExtractCompensation applies the regex pass to free text. It returns
// nil when no currency-anchored amount is present; it never guesses.
func ExtractCompensation(text string) *domain.Compensation {
	if text == "" {
		return nil
	}

	if m := salaryRangeRe.FindStringSubmatch(text); m != nil {
		low := parseAmount(m[2], m[3])
		high := parseAmount(m[5], m[6])
		if low > 0 && high > 0 {
			if low > high {
				low, high = high, low
			}
			return &domain.Compensation{
				MinAmount: low,
				MaxAmount: high,
				Currency:  currencyCode(m[1]),
				Interval:  extractInterval(text),
			}
		}
	}

	if m := salarySingleRe.FindStringSubmatch(text); m != nil {
		amount := parseAmount(m[2], m[3])
		if amount > 0 {
			return &domain.Compensation{
				MinAmount: amount,
				MaxAmount: amount,
				Currency:  currencyCode(m[1]),
				Interval:  extractInterval(text),
			}
		}
	}

	return nil
}

// MapInterval converts a source-reported pay period ("MONTH", "yearly",
// "per year") to the canonical interval, or "" when unrecognized.
func MapInterval(raw string) domain.CompensationInterval {
	return extractInterval(strings.ToLower(raw))
}

func extractInterval(text string) domain.CompensationInterval {
	lower := strings.ToLower(text)
	for _, kw := range intervalKeywords {
		for _, term := range kw.terms {
			if strings.Contains(lower, term) {
				return kw.interval
			}
		}
	}
	return ""
}

// parseAmount handles "120,000", "120.000" (Brazilian grouping), plain
// floats, and the k-suffix shorthand.
func parseAmount(num, kSuffix string) float64 {
	num = strings.TrimSpace(num)
	if num == "" {
		return 0
	}

	if groupedDotsRe.MatchString(num) {
		num = strings.ReplaceAll(num, ".", "")
	}
	num = strings.ReplaceAll(num, ",", "")
	num = strings.TrimRight(num, ".")

	val, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if kSuffix != "" {
		val *= 1000
	}
	return val
}

var groupedDotsRe = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

func currencyCode(symbol string) string {
	switch strings.ToUpper(strings.TrimSpace(symbol)) {
	case "R$", "BRL":
		return "BRL"
	case "€", "EUR":
		return "EUR"
	case "£", "GBP":
		return "GBP"
	default:
		return "USD"
	}
}
