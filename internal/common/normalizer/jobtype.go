package normalizer

import (
	"strings"

	"github.com/project-tktt/go-jobspy/internal/domain"
)

// jobTypeSynonyms maps source-native employment-type terms to canonical
// values. Sources report these in English, Portuguese (Gupy) and
// Vietnamese, often embedded in longer strings, so matching is
// case-insensitive substring containment.
var jobTypeSynonyms = []struct {
	canonical domain.JobType
	terms     []string
}{
	{domain.JobTypeInternship, []string{
		"internship", "intern", "estágio", "estagio", "estagiário", "estagiario", "trainee", "thực tập",
	}},
	{domain.JobTypeTemporary, []string{
		"temporary", "seasonal", "temporário", "temporario", "temp ", "thời vụ",
	}},
	{domain.JobTypeContract, []string{
		"contract", "contractor", "freelance", "freelancer", "autônomo", "autonomo", "hợp đồng",
	}},
	{domain.JobTypePartTime, []string{
		"part-time", "part time", "parttime", "meio período", "meio periodo", "parcial", "bán thời gian",
	}},
	{domain.JobTypeFullTime, []string{
		"full-time", "full time", "fulltime", "permanent", "tempo integral", "clt", "efetivo",
		"vacancy_type_effective", "toàn thời gian",
	}},
}

// ExtractJobTypes maps a raw employment-type string to canonical values.
// Unmapped non-empty input yields JobTypeUnknown rather than failing the
// record; empty input yields nil.
func ExtractJobTypes(raw string) []domain.JobType {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return nil
	}

	var out []domain.JobType
	seen := make(map[domain.JobType]bool)
	for _, group := range jobTypeSynonyms {
		for _, term := range group.terms {
			if strings.Contains(raw, term) && !seen[group.canonical] {
				seen[group.canonical] = true
				out = append(out, group.canonical)
				break
			}
		}
	}
	if len(out) == 0 {
		return []domain.JobType{domain.JobTypeUnknown}
	}
	return out
}
