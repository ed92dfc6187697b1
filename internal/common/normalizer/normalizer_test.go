package normalizer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-tktt/go-jobspy/internal/common/normalizer"
	"github.com/project-tktt/go-jobspy/internal/domain"
)

func TestNormalize_FullRecord(t *testing.T) {
	t.Parallel()

	posted := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	raw := domain.RawJob{
		ID:          "gupy-42",
		Source:      domain.SourceGupy,
		Title:       "Vaga: Engenheiro de Software  S&ecirc;nior",
		Company:     "Acme Tecnologia LTDA",
		City:        "São Paulo",
		State:       "SP",
		Country:     "Brasil",
		JobTypeRaw:  "vacancy_type_effective",
		DatePosted:  &posted,
		JobURL:      "https://example.com/jobs/42",
		DirectURL:   "https://acme.example.com/careers",
		Description: "<p>Build things. Contact <b>hiring@acme.com</b></p>",
	}

	job := normalizer.NewNormalizer().Normalize(raw, domain.SearchSpec{Format: domain.FormatMarkdown})

	assert.Equal(t, "gupy-42", job.ID)
	assert.Equal(t, "Engenheiro de Software Sênior", job.Title)
	assert.Equal(t, "Acme Tecnologia", job.Company)
	assert.Equal(t, domain.Location{City: "São Paulo", State: "SP", Country: "Brasil"}, job.Location)
	assert.Equal(t, []domain.JobType{domain.JobTypeFullTime}, job.JobTypes)
	require.NotNil(t, job.DatePosted)
	assert.True(t, job.DatePosted.Equal(posted))
	assert.Equal(t, []string{"hiring@acme.com"}, job.Emails)
	assert.Contains(t, job.Description, "**hiring@acme.com**")
	assert.False(t, job.IsRemote)
}

func TestNormalize_IDFallbackIsStable(t *testing.T) {
	t.Parallel()

	norm := normalizer.NewNormalizer()
	raw := domain.RawJob{
		Source: domain.SourceWellfound,
		Title:  "Backend Engineer",
		JobURL: "https://wellfound.com/jobs/123-backend-engineer",
	}

	a := norm.Normalize(raw, domain.SearchSpec{})
	b := norm.Normalize(raw, domain.SearchSpec{})

	require.NotEmpty(t, a.ID)
	assert.Equal(t, a.ID, b.ID)
	assert.Contains(t, a.ID, "wellfound-")
}

func TestNormalize_CompensationPrecedence(t *testing.T) {
	t.Parallel()

	norm := normalizer.NewNormalizer()

	t.Run("structured wins over salary text", func(t *testing.T) {
		t.Parallel()

		raw := domain.RawJob{
			Title: "x", JobURL: "u",
			SalaryMin: 90000, SalaryMax: 110000, SalaryCurrency: "USD", SalaryInterval: "yearly",
			SalaryText: "$1 - $2 per hour",
		}
		job := norm.Normalize(raw, domain.SearchSpec{})
		require.NotNil(t, job.Compensation)
		assert.Equal(t, 90000.0, job.Compensation.MinAmount)
		assert.Equal(t, 110000.0, job.Compensation.MaxAmount)
		assert.Equal(t, domain.IntervalYearly, job.Compensation.Interval)
	})

	t.Run("structured without currency is dropped", func(t *testing.T) {
		t.Parallel()

		raw := domain.RawJob{Title: "x", JobURL: "u", SalaryMin: 90000, SalaryMax: 110000}
		job := norm.Normalize(raw, domain.SearchSpec{})
		assert.Nil(t, job.Compensation)
	})

	t.Run("salary text fallback", func(t *testing.T) {
		t.Parallel()

		raw := domain.RawJob{Title: "x", JobURL: "u", SalaryText: "$120,000 - $180,000 per year"}
		job := norm.Normalize(raw, domain.SearchSpec{})
		require.NotNil(t, job.Compensation)
		assert.Equal(t, 120000.0, job.Compensation.MinAmount)
		assert.Equal(t, 180000.0, job.Compensation.MaxAmount)
		assert.Equal(t, "USD", job.Compensation.Currency)
		assert.Equal(t, domain.IntervalYearly, job.Compensation.Interval)
	})

	t.Run("description fallback", func(t *testing.T) {
		t.Parallel()

		raw := domain.RawJob{
			Title: "x", JobURL: "u",
			Description: "<p>We pay €40,000 to €60,000 per year.</p>",
		}
		job := norm.Normalize(raw, domain.SearchSpec{})
		require.NotNil(t, job.Compensation)
		assert.Equal(t, "EUR", job.Compensation.Currency)
	})

	t.Run("no salary anywhere", func(t *testing.T) {
		t.Parallel()

		raw := domain.RawJob{Title: "x", JobURL: "u", Description: "<p>Great benefits.</p>"}
		job := norm.Normalize(raw, domain.SearchSpec{})
		assert.Nil(t, job.Compensation)
	})
}

func TestNormalize_RemoteDetection(t *testing.T) {
	t.Parallel()

	norm := normalizer.NewNormalizer()

	hint := norm.Normalize(domain.RawJob{Title: "x", JobURL: "u", RemoteHint: true}, domain.SearchSpec{})
	assert.True(t, hint.IsRemote)

	keyword := norm.Normalize(domain.RawJob{Title: "x", JobURL: "u", LocationRaw: "Remoto"}, domain.SearchSpec{})
	assert.True(t, keyword.IsRemote)

	office := norm.Normalize(domain.RawJob{Title: "x", JobURL: "u", LocationRaw: "Lisboa"}, domain.SearchSpec{})
	assert.False(t, office.IsRemote)
}

func TestNormalize_LocationFallsBackToSpecCountry(t *testing.T) {
	t.Parallel()

	norm := normalizer.NewNormalizer()
	spec := domain.SearchSpec{Country: "Portugal"}

	job := norm.Normalize(domain.RawJob{Title: "x", JobURL: "u", LocationRaw: "Porto"}, spec)
	assert.Equal(t, "Porto", job.Location.City)
	assert.Equal(t, "Portugal", job.Location.Country)
}

func TestNormalize_DescriptionFormats(t *testing.T) {
	t.Parallel()

	norm := normalizer.NewNormalizer()
	raw := domain.RawJob{Title: "x", JobURL: "u", Description: "<p>Hello <b>world</b></p>"}

	md := norm.Normalize(raw, domain.SearchSpec{Format: domain.FormatMarkdown})
	assert.Contains(t, md.Description, "**world**")

	html := norm.Normalize(raw, domain.SearchSpec{Format: domain.FormatHTML})
	assert.Contains(t, html.Description, "<b>world</b>")

	plain := norm.Normalize(raw, domain.SearchSpec{Format: domain.FormatPlain})
	assert.NotContains(t, plain.Description, "<")
	assert.Contains(t, plain.Description, "world")
}
