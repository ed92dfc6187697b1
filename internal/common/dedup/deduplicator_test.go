package dedup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/project-tktt/go-jobspy/internal/common/dedup"
	"github.com/project-tktt/go-jobspy/internal/domain"
)

func job(title, company, city string, src domain.Source) domain.JobPost {
	return domain.JobPost{
		Title:    title,
		Company:  company,
		Location: domain.Location{City: city},
		Source:   src,
	}
}

func TestDeduplicator_FirstOccurrenceWins(t *testing.T) {
	t.Parallel()

	dd := dedup.NewDeduplicator()

	assert.True(t, dd.Check(job("Backend Engineer", "Acme", "Porto", domain.SourceGupy)))
	assert.False(t, dd.Check(job("Backend Engineer", "Acme", "Porto", domain.SourceWellfound)))
	assert.Equal(t, 1, dd.Dropped())
}

func TestDeduplicator_KeyIsCaseAndSpaceInsensitive(t *testing.T) {
	t.Parallel()

	dd := dedup.NewDeduplicator()

	assert.True(t, dd.Check(job("Backend  Engineer", "ACME", "Porto", domain.SourceGupy)))
	assert.False(t, dd.Check(job("backend engineer", "acme", "PORTO", domain.SourceGupy)))
}

func TestDeduplicator_DifferentLocationIsNotADuplicate(t *testing.T) {
	t.Parallel()

	dd := dedup.NewDeduplicator()

	assert.True(t, dd.Check(job("Backend Engineer", "Acme", "Porto", domain.SourceGupy)))
	assert.True(t, dd.Check(job("Backend Engineer", "Acme", "Lisboa", domain.SourceGupy)))
	assert.Equal(t, 0, dd.Dropped())
}

func TestKey(t *testing.T) {
	t.Parallel()

	a := dedup.Key(job("Dev", "Acme", "Porto", domain.SourceGupy))
	b := dedup.Key(job("Dev", "Acme", "Porto", domain.SourceWellfound))
	assert.Equal(t, a, b, "source must not affect the key")
}
