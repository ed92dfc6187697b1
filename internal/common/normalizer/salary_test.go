package normalizer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/project-tktt/go-jobspy/internal/common/normalizer"
	"github.com/project-tktt/go-jobspy/internal/domain"
)

func TestExtractCompensation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want *domain.Compensation
	}{
		{
			name: "usd range with interval",
			text: "$120,000 - $180,000 per year",
			want: &domain.Compensation{MinAmount: 120000, MaxAmount: 180000, Currency: "USD", Interval: domain.IntervalYearly},
		},
		{
			name: "k suffix range",
			text: "$50k - $80k",
			want: &domain.Compensation{MinAmount: 50000, MaxAmount: 80000, Currency: "USD"},
		},
		{
			name: "brazilian grouping monthly",
			text: "R$ 5.000 - R$ 7.000 por mês",
			want: &domain.Compensation{MinAmount: 5000, MaxAmount: 7000, Currency: "BRL", Interval: domain.IntervalMonthly},
		},
		{
			name: "euro range with to separator",
			text: "€40,000 to €60,000 per annum",
			want: &domain.Compensation{MinAmount: 40000, MaxAmount: 60000, Currency: "EUR", Interval: domain.IntervalYearly},
		},
		{
			name: "single amount hourly",
			text: "Pays $25 per hour",
			want: &domain.Compensation{MinAmount: 25, MaxAmount: 25, Currency: "USD", Interval: domain.IntervalHourly},
		},
		{
			name: "gbp single",
			text: "£45,000",
			want: &domain.Compensation{MinAmount: 45000, MaxAmount: 45000, Currency: "GBP"},
		},
		{
			name: "reversed range is reordered",
			text: "$180,000 - $120,000 per year",
			want: &domain.Compensation{MinAmount: 120000, MaxAmount: 180000, Currency: "USD", Interval: domain.IntervalYearly},
		},
		{
			name: "no currency anchor",
			text: "competitive salary",
			want: nil,
		},
		{
			name: "bare number without currency",
			text: "up to 120000 annually",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := normalizer.ExtractCompensation(tt.text)
			if tt.want == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.Equal(t, tt.want, got)
			require.True(t, got.Valid())
		})
	}
}

func TestMapInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want domain.CompensationInterval
	}{
		{"yearly", domain.IntervalYearly},
		{"per year", domain.IntervalYearly},
		{"MONTH", domain.IntervalMonthly},
		{"hora", domain.IntervalHourly},
		{"weekly", domain.IntervalWeekly},
		{"daily", domain.IntervalDaily},
		{"whatever", ""},
		{"", ""},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, normalizer.MapInterval(tt.raw), "raw=%q", tt.raw)
	}
}
